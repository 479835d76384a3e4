package negotiations

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"startupconnect/pkg/apperr"
)

var (
	ErrNegotiationNotFound = apperr.New(apperr.NotFound, "NEGOTIATION_NOT_FOUND", "negotiation not found")
	ErrNegotiationClosed   = apperr.New(apperr.InvalidState, "NEGOTIATION_CLOSED", "negotiation is already accepted or rejected")
	ErrReasonRequired      = apperr.New(apperr.InvalidInput, "REJECTION_REASON_REQUIRED", "a rejection reason is required")
	ErrInvalidProposal     = apperr.New(apperr.InvalidInput, "INVALID_PROPOSED_AMOUNT", "proposed amount must be greater than zero")
	ErrInvalidEquity       = apperr.New(apperr.InvalidInput, "INVALID_EQUITY", "equity percentage must be greater than 0 and at most 100")
	ErrInvalidStatus       = apperr.New(apperr.InvalidInput, "INVALID_NEGOTIATION_STATUS", "status must be PENDING, COUNTERED, ACCEPTED or REJECTED")
	ErrProposalTooLarge    = apperr.New(apperr.InvalidRange, "PROPOSED_AMOUNT_TOO_LARGE", "proposed amount must be below 10^16")
	ErrTooManyDecimals     = apperr.New(apperr.InvalidInput, "TOO_MANY_DECIMALS", "amounts and percentages allow at most 2 decimal places")
)

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.New(1, 16) // NUMERIC(18,2)
)

func validateProposal(p Proposal) error {
	if !p.ProposedAmount.IsPositive() {
		return ErrInvalidProposal
	}
	if p.ProposedAmount.GreaterThanOrEqual(maxAmount) {
		return ErrProposalTooLarge
	}
	if !p.EquityPercentage.IsPositive() || p.EquityPercentage.GreaterThan(hundred) {
		return ErrInvalidEquity
	}
	if !p.ProposedAmount.Equal(p.ProposedAmount.Truncate(2)) || !p.EquityPercentage.Equal(p.EquityPercentage.Truncate(2)) {
		return ErrTooManyDecimals
	}
	return nil
}

// Open starts a negotiation at round 1 with the initial, non-counter proposal.
func Open(startupID, investorID int64, p Proposal, now time.Time) (Negotiation, error) {
	if err := validateProposal(p); err != nil {
		return Negotiation{}, err
	}
	return Negotiation{
		StartupID:        startupID,
		InvestorID:       investorID,
		ProposedAmount:   p.ProposedAmount,
		EquityPercentage: p.EquityPercentage,
		Status:           StatusPending,
		Round:            1,
		IsCounterOffer:   false,
		Notes:            p.Notes,
		LastUpdated:      now,
		UpdatedAt:        now,
	}, nil
}

// Counter records a new round. The round always advances by one, whatever
// the requested status.
func Counter(n Negotiation, in CounterInput, now time.Time) (Negotiation, error) {
	if n.Status.Terminal() {
		return Negotiation{}, apperr.Wrap(ErrNegotiationClosed, "status %s", n.Status)
	}
	if err := validateProposal(in.Proposal); err != nil {
		return Negotiation{}, err
	}
	target, ok := ParseStatus(string(in.Status))
	if !ok {
		return Negotiation{}, ErrInvalidStatus
	}

	updated := n
	updated.ProposedAmount = in.ProposedAmount
	updated.EquityPercentage = in.EquityPercentage
	updated.Notes = in.Notes
	updated.Status = target
	updated.IsCounterOffer = true
	updated.Round = n.Round + 1
	updated.RejectionReason = nil
	if target == StatusRejected {
		reason := strings.TrimSpace(in.RejectionReason)
		if reason == "" {
			return Negotiation{}, ErrReasonRequired
		}
		updated.RejectionReason = &reason
	}
	updated.LastUpdated = now
	updated.UpdatedAt = now
	return updated, nil
}

// Accept closes the negotiation as ACCEPTED. Round and counter flag stay as
// they are.
func Accept(n Negotiation, now time.Time) (Negotiation, error) {
	if n.Status.Terminal() {
		return Negotiation{}, apperr.Wrap(ErrNegotiationClosed, "status %s", n.Status)
	}
	updated := n
	updated.Status = StatusAccepted
	updated.UpdatedAt = now
	return updated, nil
}

// Reject closes the negotiation as REJECTED and keeps the reason verbatim.
func Reject(n Negotiation, reason string, now time.Time) (Negotiation, error) {
	if n.Status.Terminal() {
		return Negotiation{}, apperr.Wrap(ErrNegotiationClosed, "status %s", n.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return Negotiation{}, ErrReasonRequired
	}
	updated := n
	updated.Status = StatusRejected
	updated.RejectionReason = &reason
	updated.UpdatedAt = now
	return updated, nil
}
