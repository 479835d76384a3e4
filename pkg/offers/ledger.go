package offers

import (
	"time"

	"github.com/shopspring/decimal"

	"startupconnect/pkg/apperr"
)

var (
	ErrOfferNotFound         = apperr.New(apperr.NotFound, "OFFER_NOT_FOUND", "investment offer not found")
	ErrOwnershipMismatch     = apperr.New(apperr.OwnershipMismatch, "OFFER_OWNERSHIP_MISMATCH", "offer does not belong to this startup")
	ErrAlreadyClosed         = apperr.New(apperr.InvalidState, "OFFER_ALREADY_CLOSED", "offer is already closed")
	ErrOfferTerminal         = apperr.New(apperr.InvalidState, "OFFER_TERMINAL", "offer can no longer change")
	ErrStatusTransition      = apperr.New(apperr.InvalidState, "OFFER_STATUS_TRANSITION", "offer status transition not allowed")
	ErrInsufficientRemaining = apperr.New(apperr.InvalidRange, "INSUFFICIENT_REMAINING", "insufficient remaining amount")
	ErrAmountBelowRemaining  = apperr.New(apperr.InvalidRange, "AMOUNT_BELOW_REMAINING", "amount cannot be lower than the remaining amount")
	ErrAmountTooLarge        = apperr.New(apperr.InvalidRange, "AMOUNT_TOO_LARGE", "amount must be below 10^16")
	ErrTooManyDecimals       = apperr.New(apperr.InvalidInput, "TOO_MANY_DECIMALS", "amounts and percentages allow at most 2 decimal places")
	ErrInvalidAmount         = apperr.New(apperr.InvalidInput, "INVALID_AMOUNT", "amount must be greater than zero")
	ErrInvalidEquity         = apperr.New(apperr.InvalidInput, "INVALID_EQUITY", "equity percentage must be greater than 0 and at most 100")
	ErrInvalidDelta          = apperr.New(apperr.InvalidInput, "INVALID_DELTA", "investment amount must be greater than zero")
	ErrInvalidStatus         = apperr.New(apperr.InvalidInput, "INVALID_STATUS", "status must be ACTIVE, NEGOTIATING, CLOSED or EXPIRED")
)

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.New(1, 16) // NUMERIC(18,2)
)

func hasCents(v decimal.Decimal) bool {
	return v.Equal(v.Truncate(2))
}

func validateInput(in OfferInput) error {
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if in.Amount.GreaterThanOrEqual(maxAmount) {
		return ErrAmountTooLarge
	}
	if !in.EquityPercentage.IsPositive() || in.EquityPercentage.GreaterThan(hundred) {
		return ErrInvalidEquity
	}
	if !hasCents(in.Amount) || !hasCents(in.EquityPercentage) {
		return ErrTooManyDecimals
	}
	return nil
}

// NewOffer builds an ACTIVE offer whose remaining amount equals its amount.
func NewOffer(startupID int64, in OfferInput, now time.Time) (Offer, error) {
	if err := validateInput(in); err != nil {
		return Offer{}, err
	}
	return Offer{
		StartupID:        startupID,
		Amount:           in.Amount,
		EquityPercentage: in.EquityPercentage,
		RemainingAmount:  in.Amount,
		Description:      in.Description,
		Terms:            in.Terms,
		Status:           StatusActive,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ApplyUpdate overwrites the editable fields. Status and remaining amount are
// left alone, so the amount cannot drop below what is still open.
func ApplyUpdate(o Offer, in OfferInput, now time.Time) (Offer, error) {
	if o.Status.Terminal() {
		return Offer{}, apperr.Wrap(ErrOfferTerminal, "status %s", o.Status)
	}
	if err := validateInput(in); err != nil {
		return Offer{}, err
	}
	if in.Amount.LessThan(o.RemainingAmount) {
		return Offer{}, apperr.Wrap(ErrAmountBelowRemaining, "amount %s < remaining %s", in.Amount, o.RemainingAmount)
	}

	updated := o
	updated.Amount = in.Amount
	updated.EquityPercentage = in.EquityPercentage
	updated.Description = in.Description
	updated.Terms = in.Terms
	updated.UpdatedAt = now
	return updated, nil
}

// TransitionStatus moves o to target when the transition table allows it.
func TransitionStatus(o Offer, target Status, now time.Time) (Offer, error) {
	if _, ok := ParseStatus(string(target)); !ok {
		return Offer{}, ErrInvalidStatus
	}
	if !isStatusTransitionAllowed(o.Status, target) {
		return Offer{}, apperr.Wrap(ErrStatusTransition, "%s -> %s", o.Status, target)
	}

	updated := o
	updated.Status = target
	updated.IsActive = !target.Terminal()
	updated.UpdatedAt = now
	return updated, nil
}

func isStatusTransitionAllowed(from, to Status) bool {
	switch from {
	case StatusActive, StatusNegotiating:
		return to == StatusActive || to == StatusNegotiating || to == StatusClosed || to == StatusExpired
	default:
		return false
	}
}

// Accept records the investor and closes the offer. The investor is set
// exactly once.
func Accept(o Offer, investorUserID int64, now time.Time) (Offer, error) {
	switch {
	case o.Status == StatusClosed:
		return Offer{}, ErrAlreadyClosed
	case o.Status.Terminal():
		return Offer{}, apperr.Wrap(ErrOfferTerminal, "status %s", o.Status)
	case o.InvestorUserID != nil:
		return Offer{}, ErrAlreadyClosed
	}

	updated := o
	id := investorUserID
	updated.InvestorUserID = &id
	updated.Status = StatusClosed
	updated.IsActive = false
	updated.UpdatedAt = now
	return updated, nil
}

// Decrement takes delta out of the remaining amount, closing the offer when
// nothing is left.
func Decrement(o Offer, delta decimal.Decimal, now time.Time) (Offer, error) {
	if !delta.IsPositive() {
		return Offer{}, ErrInvalidDelta
	}
	if !hasCents(delta) {
		return Offer{}, ErrTooManyDecimals
	}
	next := o.RemainingAmount.Sub(delta)
	if next.IsNegative() {
		return Offer{}, apperr.Wrap(ErrInsufficientRemaining, "remaining %s, requested %s", o.RemainingAmount, delta)
	}
	if o.Status.Terminal() {
		return Offer{}, apperr.Wrap(ErrOfferTerminal, "status %s", o.Status)
	}

	updated := o
	updated.RemainingAmount = next
	if next.IsZero() {
		updated.Status = StatusClosed
		updated.IsActive = false
	}
	updated.UpdatedAt = now
	return updated, nil
}
