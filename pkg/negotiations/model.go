package negotiations

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"

	// counterAlias is accepted on input and stored as PENDING.
	counterAlias = "COUNTERED"
)

// ParseStatus normalises a client supplied status. An empty string means
// PENDING.
func ParseStatus(s string) (Status, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", counterAlias, string(StatusPending):
		return StatusPending, true
	case string(StatusAccepted):
		return StatusAccepted, true
	case string(StatusRejected):
		return StatusRejected, true
	default:
		return "", false
	}
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Negotiation is the negotiation state carried on a transaction row.
type Negotiation struct {
	ID               int64           `json:"id"`
	StartupID        int64           `json:"startup_id"`
	InvestorID       int64           `json:"investor_id"`
	ProposedAmount   decimal.Decimal `json:"proposed_amount" swaggertype:"string"`
	EquityPercentage decimal.Decimal `json:"equity_percentage" swaggertype:"string"`
	Status           Status          `json:"status" swaggertype:"string"`
	Round            int             `json:"negotiation_round"`
	IsCounterOffer   bool            `json:"is_counter_offer"`
	Notes            string          `json:"notes"`
	RejectionReason  *string         `json:"rejection_reason,omitempty"`
	LastUpdated      time.Time       `json:"last_updated"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// View is a negotiation with the counterpart names and the owning user ids
// of both profiles.
type View struct {
	Negotiation
	StartupName         string `json:"startup_name"`
	InvestorName        string `json:"investor_name"`
	InvestorCompanyName string `json:"investor_company_name"`
	StartupUserID       int64  `json:"-"`
	InvestorUserID      int64  `json:"-"`
}

type Proposal struct {
	ProposedAmount   decimal.Decimal
	EquityPercentage decimal.Decimal
	Notes            string
}

// CounterInput is a new round proposed by either party.
type CounterInput struct {
	Proposal
	Status          Status
	RejectionReason string
}
