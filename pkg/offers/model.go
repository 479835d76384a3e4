package offers

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusNegotiating Status = "NEGOTIATING"
	StatusClosed      Status = "CLOSED"
	StatusExpired     Status = "EXPIRED"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusNegotiating, StatusClosed, StatusExpired:
		return st, true
	default:
		return "", false
	}
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusExpired
}

type Offer struct {
	ID               int64           `json:"id"`
	StartupID        int64           `json:"startup_id"`
	InvestorUserID   *int64          `json:"investor_user_id,omitempty"`
	Amount           decimal.Decimal `json:"amount" swaggertype:"string"`
	EquityPercentage decimal.Decimal `json:"equity_percentage" swaggertype:"string"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount" swaggertype:"string"`
	Description      string          `json:"description"`
	Terms            string          `json:"terms"`
	Status           Status          `json:"status" swaggertype:"string"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OfferInput holds the owner-editable fields of an offer.
type OfferInput struct {
	Amount           decimal.Decimal
	EquityPercentage decimal.Decimal
	Description      string
	Terms            string
}

// OfferView is an offer joined with the names shown to clients.
type OfferView struct {
	Offer
	StartupName     string `json:"startup_name"`
	InvestorName    string `json:"investor_name,omitempty"`
	InvestorCompany string `json:"investor_company,omitempty"`
}
