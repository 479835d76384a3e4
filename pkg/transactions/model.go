package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusPending = "PENDING"

type Transaction struct {
	ID              int64           `json:"id"`
	InvestorID      int64           `json:"investor_id"`
	StartupID       int64           `json:"startup_id"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string"`
	Status          string          `json:"status"`
	TransactionDate time.Time       `json:"transaction_date"`
	TransactionType string          `json:"transaction_type"`
	Description     string          `json:"description"`
}

// TransactionView adds the counterpart names shown in listings.
type TransactionView struct {
	Transaction
	InvestorName        string `json:"investor_name"`
	InvestorCompanyName string `json:"investor_company_name"`
	StartupName         string `json:"startup_name"`
	StartupStage        string `json:"startup_stage"`
}

type CreateTransactionInput struct {
	StartupID       int64
	Amount          decimal.Decimal
	Status          string
	TransactionDate time.Time
	TransactionType string
	Description     string
}
