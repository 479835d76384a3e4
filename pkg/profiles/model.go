package profiles

import (
	"time"

	"github.com/shopspring/decimal"
)

type StartupProfile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	StartupName  string    `json:"startup_name"`
	Description  string    `json:"description"`
	Industry     string    `json:"industry"`
	FundingStage string    `json:"funding_stage"`
	TeamSize     int       `json:"team_size"`
	Website      string    `json:"website"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type InvestorProfile struct {
	ID                     int64           `json:"id"`
	UserID                 int64           `json:"user_id"`
	CompanyName            string          `json:"company_name"`
	Sector                 string          `json:"sector"`
	InvestmentRangeMin     decimal.Decimal `json:"investment_range_min" swaggertype:"string"`
	InvestmentRangeMax     decimal.Decimal `json:"investment_range_max" swaggertype:"string"`
	Location               string          `json:"location"`
	InvestmentFocus        string          `json:"investment_focus"`
	ActiveInvestmentsCount int             `json:"active_investments_count"`
	Description            string          `json:"description"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

type StartupProfileList struct {
	Items []StartupProfile `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type InvestorProfileList struct {
	Items []InvestorProfile `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
