package models

import "github.com/shopspring/decimal"

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

type Budget struct {
	ID       int             `json:"id" db:"id"`
	Category string          `json:"category" db:"category"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Period   string          `json:"period" db:"period"`
	Spent    decimal.Decimal `json:"spent" db:"spent"` // Накопленные расходы, не опускается ниже нуля
}
