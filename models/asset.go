package models

import "github.com/shopspring/decimal"

type Asset struct {
	ID       int             `json:"id" db:"id"`
	Name     string          `json:"name" db:"name"` // Уникальное имя, по нему транзакции находят счёт
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Currency string          `json:"currency" db:"currency"`
	Image    string          `json:"image" db:"image"`
}
