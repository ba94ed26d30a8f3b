package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

type Transaction struct {
	ID          int             `json:"id" db:"id"`
	Type        string          `json:"type" db:"type"` // Возможные значения: "income", "expense"
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	Location    string          `json:"location" db:"location"` // Название счёта (Asset.Name)
	Date        time.Time       `json:"date" db:"date"`
}

// SignedAmount возвращает влияние транзакции на баланс счёта:
// положительное для дохода, отрицательное для расхода.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
