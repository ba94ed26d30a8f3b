package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ArchivedTransaction struct {
	ID           int             `json:"id" db:"id"`
	OriginalID   int             `json:"original_id" db:"original_id"`
	Type         string          `json:"type" db:"type"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Category     string          `json:"category" db:"category"`
	Description  string          `json:"description" db:"description"`
	Location     string          `json:"location" db:"location"`
	Date         time.Time       `json:"date" db:"date"`
	ArchivedDate time.Time       `json:"archived_date" db:"archived_date"`
}

// ToTransaction восстанавливает активную транзакцию из архивной копии.
// ID не переносится, при вставке будет присвоен новый.
func (a *ArchivedTransaction) ToTransaction() *Transaction {
	return &Transaction{
		Type:        a.Type,
		Amount:      a.Amount,
		Category:    a.Category,
		Description: a.Description,
		Location:    a.Location,
		Date:        a.Date,
	}
}

type ArchiveStatistics struct {
	Count        int             `json:"count"`
	OldestDate   *time.Time      `json:"oldest_date,omitempty"`
	NewestDate   *time.Time      `json:"newest_date,omitempty"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}
