package models

import "time"

const (
	HistoryActionDelete  = "delete"
	HistoryActionRestore = "restore"
)

type HistoryRecord struct {
	ID            int       `json:"id" db:"id"`
	TransactionID int       `json:"transaction_id" db:"transaction_id"`
	Action        string    `json:"action" db:"action"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
	Data          string    `json:"data" db:"data"` // JSON-снимок транзакции на момент операции
}
