package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

func InsertHistoryTx(tx pgx.Tx, record *models.HistoryRecord) error {
	query := `
		INSERT INTO transaction_history (transaction_id, action, timestamp, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := tx.QueryRow(context.Background(), query,
		record.TransactionID,
		record.Action,
		record.Timestamp,
		record.Data).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("ошибка при записи в историю: %v", err)
	}
	return nil
}

func GetHistory(pool *pgxpool.Pool, limit int) ([]models.HistoryRecord, error) {
	query := `
		SELECT id, transaction_id, action, timestamp, data
		FROM transaction_history
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := pool.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории: %v", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var r models.HistoryRecord
		if err := rows.Scan(&r.ID, &r.TransactionID, &r.Action, &r.Timestamp, &r.Data); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PruneHistoryBefore удаляет записи истории старше указанной даты.
// Возвращает количество удалённых строк.
func PruneHistoryBefore(pool *pgxpool.Pool, cutoff time.Time) (int64, error) {
	result, err := pool.Exec(context.Background(),
		`DELETE FROM transaction_history WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки истории: %v", err)
	}
	return result.RowsAffected(), nil
}
