package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

func InsertTransactionTx(tx pgx.Tx, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (type, amount, category, description, location, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := tx.QueryRow(context.Background(), query,
		transaction.Type,
		transaction.Amount,
		transaction.Category,
		transaction.Description,
		transaction.Location,
		transaction.Date).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
	}
	return nil
}

func GetTransactionByID(pool *pgxpool.Pool, transactionID int) (*models.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, location, date
		FROM transactions
		WHERE id = $1`

	transaction := &models.Transaction{}
	err := pool.QueryRow(context.Background(), query, transactionID).Scan(
		&transaction.ID,
		&transaction.Type,
		&transaction.Amount,
		&transaction.Category,
		&transaction.Description,
		&transaction.Location,
		&transaction.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена: %w", transactionID, pgx.ErrNoRows)
		}
		// Цепочка ошибок сохраняется: выше по ней отличают потерю
		// соединения от прочих сбоев.
		return nil, fmt.Errorf("ошибка при получении транзакции: %w", err)
	}

	return transaction, nil
}

// GetTransactionsSince загружает активные транзакции не старше указанной даты,
// от новых к старым. Ограничивает рабочий набор "свежим окном".
func GetTransactionsSince(pool *pgxpool.Pool, since time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, location, date
		FROM transactions
		WHERE date >= $1
		ORDER BY date DESC`

	rows, err := pool.Query(context.Background(), query, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %v", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func GetAllTransactions(pool *pgxpool.Pool) ([]models.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, location, date
		FROM transactions
		ORDER BY date DESC`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %v", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetTransactionsOlderThan отбирает кандидатов на архивирование.
func GetTransactionsOlderThan(pool *pgxpool.Pool, cutoff time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, location, date
		FROM transactions
		WHERE date < $1
		ORDER BY date`

	rows, err := pool.Query(context.Background(), query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении старых транзакций: %v", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func GetTransactionsInRange(pool *pgxpool.Pool, start, end time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, location, date
		FROM transactions
		WHERE date >= $1 AND date <= $2
		ORDER BY date`

	rows, err := pool.Query(context.Background(), query, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций за период: %v", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func UpdateTransactionTx(tx pgx.Tx, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, description = $4, location = $5, date = $6
		WHERE id = $7`

	result, err := tx.Exec(context.Background(), query,
		transaction.Type,
		transaction.Amount,
		transaction.Category,
		transaction.Description,
		transaction.Location,
		transaction.Date,
		transaction.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления транзакции: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transaction.ID)
	}
	return nil
}

func DeleteTransactionTx(tx pgx.Tx, transactionID int) error {
	query := `
		DELETE FROM transactions
		WHERE id = $1`

	result, err := tx.Exec(context.Background(), query, transactionID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакции: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transactionID)
	}
	return nil
}

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Location, &t.Date); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
