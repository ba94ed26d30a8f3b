package database

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker/models"
	"golang.org/x/net/context"
)

func InsertArchivedTransactionTx(tx pgx.Tx, archived *models.ArchivedTransaction) error {
	query := `
		INSERT INTO archived_transactions (original_id, type, amount, category, description, location, date, archived_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := tx.QueryRow(context.Background(), query,
		archived.OriginalID,
		archived.Type,
		archived.Amount,
		archived.Category,
		archived.Description,
		archived.Location,
		archived.Date,
		archived.ArchivedDate).Scan(&archived.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении архивной транзакции: %v", err)
	}
	return nil
}

func GetArchivedTransactionByID(pool *pgxpool.Pool, archivedID int) (*models.ArchivedTransaction, error) {
	query := `
		SELECT id, original_id, type, amount, category, description, location, date, archived_date
		FROM archived_transactions
		WHERE id = $1`

	archived := &models.ArchivedTransaction{}
	err := pool.QueryRow(context.Background(), query, archivedID).Scan(
		&archived.ID,
		&archived.OriginalID,
		&archived.Type,
		&archived.Amount,
		&archived.Category,
		&archived.Description,
		&archived.Location,
		&archived.Date,
		&archived.ArchivedDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("архивная транзакция с ID %d не найдена", archivedID)
		}
		return nil, fmt.Errorf("ошибка при получении архивной транзакции: %v", err)
	}

	return archived, nil
}

func GetAllArchivedTransactions(pool *pgxpool.Pool) ([]models.ArchivedTransaction, error) {
	query := `
		SELECT id, original_id, type, amount, category, description, location, date, archived_date
		FROM archived_transactions
		ORDER BY date DESC`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении архива: %v", err)
	}
	defer rows.Close()

	var archived []models.ArchivedTransaction
	for rows.Next() {
		var a models.ArchivedTransaction
		if err := rows.Scan(&a.ID, &a.OriginalID, &a.Type, &a.Amount, &a.Category, &a.Description, &a.Location, &a.Date, &a.ArchivedDate); err != nil {
			return nil, err
		}
		archived = append(archived, a)
	}
	return archived, rows.Err()
}

func DeleteArchivedTransactionTx(tx pgx.Tx, archivedID int) error {
	query := `
		DELETE FROM archived_transactions
		WHERE id = $1`

	result, err := tx.Exec(context.Background(), query, archivedID)
	if err != nil {
		return fmt.Errorf("ошибка удаления архивной транзакции: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("архивная транзакция с ID %d не найдена", archivedID)
	}
	return nil
}

func PermanentDeleteArchived(pool *pgxpool.Pool, archivedID int) error {
	query := `
		DELETE FROM archived_transactions
		WHERE id = $1`

	result, err := pool.Exec(context.Background(), query, archivedID)
	if err != nil {
		return fmt.Errorf("ошибка окончательного удаления архивной транзакции: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("архивная транзакция с ID %d не найдена", archivedID)
	}
	return nil
}

func GetArchiveStatistics(pool *pgxpool.Pool) (*models.ArchiveStatistics, error) {
	query := `
		SELECT
			COUNT(*) AS count,
			MIN(date) AS oldest,
			MAX(date) AS newest,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expense
		FROM archived_transactions`

	stats := &models.ArchiveStatistics{}
	err := pool.QueryRow(context.Background(), query).Scan(
		&stats.Count,
		&stats.OldestDate,
		&stats.NewestDate,
		&stats.TotalIncome,
		&stats.TotalExpense,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики архива: %v", err)
	}
	return stats, nil
}

// SearchTransactions ищет подстроку (без учёта регистра) в категории, описании
// и имени счёта среди активных транзакций, а при includeArchived — и в архиве.
// Результаты помечаются источником и идут от новых к старым.
func SearchTransactions(pool *pgxpool.Pool, term string, includeArchived bool) ([]models.SearchResult, error) {
	pattern := "%" + term + "%"

	query := `
		SELECT 'active' AS source, id, type, amount, category, description, location, date
		FROM transactions
		WHERE category ILIKE $1 OR description ILIKE $1 OR location ILIKE $1`
	if includeArchived {
		query += `
		UNION ALL
		SELECT 'archived' AS source, id, type, amount, category, description, location, date
		FROM archived_transactions
		WHERE category ILIKE $1 OR description ILIKE $1 OR location ILIKE $1`
	}
	query += `
		ORDER BY date DESC`

	rows, err := pool.Query(context.Background(), query, pattern)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска транзакций: %v", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		t := &r.Transaction
		if err := rows.Scan(&r.Source, &t.ID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Location, &t.Date); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
