package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// ClearAll стирает все пользовательские данные одной транзакцией.
// История операций не затрагивается: она append-only и хранит следы
// в том числе удалённых данных.
func ClearAll(pool *pgxpool.Pool) error {
	tx, err := pool.Begin(context.Background())
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(context.Background())

	tables := []string{"transactions", "assets", "budgets", "archived_transactions"}
	for _, table := range tables {
		if _, err := tx.Exec(context.Background(), "DELETE FROM "+table); err != nil {
			return fmt.Errorf("ошибка очистки таблицы %s: %v", table, err)
		}
	}

	return tx.Commit(context.Background())
}

// BulkImport вставляет данные выгрузки одной транзакцией, минуя сверку
// балансов: выгруженные счета и бюджеты уже содержат итоговые значения,
// повторное применение эффектов удвоило бы их.
func BulkImport(pool *pgxpool.Pool, data *models.ExportData) error {
	tx, err := pool.Begin(context.Background())
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(context.Background())

	for i := range data.Assets {
		a := &data.Assets[i]
		err := tx.QueryRow(context.Background(),
			`INSERT INTO assets (name, amount, currency, image) VALUES ($1, $2, $3, $4) RETURNING id`,
			a.Name, a.Amount, a.Currency, a.Image).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("ошибка импорта счёта %q: %v", a.Name, err)
		}
	}

	for i := range data.Transactions {
		t := &data.Transactions[i]
		err := tx.QueryRow(context.Background(),
			`INSERT INTO transactions (type, amount, category, description, location, date) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			t.Type, t.Amount, t.Category, t.Description, t.Location, t.Date).Scan(&t.ID)
		if err != nil {
			return fmt.Errorf("ошибка импорта транзакции: %v", err)
		}
	}

	for i := range data.Budgets {
		b := &data.Budgets[i]
		err := tx.QueryRow(context.Background(),
			`INSERT INTO budgets (category, amount, period, spent) VALUES ($1, $2, $3, $4) RETURNING id`,
			b.Category, b.Amount, b.Period, b.Spent).Scan(&b.ID)
		if err != nil {
			return fmt.Errorf("ошибка импорта бюджета %q: %v", b.Category, err)
		}
	}

	return tx.Commit(context.Background())
}
