package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema создаёт таблицы, если их ещё нет.
func EnsureSchema(pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS assets (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'RUB',
			image TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			type TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id SERIAL PRIMARY KEY,
			category TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			period TEXT NOT NULL,
			spent NUMERIC(18,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS archived_transactions (
			id SERIAL PRIMARY KEY,
			original_id INTEGER NOT NULL,
			type TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			archived_date TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS archive_settings (
			id INTEGER PRIMARY KEY,
			auto_archive BOOLEAN NOT NULL DEFAULT FALSE,
			archive_after_months INTEGER NOT NULL DEFAULT 12,
			keep_recent_months INTEGER NOT NULL DEFAULT 12
		)`,
		`CREATE TABLE IF NOT EXISTS transaction_history (
			id SERIAL PRIMARY KEY,
			transaction_id INTEGER NOT NULL,
			action TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			data TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(context.Background(), stmt); err != nil {
			return fmt.Errorf("ошибка создания схемы: %v", err)
		}
	}
	return nil
}
