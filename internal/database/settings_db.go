package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// GetArchiveSettings читает единственную строку настроек архива.
// Если её ещё нет, возвращаются значения по умолчанию.
func GetArchiveSettings(pool *pgxpool.Pool) (*models.ArchiveSettings, error) {
	query := `
		SELECT id, auto_archive, archive_after_months, keep_recent_months
		FROM archive_settings
		WHERE id = 1`

	settings := &models.ArchiveSettings{}
	err := pool.QueryRow(context.Background(), query).Scan(
		&settings.ID,
		&settings.AutoArchive,
		&settings.ArchiveAfterMonths,
		&settings.KeepRecentMonths,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			defaults := models.DefaultArchiveSettings()
			return &defaults, nil
		}
		return nil, fmt.Errorf("ошибка при получении настроек архива: %v", err)
	}

	return settings, nil
}

func SaveArchiveSettings(pool *pgxpool.Pool, settings *models.ArchiveSettings) error {
	query := `
		INSERT INTO archive_settings (id, auto_archive, archive_after_months, keep_recent_months)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET auto_archive = $1, archive_after_months = $2, keep_recent_months = $3`

	_, err := pool.Exec(context.Background(), query,
		settings.AutoArchive,
		settings.ArchiveAfterMonths,
		settings.KeepRecentMonths)
	if err != nil {
		return fmt.Errorf("ошибка сохранения настроек архива: %v", err)
	}

	settings.ID = 1
	return nil
}
