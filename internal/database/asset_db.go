package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

func CreateAsset(pool *pgxpool.Pool, asset *models.Asset) error {
	query := `
		INSERT INTO assets (name, amount, currency, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		asset.Name,
		asset.Amount,
		asset.Currency,
		asset.Image).Scan(&asset.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении счёта: %v", err)
	}
	return nil
}

func GetAssetByID(pool *pgxpool.Pool, assetID int) (*models.Asset, error) {
	query := `
		SELECT id, name, amount, currency, image
		FROM assets
		WHERE id = $1`

	asset := &models.Asset{}
	err := pool.QueryRow(context.Background(), query, assetID).Scan(
		&asset.ID,
		&asset.Name,
		&asset.Amount,
		&asset.Currency,
		&asset.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("счёт с ID %d не найден", assetID)
		}
		return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
	}

	return asset, nil
}

func GetAssetByName(pool *pgxpool.Pool, name string) (*models.Asset, error) {
	query := `
		SELECT id, name, amount, currency, image
		FROM assets
		WHERE name = $1`

	asset := &models.Asset{}
	err := pool.QueryRow(context.Background(), query, name).Scan(
		&asset.ID,
		&asset.Name,
		&asset.Amount,
		&asset.Currency,
		&asset.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("счёт с именем %q не найден", name)
		}
		return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
	}

	return asset, nil
}

func GetAllAssets(pool *pgxpool.Pool) ([]models.Asset, error) {
	query := `
		SELECT id, name, amount, currency, image
		FROM assets
		ORDER BY id`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка счетов: %v", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var asset models.Asset
		if err := rows.Scan(&asset.ID, &asset.Name, &asset.Amount, &asset.Currency, &asset.Image); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func UpdateAsset(pool *pgxpool.Pool, asset *models.Asset) error {
	query := `
		UPDATE assets
		SET name = $1, amount = $2, currency = $3, image = $4
		WHERE id = $5`

	_, err := pool.Exec(context.Background(), query,
		asset.Name,
		asset.Amount,
		asset.Currency,
		asset.Image,
		asset.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счёта: %v", err)
	}
	return nil
}

func DeleteAsset(pool *pgxpool.Pool, assetID int) error {
	query := `
		DELETE FROM assets
		WHERE id = $1`

	result, err := pool.Exec(context.Background(), query, assetID)
	if err != nil {
		return fmt.Errorf("ошибка удаления счёта: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("счёт с ID %d не найден", assetID)
	}
	return nil
}

// AdjustAssetAmountTx сдвигает баланс счёта на delta внутри открытой транзакции.
// Возвращает false, если счёта с таким именем нет (эффект пропускается,
// политика описана в движке).
func AdjustAssetAmountTx(tx pgx.Tx, name string, delta decimal.Decimal) (bool, error) {
	query := `
		UPDATE assets
		SET amount = amount + $1
		WHERE name = $2`

	result, err := tx.Exec(context.Background(), query, delta, name)
	if err != nil {
		return false, fmt.Errorf("ошибка изменения баланса счёта: %v", err)
	}
	return result.RowsAffected() > 0, nil
}
