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

func CreateBudget(pool *pgxpool.Pool, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (category, amount, period, spent)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		budget.Category,
		budget.Amount,
		budget.Period,
		budget.Spent).Scan(&budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении бюджета: %v", err)
	}
	return nil
}

func GetBudgetByID(pool *pgxpool.Pool, budgetID int) (*models.Budget, error) {
	query := `
		SELECT id, category, amount, period, spent
		FROM budgets
		WHERE id = $1`

	budget := &models.Budget{}
	err := pool.QueryRow(context.Background(), query, budgetID).Scan(
		&budget.ID,
		&budget.Category,
		&budget.Amount,
		&budget.Period,
		&budget.Spent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("бюджет с ID %d не найден", budgetID)
		}
		return nil, fmt.Errorf("ошибка при получении бюджета: %v", err)
	}

	return budget, nil
}

func GetAllBudgets(pool *pgxpool.Pool) ([]models.Budget, error) {
	query := `
		SELECT id, category, amount, period, spent
		FROM budgets
		ORDER BY id`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка бюджетов: %v", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(&budget.ID, &budget.Category, &budget.Amount, &budget.Period, &budget.Spent); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

func UpdateBudget(pool *pgxpool.Pool, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET category = $1, amount = $2, period = $3, spent = $4
		WHERE id = $5`

	_, err := pool.Exec(context.Background(), query,
		budget.Category,
		budget.Amount,
		budget.Period,
		budget.Spent,
		budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления бюджета: %v", err)
	}
	return nil
}

func DeleteBudget(pool *pgxpool.Pool, budgetID int) error {
	query := `
		DELETE FROM budgets
		WHERE id = $1`

	result, err := pool.Exec(context.Background(), query, budgetID)
	if err != nil {
		return fmt.Errorf("ошибка удаления бюджета: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d не найден", budgetID)
	}
	return nil
}

// AdjustBudgetSpentTx сдвигает накопленные расходы всех бюджетов категории
// на delta внутри открытой транзакции. GREATEST не даёт spent уйти ниже нуля.
func AdjustBudgetSpentTx(tx pgx.Tx, category string, delta decimal.Decimal) error {
	query := `
		UPDATE budgets
		SET spent = GREATEST(0, spent + $1)
		WHERE category = $2`

	_, err := tx.Exec(context.Background(), query, delta, category)
	if err != nil {
		return fmt.Errorf("ошибка изменения расходов бюджета: %v", err)
	}
	return nil
}
