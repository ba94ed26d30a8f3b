package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

func TestGetAllTransactions(t *testing.T) {
	if err := godotenv.Load(); err != nil {
		t.Fatalf("ошибка загрузки .env: %v", err)
	}
	pool, err := database.ConnectDB()
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(pool); err != nil {
		t.Fatalf("ошибка подготовки схемы: %v", err)
	}

	// Транзакция старше любого разумного "свежего окна"
	transaction := &models.Transaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromFloat(42.00),
		Category: fmt.Sprintf("Полный журнал %d", time.Now().UnixNano()),
		Location: "нет-счёта",
		Date:     time.Now().AddDate(-10, 0, 0),
	}

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("ошибка открытия транзакции БД: %v", err)
	}
	if err := database.InsertTransactionTx(tx, transaction); err != nil {
		t.Fatalf("ошибка вставки транзакции: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("ошибка фиксации: %v", err)
	}

	all, err := database.GetAllTransactions(pool)
	if err != nil {
		t.Fatalf("ошибка получения всех транзакций: %v", err)
	}
	found := false
	for _, tr := range all {
		if tr.ID == transaction.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("полный журнал не содержит вставленную транзакцию")
	}

	// Свежее окно десятилетнюю запись не видит
	recent, err := database.GetTransactionsSince(pool, time.Now().AddDate(0, -12, 0))
	if err != nil {
		t.Fatalf("ошибка получения свежего окна: %v", err)
	}
	for _, tr := range recent {
		if tr.ID == transaction.ID {
			t.Errorf("транзакция десятилетней давности попала в свежее окно")
		}
	}
}

func TestGetTransactionByIDNotFound(t *testing.T) {
	if err := godotenv.Load(); err != nil {
		t.Fatalf("ошибка загрузки .env: %v", err)
	}
	pool, err := database.ConnectDB()
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(pool); err != nil {
		t.Fatalf("ошибка подготовки схемы: %v", err)
	}

	_, err = database.GetTransactionByID(pool, -1)
	if err == nil {
		t.Fatalf("получение несуществующей транзакции должно вернуть ошибку")
	}
	// Отсутствие строки различимо в цепочке ошибки
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("ошибка отсутствующей строки должна содержать pgx.ErrNoRows: %v", err)
	}
}
