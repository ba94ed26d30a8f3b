package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/internal/engine"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// "Свежее окно": при перечитывании в проекцию попадают только транзакции
// не старше KeepRecentMonths, хотя в хранилище остаются все.
func TestReloadTransactionsRecentWindow(t *testing.T) {
	_, eng := setupEngine(t)
	ctx := context.Background()

	eng.Settings.AutoArchive = false
	eng.Settings.KeepRecentMonths = 12

	category := uniqueName("Окно")
	old, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(9),
		Category: category,
		Location: uniqueName("нет-счёта"),
		Date:     time.Now().AddDate(0, -18, 0),
	})
	if err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	recent, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(9),
		Category: category,
		Location: uniqueName("нет-счёта"),
	})
	if err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	if err := eng.ReloadTransactions(ctx); err != nil {
		t.Fatalf("ошибка перечитывания транзакций: %v", err)
	}

	foundRecent := false
	for _, tr := range eng.Transactions {
		if tr.ID == old.ID {
			t.Errorf("транзакция старше окна попала в проекцию")
		}
		if tr.ID == recent.ID {
			foundRecent = true
		}
	}
	if !foundRecent {
		t.Errorf("свежая транзакция не попала в проекцию")
	}
}

func TestNilPoolOperationsAreNoops(t *testing.T) {
	eng := engine.New(nil)
	ctx := context.Background()

	created, err := eng.Create(ctx, engine.NewTransaction{
		Type:   models.TransactionExpense,
		Amount: decimal.NewFromInt(10),
	})
	if err != nil || created != nil {
		t.Errorf("без хранилища Create должен быть no-op: %v, %+v", err, created)
	}

	deleted, err := eng.Delete(ctx, 1)
	if err != nil || deleted {
		t.Errorf("без хранилища Delete должен быть no-op: %v, %v", err, deleted)
	}

	moved, err := eng.AutoArchive(ctx, 12)
	if err != nil || moved != 0 {
		t.Errorf("без хранилища AutoArchive должен быть no-op: %v, %d", err, moved)
	}

	if err := eng.ReloadAll(ctx); err != nil {
		t.Errorf("без хранилища ReloadAll должен быть no-op: %v", err)
	}
}
