package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/internal/engine"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// Сценарий: транзакция старше порога уходит в архив, её исторический эффект
// на баланс счёта при этом не откатывается.
func TestAutoArchivePreservesBalances(t *testing.T) {
	pool, eng := setupEngine(t)
	ctx := context.Background()

	wallet := &models.Asset{Name: uniqueName("Кошелёк"), Amount: decimal.NewFromInt(100), Currency: "RUB"}
	if err := database.CreateAsset(pool, wallet); err != nil {
		t.Fatalf("ошибка создания счёта: %v", err)
	}
	if err := eng.ReloadAssets(ctx); err != nil {
		t.Fatalf("ошибка перечитывания счетов: %v", err)
	}

	created, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(30),
		Category: uniqueName("Продукты"),
		Location: wallet.Name,
		Date:     time.Now().AddDate(0, -13, 0),
	})
	if err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if got := assetAmount(t, eng, wallet.Name); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("баланс после расхода не совпадает: получили %s, хотели 70", got)
	}

	moved, err := eng.AutoArchive(ctx, 12)
	if err != nil {
		t.Fatalf("ошибка автоархивирования: %v", err)
	}
	if moved < 1 {
		t.Fatalf("транзакция 13-месячной давности не перенесена в архив")
	}

	for _, tr := range eng.Transactions {
		if tr.ID == created.ID {
			t.Errorf("транзакция осталась в активном наборе после архивирования")
		}
	}

	var archived *models.ArchivedTransaction
	for i := range eng.Archived {
		if eng.Archived[i].OriginalID == created.ID {
			archived = &eng.Archived[i]
		}
	}
	if archived == nil {
		t.Fatalf("транзакция не найдена в архиве")
	}

	// Исторический эффект сохранён
	if got := assetAmount(t, eng, wallet.Name); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("архивирование изменило баланс: получили %s, хотели 70", got)
	}

	// Восстановление из архива — перенос данных без повторной сверки
	restored, err := eng.RestoreArchived(ctx, archived.ID)
	if err != nil {
		t.Fatalf("ошибка восстановления из архива: %v", err)
	}
	if restored.ID == created.ID {
		t.Errorf("восстановленная запись не должна переиспользовать старый ID")
	}
	if got := assetAmount(t, eng, wallet.Name); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("восстановление из архива изменило баланс: получили %s, хотели 70", got)
	}
	for _, a := range eng.Archived {
		if a.ID == archived.ID {
			t.Errorf("запись осталась в архиве после восстановления")
		}
	}
}

func TestArchiveRangeMovesOnlyRange(t *testing.T) {
	_, eng := setupEngine(t)
	ctx := context.Background()

	category := uniqueName("Диапазон")
	oldDate := time.Now().AddDate(-3, 0, 0)

	created, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(15),
		Category: category,
		Location: uniqueName("нет-счёта"),
		Date:     oldDate,
	})
	if err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	recent, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(20),
		Category: category,
		Location: uniqueName("нет-счёта"),
	})
	if err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	moved, err := eng.ArchiveRange(ctx, oldDate.AddDate(0, 0, -1), oldDate.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ошибка архивирования диапазона: %v", err)
	}
	if moved != 1 {
		t.Errorf("в диапазоне ожидалась одна транзакция, перенесено %d", moved)
	}

	foundRecent := false
	for _, tr := range eng.Transactions {
		if tr.ID == created.ID {
			t.Errorf("транзакция из диапазона осталась в активном наборе")
		}
		if tr.ID == recent.ID {
			foundRecent = true
		}
	}
	if !foundRecent {
		t.Errorf("транзакция вне диапазона пропала из активного набора")
	}
}

func TestPermanentDelete(t *testing.T) {
	pool, eng := setupEngine(t)
	ctx := context.Background()

	oldDate := time.Now().AddDate(-5, 0, 0)
	created, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(7),
		Category: uniqueName("Навсегда"),
		Location: uniqueName("нет-счёта"),
		Date:     oldDate,
	})
	if err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if _, err := eng.ArchiveRange(ctx, oldDate.AddDate(0, 0, -1), oldDate.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("ошибка архивирования: %v", err)
	}

	var archivedID int
	for _, a := range eng.Archived {
		if a.OriginalID == created.ID {
			archivedID = a.ID
		}
	}
	if archivedID == 0 {
		t.Fatalf("запись не найдена в архиве")
	}

	if err := eng.PermanentDelete(ctx, archivedID); err != nil {
		t.Fatalf("ошибка окончательного удаления: %v", err)
	}
	if _, err := database.GetArchivedTransactionByID(pool, archivedID); err == nil {
		t.Errorf("архивная запись существует после окончательного удаления")
	}
}

func TestSearchAllTagsSource(t *testing.T) {
	_, eng := setupEngine(t)
	ctx := context.Background()

	needle := uniqueName("иголка")
	oldDate := time.Now().AddDate(-4, 0, 0)

	if _, err := eng.Create(ctx, engine.NewTransaction{
		Type:        models.TransactionExpense,
		Amount:      decimal.NewFromInt(5),
		Category:    "Разное",
		Description: "активная " + needle,
		Location:    uniqueName("нет-счёта"),
	}); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if _, err := eng.Create(ctx, engine.NewTransaction{
		Type:        models.TransactionExpense,
		Amount:      decimal.NewFromInt(6),
		Category:    "Разное",
		Description: "архивная " + needle,
		Location:    uniqueName("нет-счёта"),
		Date:        oldDate,
	}); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if _, err := eng.ArchiveRange(ctx, oldDate.AddDate(0, 0, -1), oldDate.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("ошибка архивирования: %v", err)
	}

	results, err := eng.SearchAll(ctx, needle, true)
	if err != nil {
		t.Fatalf("ошибка поиска: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("ожидались два результата, получили %d", len(results))
	}

	sources := map[string]int{}
	for _, r := range results {
		sources[r.Source]++
	}
	if sources[models.SearchSourceActive] != 1 || sources[models.SearchSourceArchived] != 1 {
		t.Errorf("источники результатов не совпадают: %+v", sources)
	}

	// Без архива находится только активная запись
	activeOnly, err := eng.SearchAll(ctx, needle, false)
	if err != nil {
		t.Fatalf("ошибка поиска: %v", err)
	}
	if len(activeOnly) != 1 || activeOnly[0].Source != models.SearchSourceActive {
		t.Errorf("поиск без архива должен вернуть одну активную запись, получили %+v", activeOnly)
	}
}

// Восстановленная запись старше "свежего окна" остаётся в хранилище,
// но в проекцию активного набора не попадает — так же, как при
// перечитывании окна из БД.
func TestRestoreArchivedOutsideRecentWindow(t *testing.T) {
	pool, eng := setupEngine(t)
	ctx := context.Background()

	oldDate := time.Now().AddDate(-2, 0, 0)
	created, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(9),
		Category: uniqueName("Старое"),
		Location: uniqueName("нет-счёта"),
		Date:     oldDate,
	})
	if err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if _, err := eng.ArchiveRange(ctx, oldDate.AddDate(0, 0, -1), oldDate.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("ошибка архивирования: %v", err)
	}

	var archivedID int
	for _, a := range eng.Archived {
		if a.OriginalID == created.ID {
			archivedID = a.ID
		}
	}
	if archivedID == 0 {
		t.Fatalf("запись не найдена в архиве")
	}

	restored, err := eng.RestoreArchived(ctx, archivedID)
	if err != nil {
		t.Fatalf("ошибка восстановления из архива: %v", err)
	}

	for _, tr := range eng.Transactions {
		if tr.ID == restored.ID {
			t.Errorf("запись двухлетней давности не должна попадать в окно активного набора")
		}
	}
	if _, err := database.GetTransactionByID(pool, restored.ID); err != nil {
		t.Errorf("восстановленная запись не найдена в хранилище: %v", err)
	}
}

func TestArchiveStatistics(t *testing.T) {
	_, eng := setupEngine(t)
	ctx := context.Background()

	oldDate := time.Now().AddDate(-6, 0, 0)
	if _, err := eng.Create(ctx, engine.NewTransaction{
		Type:     models.TransactionIncome,
		Amount:   decimal.NewFromInt(11),
		Category: uniqueName("Статистика"),
		Location: uniqueName("нет-счёта"),
		Date:     oldDate,
	}); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if _, err := eng.ArchiveRange(ctx, oldDate.AddDate(0, 0, -1), oldDate.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("ошибка архивирования: %v", err)
	}

	stats, err := eng.Statistics(ctx)
	if err != nil {
		t.Fatalf("ошибка получения статистики: %v", err)
	}
	if stats.Count < 1 {
		t.Errorf("в статистике архива должна быть хотя бы одна запись")
	}
	if stats.OldestDate == nil || stats.NewestDate == nil {
		t.Errorf("границы дат архива не заполнены")
	}
}
