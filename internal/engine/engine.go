package engine

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// Engine хранит проекции данных в памяти и проводит все изменения через
// согласование балансов: каждый счёт равен своему базовому значению плюс
// сумма активных транзакций по нему, расходы бюджетов накапливаются по
// категориям. Все записи одной операции идут единой транзакцией БД,
// проекции обновляются только после фиксации.
//
// Движок рассчитан на один поток управления: вызывающая сторона выполняет
// операции последовательно, внутренних блокировок нет.
type Engine struct {
	pool *pgxpool.Pool

	Assets       []models.Asset
	Transactions []models.Transaction
	Budgets      []models.Budget
	Archived     []models.ArchivedTransaction
	Settings     models.ArchiveSettings

	// Strict: при true транзакция на несуществующий счёт отклоняется,
	// при false (совместимое поведение) эффект тихо пропускается,
	// а сама транзакция записывается.
	Strict bool

	undo []models.Transaction
}

func New(pool *pgxpool.Pool) *Engine {
	return &Engine{
		pool:     pool,
		Settings: models.DefaultArchiveSettings(),
	}
}

// Pool отдаёт дескриптор хранилища внешним задачам вроде очистки истории.
func (e *Engine) Pool() *pgxpool.Pool {
	return e.pool
}

func (e *Engine) ReloadAssets(ctx context.Context) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, загрузка счетов пропущена")
		return nil
	}
	var assets []models.Asset
	err := database.WithReconnect(ctx, e.pool, func() error {
		var err error
		assets, err = database.GetAllAssets(e.pool)
		return err
	})
	if err != nil {
		return err
	}
	e.Assets = assets
	return nil
}

func (e *Engine) ReloadBudgets(ctx context.Context) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, загрузка бюджетов пропущена")
		return nil
	}
	var budgets []models.Budget
	err := database.WithReconnect(ctx, e.pool, func() error {
		var err error
		budgets, err = database.GetAllBudgets(e.pool)
		return err
	})
	if err != nil {
		return err
	}
	e.Budgets = budgets
	return nil
}

func (e *Engine) ReloadArchived(ctx context.Context) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, загрузка архива пропущена")
		return nil
	}
	archived, err := database.GetAllArchivedTransactions(e.pool)
	if err != nil {
		return err
	}
	e.Archived = archived
	return nil
}

func (e *Engine) ReloadSettings(ctx context.Context) error {
	if e.pool == nil {
		return nil
	}
	settings, err := database.GetArchiveSettings(e.pool)
	if err != nil {
		return err
	}
	e.Settings = *settings
	return nil
}

// ReloadTransactions перечитывает активный набор. Сначала, если включено
// автоархивирование, старые транзакции переносятся в архив, затем в память
// загружается только "свежее окно" KeepRecentMonths.
func (e *Engine) ReloadTransactions(ctx context.Context) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, загрузка транзакций пропущена")
		return nil
	}

	if e.Settings.AutoArchive {
		if _, err := e.AutoArchive(ctx, e.Settings.ArchiveAfterMonths); err != nil {
			return err
		}
	}

	since := time.Now().AddDate(0, -e.Settings.KeepRecentMonths, 0)
	var transactions []models.Transaction
	err := database.WithReconnect(ctx, e.pool, func() error {
		var err error
		transactions, err = database.GetTransactionsSince(e.pool, since)
		return err
	})
	if err != nil {
		return err
	}
	e.Transactions = transactions
	return nil
}

func (e *Engine) ReloadAll(ctx context.Context) error {
	if err := e.ReloadSettings(ctx); err != nil {
		return err
	}
	if err := e.ReloadAssets(ctx); err != nil {
		return err
	}
	if err := e.ReloadBudgets(ctx); err != nil {
		return err
	}
	if err := e.ReloadArchived(ctx); err != nil {
		return err
	}
	return e.ReloadTransactions(ctx)
}

func (e *Engine) SaveSettings(ctx context.Context, settings models.ArchiveSettings) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, настройки не сохранены")
		return nil
	}
	if err := database.SaveArchiveSettings(e.pool, &settings); err != nil {
		return err
	}
	e.Settings = settings
	return nil
}

func (e *Engine) findAsset(name string) *models.Asset {
	for i := range e.Assets {
		if e.Assets[i].Name == name {
			return &e.Assets[i]
		}
	}
	return nil
}

func (e *Engine) findTransaction(id int) *models.Transaction {
	for i := range e.Transactions {
		if e.Transactions[i].ID == id {
			return &e.Transactions[i]
		}
	}
	return nil
}

func (e *Engine) removeTransaction(id int) {
	for i := range e.Transactions {
		if e.Transactions[i].ID == id {
			e.Transactions = append(e.Transactions[:i], e.Transactions[i+1:]...)
			return
		}
	}
}

func (e *Engine) removeArchived(id int) {
	for i := range e.Archived {
		if e.Archived[i].ID == id {
			e.Archived = append(e.Archived[:i], e.Archived[i+1:]...)
			return
		}
	}
}
