package engine

import (
	"context"
	"log"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// Export собирает полный снимок данных из проекций.
func (e *Engine) Export(prefs models.Preferences) *models.ExportData {
	data := &models.ExportData{
		Assets:       make([]models.Asset, len(e.Assets)),
		Transactions: make([]models.Transaction, len(e.Transactions)),
		Budgets:      make([]models.Budget, len(e.Budgets)),
		Preferences:  prefs,
		ExportDate:   time.Now(),
	}
	copy(data.Assets, e.Assets)
	copy(data.Transactions, e.Transactions)
	copy(data.Budgets, e.Budgets)
	return data
}

// Import замещает все текущие данные содержимым выгрузки: полная очистка,
// затем массовая вставка в обход сверки балансов — выгруженные счета и
// бюджеты уже содержат итоговые значения. После вставки проекции
// перечитываются из хранилища.
func (e *Engine) Import(ctx context.Context, data *models.ExportData) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, импорт пропущен")
		return nil
	}

	err := database.WithReconnect(ctx, e.pool, func() error {
		if err := database.ClearAll(e.pool); err != nil {
			return err
		}
		return database.BulkImport(e.pool, data)
	})
	if err != nil {
		return err
	}

	e.undo = nil
	return e.ReloadAll(ctx)
}
