package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// Архивирование только перемещает строки между таблицами. Эффект транзакции
// на счета и бюджеты был применён при создании и при переносе в архив не
// откатывается, поэтому и восстановление из архива его не проигрывает заново.

// AutoArchive переносит активные транзакции старше thresholdMonths месяцев
// в архив одной транзакцией БД. Возвращает количество перенесённых.
func (e *Engine) AutoArchive(ctx context.Context, thresholdMonths int) (int, error) {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, архивирование пропущено")
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, -thresholdMonths, 0)
	candidates, err := database.GetTransactionsOlderThan(e.pool, cutoff)
	if err != nil {
		return 0, err
	}
	return e.moveToArchive(ctx, candidates)
}

// ArchiveRange переносит в архив активные транзакции в заданном диапазоне
// дат включительно.
func (e *Engine) ArchiveRange(ctx context.Context, start, end time.Time) (int, error) {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, архивирование пропущено")
		return 0, nil
	}

	candidates, err := database.GetTransactionsInRange(e.pool, start, end)
	if err != nil {
		return 0, err
	}
	return e.moveToArchive(ctx, candidates)
}

func (e *Engine) moveToArchive(ctx context.Context, candidates []models.Transaction) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	now := time.Now()
	archived := make([]models.ArchivedTransaction, 0, len(candidates))

	err := database.WithReconnect(ctx, e.pool, func() error {
		dbtx, err := e.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
		}
		defer dbtx.Rollback(ctx)

		archived = archived[:0]
		for _, t := range candidates {
			a := models.ArchivedTransaction{
				OriginalID:   t.ID,
				Type:         t.Type,
				Amount:       t.Amount,
				Category:     t.Category,
				Description:  t.Description,
				Location:     t.Location,
				Date:         t.Date,
				ArchivedDate: now,
			}
			if err := database.InsertArchivedTransactionTx(dbtx, &a); err != nil {
				return err
			}
			if err := database.DeleteTransactionTx(dbtx, t.ID); err != nil {
				return err
			}
			archived = append(archived, a)
		}

		return dbtx.Commit(ctx)
	})
	if err != nil {
		return 0, err
	}

	for _, a := range archived {
		e.removeTransaction(a.OriginalID)
	}
	e.Archived = append(archived, e.Archived...)
	return len(archived), nil
}

// RestoreArchived возвращает архивную запись в активный набор с новым ID
// и удаляет её из архива, одной транзакцией БД. Балансы не трогаются:
// исторический эффект записи никогда не откатывался. В проекцию запись
// попадает только если её дата в пределах "свежего окна" KeepRecentMonths,
// иначе она есть в хранилище, но не в памяти — как после перечитывания.
func (e *Engine) RestoreArchived(ctx context.Context, archivedID int) (*models.Transaction, error) {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, восстановление пропущено")
		return nil, nil
	}

	archived, err := database.GetArchivedTransactionByID(e.pool, archivedID)
	if err != nil {
		return nil, err
	}

	t := archived.ToTransaction()
	err = database.WithReconnect(ctx, e.pool, func() error {
		dbtx, err := e.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
		}
		defer dbtx.Rollback(ctx)

		if err := database.InsertTransactionTx(dbtx, t); err != nil {
			return err
		}
		if err := database.DeleteArchivedTransactionTx(dbtx, archivedID); err != nil {
			return err
		}

		return dbtx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	e.removeArchived(archivedID)
	since := time.Now().AddDate(0, -e.Settings.KeepRecentMonths, 0)
	if !t.Date.Before(since) {
		e.Transactions = append([]models.Transaction{*t}, e.Transactions...)
	}
	return t, nil
}

// PermanentDelete окончательно удаляет запись из архива. Необратимо.
func (e *Engine) PermanentDelete(ctx context.Context, archivedID int) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, удаление пропущено")
		return nil
	}

	if err := database.PermanentDeleteArchived(e.pool, archivedID); err != nil {
		return err
	}
	e.removeArchived(archivedID)
	return nil
}

func (e *Engine) Statistics(ctx context.Context) (*models.ArchiveStatistics, error) {
	if e.pool == nil {
		return nil, nil
	}
	return database.GetArchiveStatistics(e.pool)
}

// SearchAll ищет подстроку по категории, описанию и счёту среди активных
// транзакций и, по запросу, в архиве.
func (e *Engine) SearchAll(ctx context.Context, term string, includeArchived bool) ([]models.SearchResult, error) {
	if e.pool == nil {
		return nil, nil
	}
	return database.SearchTransactions(e.pool, term, includeArchived)
}
