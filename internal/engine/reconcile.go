package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

var (
	ErrInvalidAmount       = errors.New("сумма транзакции должна быть положительной")
	ErrTransactionNotFound = errors.New("транзакция не найдена")
	ErrAssetNotFound       = errors.New("счёт для транзакции не найден")
)

// NewTransaction — входные данные для создания транзакции.
type NewTransaction struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Date        time.Time       `json:"date"`
}

// normalizeType сводит тип к двум значениям: всё, что не доход, — расход.
// Так вела себя исходная версия, менять без миграции данных нельзя.
func normalizeType(t string) string {
	if strings.EqualFold(strings.TrimSpace(t), models.TransactionIncome) {
		return models.TransactionIncome
	}
	return models.TransactionExpense
}

// Create проверяет входные данные и одной транзакцией БД записывает строку,
// сдвигает баланс счёта и накопленные расходы подходящих бюджетов.
// Отсутствующий счёт в мягком режиме не считается ошибкой: эффект
// пропускается, запись сохраняется.
func (e *Engine) Create(ctx context.Context, input NewTransaction) (*models.Transaction, error) {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, транзакция не создана")
		return nil, nil
	}
	if input.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	t := &models.Transaction{
		Type:        normalizeType(input.Type),
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Location:    input.Location,
		Date:        input.Date,
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	err := database.WithReconnect(ctx, e.pool, func() error {
		return e.applyCreate(ctx, t, "")
	})
	if err != nil {
		return nil, err
	}

	e.projectCreate(t)
	return t, nil
}

// applyCreate — атомарная часть Create. Если historyAction непустой,
// в той же транзакции пишется запись истории (нужно восстановлению).
func (e *Engine) applyCreate(ctx context.Context, t *models.Transaction, historyAction string) error {
	dbtx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
	}
	defer dbtx.Rollback(ctx)

	if err := database.InsertTransactionTx(dbtx, t); err != nil {
		return err
	}

	adjusted, err := database.AdjustAssetAmountTx(dbtx, t.Location, t.SignedAmount())
	if err != nil {
		return err
	}
	if !adjusted {
		if e.Strict {
			return fmt.Errorf("%w: %q", ErrAssetNotFound, t.Location)
		}
		log.Printf("счёт %q не найден, баланс не изменён", t.Location)
	}

	if t.Type == models.TransactionExpense {
		if err := database.AdjustBudgetSpentTx(dbtx, t.Category, t.Amount); err != nil {
			return err
		}
	}

	if historyAction != "" {
		snapshot, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("ошибка сериализации снимка транзакции: %v", err)
		}
		record := &models.HistoryRecord{
			TransactionID: t.ID,
			Action:        historyAction,
			Timestamp:     time.Now(),
			Data:          string(snapshot),
		}
		if err := database.InsertHistoryTx(dbtx, record); err != nil {
			return err
		}
	}

	return dbtx.Commit(ctx)
}

func (e *Engine) projectCreate(t *models.Transaction) {
	e.Transactions = append([]models.Transaction{*t}, e.Transactions...)
	if asset := e.findAsset(t.Location); asset != nil {
		asset.Amount = asset.Amount.Add(t.SignedAmount())
	}
	if t.Type == models.TransactionExpense {
		e.projectSpent(t.Category, t.Amount)
	}
}

// projectSpent сдвигает накопленные расходы бюджетов категории в проекции,
// зеркально GREATEST(0, …) в хранилище.
func (e *Engine) projectSpent(category string, delta decimal.Decimal) {
	for i := range e.Budgets {
		if e.Budgets[i].Category != category {
			continue
		}
		spent := e.Budgets[i].Spent.Add(delta)
		if spent.Sign() < 0 {
			spent = decimal.Zero
		}
		e.Budgets[i].Spent = spent
	}
}

// Update сверяет новую версию транзакции с сохранённой и применяет к счетам
// и бюджетам только разницу по трём независимым осям: счёт, сумма, тип.
// Полное удаление с пересозданием привело бы к двойному учёту при изменении
// одного поля.
func (e *Engine) Update(ctx context.Context, updated *models.Transaction) error {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, транзакция не обновлена")
		return nil
	}
	if updated.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	orig, err := e.lookupTransaction(ctx, updated.ID)
	if err != nil {
		return err
	}

	updated.Type = normalizeType(updated.Type)
	if updated.Date.IsZero() {
		updated.Date = orig.Date
	}

	err = database.WithReconnect(ctx, e.pool, func() error {
		return e.applyUpdate(ctx, orig, updated)
	})
	if err != nil {
		return err
	}

	e.projectUpdate(orig, updated)
	return nil
}

func (e *Engine) applyUpdate(ctx context.Context, orig, updated *models.Transaction) error {
	dbtx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
	}
	defer dbtx.Rollback(ctx)

	origSigned := orig.SignedAmount()
	newSigned := updated.SignedAmount()

	if orig.Location != updated.Location {
		// Переезд на другой счёт: полный откат на старом, полный эффект на новом.
		if _, err := database.AdjustAssetAmountTx(dbtx, orig.Location, origSigned.Neg()); err != nil {
			return err
		}
		adjusted, err := database.AdjustAssetAmountTx(dbtx, updated.Location, newSigned)
		if err != nil {
			return err
		}
		if !adjusted {
			if e.Strict {
				return fmt.Errorf("%w: %q", ErrAssetNotFound, updated.Location)
			}
			log.Printf("счёт %q не найден, баланс не изменён", updated.Location)
		}
	} else if !origSigned.Equal(newSigned) {
		// Тот же счёт: достаточно разницы.
		if _, err := database.AdjustAssetAmountTx(dbtx, orig.Location, newSigned.Sub(origSigned)); err != nil {
			return err
		}
	}

	origExpense := orig.Type == models.TransactionExpense
	newExpense := updated.Type == models.TransactionExpense

	if orig.Category != updated.Category {
		if origExpense {
			if err := database.AdjustBudgetSpentTx(dbtx, orig.Category, orig.Amount.Neg()); err != nil {
				return err
			}
		}
		if newExpense {
			if err := database.AdjustBudgetSpentTx(dbtx, updated.Category, updated.Amount); err != nil {
				return err
			}
		}
	} else {
		switch {
		case origExpense && newExpense:
			delta := updated.Amount.Sub(orig.Amount)
			if !delta.IsZero() {
				if err := database.AdjustBudgetSpentTx(dbtx, orig.Category, delta); err != nil {
					return err
				}
			}
		case origExpense && !newExpense:
			if err := database.AdjustBudgetSpentTx(dbtx, orig.Category, orig.Amount.Neg()); err != nil {
				return err
			}
		case !origExpense && newExpense:
			if err := database.AdjustBudgetSpentTx(dbtx, updated.Category, updated.Amount); err != nil {
				return err
			}
		}
	}

	if err := database.UpdateTransactionTx(dbtx, updated); err != nil {
		return err
	}

	return dbtx.Commit(ctx)
}

func (e *Engine) projectUpdate(orig, updated *models.Transaction) {
	origSigned := orig.SignedAmount()
	newSigned := updated.SignedAmount()

	if orig.Location != updated.Location {
		if asset := e.findAsset(orig.Location); asset != nil {
			asset.Amount = asset.Amount.Sub(origSigned)
		}
		if asset := e.findAsset(updated.Location); asset != nil {
			asset.Amount = asset.Amount.Add(newSigned)
		}
	} else if asset := e.findAsset(orig.Location); asset != nil {
		asset.Amount = asset.Amount.Add(newSigned.Sub(origSigned))
	}

	origExpense := orig.Type == models.TransactionExpense
	newExpense := updated.Type == models.TransactionExpense

	if orig.Category != updated.Category {
		if origExpense {
			e.projectSpent(orig.Category, orig.Amount.Neg())
		}
		if newExpense {
			e.projectSpent(updated.Category, updated.Amount)
		}
	} else {
		switch {
		case origExpense && newExpense:
			e.projectSpent(orig.Category, updated.Amount.Sub(orig.Amount))
		case origExpense && !newExpense:
			e.projectSpent(orig.Category, orig.Amount.Neg())
		case !origExpense && newExpense:
			e.projectSpent(updated.Category, updated.Amount)
		}
	}

	if stored := e.findTransaction(updated.ID); stored != nil {
		*stored = *updated
	}
}

// lookupTransaction читает сохранённую версию транзакции перед изменением.
// Потеря соединения даёт одну повторную попытку и наружу уходит как сбой,
// отсутствие строки сохраняет pgx.ErrNoRows в цепочке ошибки.
func (e *Engine) lookupTransaction(ctx context.Context, id int) (*models.Transaction, error) {
	var orig *models.Transaction
	err := database.WithReconnect(ctx, e.pool, func() error {
		var err error
		orig, err = database.GetTransactionByID(e.pool, id)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: ID %d", ErrTransactionNotFound, id)
		}
		return nil, err
	}
	return orig, nil
}

// Delete откатывает эффект транзакции на счёт и бюджеты, пишет запись
// истории со снимком и удаляет строку — всё одной транзакцией БД.
// Отсутствующая транзакция — не ошибка, возвращается false; сбой
// хранилища при чтении — ошибка, а не "строки нет".
// После фиксации удалённая транзакция попадает в буфер отмены.
func (e *Engine) Delete(ctx context.Context, id int) (bool, error) {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, транзакция не удалена")
		return false, nil
	}

	orig, err := e.lookupTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return false, nil
		}
		return false, err
	}

	err = database.WithReconnect(ctx, e.pool, func() error {
		return e.applyDelete(ctx, orig)
	})
	if err != nil {
		return false, err
	}

	e.projectDelete(orig)
	e.pushUndo(*orig)
	return true, nil
}

func (e *Engine) applyDelete(ctx context.Context, orig *models.Transaction) error {
	dbtx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
	}
	defer dbtx.Rollback(ctx)

	if _, err := database.AdjustAssetAmountTx(dbtx, orig.Location, orig.SignedAmount().Neg()); err != nil {
		return err
	}

	if orig.Type == models.TransactionExpense {
		if err := database.AdjustBudgetSpentTx(dbtx, orig.Category, orig.Amount.Neg()); err != nil {
			return err
		}
	}

	snapshot, err := json.Marshal(orig)
	if err != nil {
		return fmt.Errorf("ошибка сериализации снимка транзакции: %v", err)
	}
	record := &models.HistoryRecord{
		TransactionID: orig.ID,
		Action:        models.HistoryActionDelete,
		Timestamp:     time.Now(),
		Data:          string(snapshot),
	}
	if err := database.InsertHistoryTx(dbtx, record); err != nil {
		return err
	}

	if err := database.DeleteTransactionTx(dbtx, orig.ID); err != nil {
		return err
	}

	return dbtx.Commit(ctx)
}

func (e *Engine) projectDelete(orig *models.Transaction) {
	e.removeTransaction(orig.ID)
	if asset := e.findAsset(orig.Location); asset != nil {
		asset.Amount = asset.Amount.Sub(orig.SignedAmount())
	}
	if orig.Type == models.TransactionExpense {
		e.projectSpent(orig.Category, orig.Amount.Neg())
	}
}

// Restore заново проводит транзакцию по снимку: строка получает новый ID,
// эффекты применяются как при создании, в историю в той же транзакции БД
// пишется запись restore. Совпадающая запись буфера отмены снимается.
func (e *Engine) Restore(ctx context.Context, snapshot models.Transaction) (*models.Transaction, error) {
	if e.pool == nil {
		log.Printf("хранилище не инициализировано, транзакция не восстановлена")
		return nil, nil
	}
	if snapshot.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	oldID := snapshot.ID
	t := &models.Transaction{
		Type:        normalizeType(snapshot.Type),
		Amount:      snapshot.Amount,
		Category:    snapshot.Category,
		Description: snapshot.Description,
		Location:    snapshot.Location,
		Date:        snapshot.Date,
	}

	err := database.WithReconnect(ctx, e.pool, func() error {
		return e.applyCreate(ctx, t, models.HistoryActionRestore)
	})
	if err != nil {
		return nil, err
	}

	e.projectCreate(t)
	e.removeUndo(oldID)
	return t, nil
}
