package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// Слой агрегатов считает всё по проекциям в памяти, без обращений к БД.

// PeriodStart возвращает начало текущего периода для заданного "сейчас":
// неделя начинается с последнего воскресенья 00:00 местного времени,
// месяц — с первого числа, год — с 1 января.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		sunday := now.AddDate(0, 0, -int(now.Weekday()))
		return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, now.Location())
	case models.PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// TransactionsInPeriod отбирает активные транзакции текущего периода.
func (e *Engine) TransactionsInPeriod(period string) []models.Transaction {
	start := PeriodStart(period, time.Now())
	var result []models.Transaction
	for _, t := range e.Transactions {
		if !t.Date.Before(start) {
			result = append(result, t)
		}
	}
	return result
}

// TotalAssets — сумма балансов всех счетов.
func (e *Engine) TotalAssets() decimal.Decimal {
	total := decimal.Zero
	for _, a := range e.Assets {
		total = total.Add(a.Amount)
	}
	return total
}

// TotalBudget — сумма лимитов бюджетов с заданным периодом.
func (e *Engine) TotalBudget(period string) decimal.Decimal {
	total := decimal.Zero
	for _, b := range e.Budgets {
		if b.Period == period {
			total = total.Add(b.Amount)
		}
	}
	return total
}

// BudgetRemaining — остаток бюджета, пересчитанный по журналу транзакций,
// а не по накопителю spent. Пересчёт с нуля устойчив к ошибкам
// инкрементальных правок и считается здесь авторитетным значением.
func (e *Engine) BudgetRemaining(b *models.Budget) decimal.Decimal {
	start := PeriodStart(b.Period, time.Now())
	spent := decimal.Zero
	for _, t := range e.Transactions {
		if t.Type == models.TransactionExpense && t.Category == b.Category && !t.Date.Before(start) {
			spent = spent.Add(t.Amount)
		}
	}
	return b.Amount.Sub(spent)
}

// TotalRemaining — суммарный остаток по всем бюджетам периода.
func (e *Engine) TotalRemaining(period string) decimal.Decimal {
	total := decimal.Zero
	for i := range e.Budgets {
		if e.Budgets[i].Period == period {
			total = total.Add(e.BudgetRemaining(&e.Budgets[i]))
		}
	}
	return total
}
