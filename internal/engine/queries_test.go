package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/internal/engine"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

func TestPeriodStart(t *testing.T) {
	// Среда 15 января 2025, 13:45 местного времени
	now := time.Date(2025, time.January, 15, 13, 45, 0, 0, time.Local)

	weekly := engine.PeriodStart(models.PeriodWeekly, now)
	wantWeekly := time.Date(2025, time.January, 12, 0, 0, 0, 0, time.Local) // воскресенье
	if !weekly.Equal(wantWeekly) {
		t.Errorf("начало недели не совпадает: получили %v, хотели %v", weekly, wantWeekly)
	}

	monthly := engine.PeriodStart(models.PeriodMonthly, now)
	wantMonthly := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	if !monthly.Equal(wantMonthly) {
		t.Errorf("начало месяца не совпадает: получили %v, хотели %v", monthly, wantMonthly)
	}

	yearly := engine.PeriodStart(models.PeriodYearly, now)
	wantYearly := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	if !yearly.Equal(wantYearly) {
		t.Errorf("начало года не совпадает: получили %v, хотели %v", yearly, wantYearly)
	}
}

func TestPeriodStartOnSunday(t *testing.T) {
	// Воскресенье 00:30 — начало недели это же воскресенье 00:00
	now := time.Date(2025, time.March, 2, 0, 30, 0, 0, time.Local)
	weekly := engine.PeriodStart(models.PeriodWeekly, now)
	want := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.Local)
	if !weekly.Equal(want) {
		t.Errorf("начало недели в воскресенье не совпадает: получили %v, хотели %v", weekly, want)
	}
}

func TestTotalAssets(t *testing.T) {
	eng := engine.New(nil)
	eng.Assets = []models.Asset{
		{Name: "Кошелёк", Amount: decimal.NewFromInt(100)},
		{Name: "Карта", Amount: decimal.NewFromInt(250)},
		{Name: "Вклад", Amount: decimal.NewFromFloat(49.50)},
	}

	total := eng.TotalAssets()
	if !total.Equal(decimal.NewFromFloat(399.50)) {
		t.Errorf("сумма счетов не совпадает: получили %s, хотели 399.5", total)
	}
}

func TestTransactionsInPeriod(t *testing.T) {
	now := time.Now()
	eng := engine.New(nil)
	eng.Transactions = []models.Transaction{
		{ID: 1, Type: models.TransactionExpense, Amount: decimal.NewFromInt(10), Date: now},
		{ID: 2, Type: models.TransactionExpense, Amount: decimal.NewFromInt(20), Date: now.AddDate(-1, -1, 0)},
	}

	inPeriod := eng.TransactionsInPeriod(models.PeriodYearly)
	if len(inPeriod) != 1 || inPeriod[0].ID != 1 {
		t.Errorf("в периоде ожидалась одна транзакция с ID 1, получили %+v", inPeriod)
	}
}

func TestBudgetRemainingComputedFromLog(t *testing.T) {
	now := time.Now()
	eng := engine.New(nil)
	eng.Transactions = []models.Transaction{
		{ID: 1, Type: models.TransactionExpense, Amount: decimal.NewFromInt(40), Category: "Продукты", Date: now},
		{ID: 2, Type: models.TransactionIncome, Amount: decimal.NewFromInt(500), Category: "Продукты", Date: now},
		{ID: 3, Type: models.TransactionExpense, Amount: decimal.NewFromInt(30), Category: "Транспорт", Date: now},
		{ID: 4, Type: models.TransactionExpense, Amount: decimal.NewFromInt(99), Category: "Продукты", Date: now.AddDate(-2, 0, 0)},
	}

	budget := &models.Budget{
		Category: "Продукты",
		Amount:   decimal.NewFromInt(200),
		Period:   models.PeriodYearly,
		// Накопитель намеренно расходится с журналом: остаток считается по журналу
		Spent: decimal.NewFromInt(999),
	}

	remaining := eng.BudgetRemaining(budget)
	if !remaining.Equal(decimal.NewFromInt(160)) {
		t.Errorf("остаток бюджета не совпадает: получили %s, хотели 160", remaining)
	}
}

func TestTotalBudgetAndRemaining(t *testing.T) {
	now := time.Now()
	eng := engine.New(nil)
	eng.Budgets = []models.Budget{
		{ID: 1, Category: "Продукты", Amount: decimal.NewFromInt(200), Period: models.PeriodMonthly},
		{ID: 2, Category: "Транспорт", Amount: decimal.NewFromInt(100), Period: models.PeriodMonthly},
		{ID: 3, Category: "Отпуск", Amount: decimal.NewFromInt(1000), Period: models.PeriodYearly},
	}
	eng.Transactions = []models.Transaction{
		{ID: 1, Type: models.TransactionExpense, Amount: decimal.NewFromInt(50), Category: "Продукты", Date: now},
	}

	if total := eng.TotalBudget(models.PeriodMonthly); !total.Equal(decimal.NewFromInt(300)) {
		t.Errorf("сумма бюджетов не совпадает: получили %s, хотели 300", total)
	}
	if remaining := eng.TotalRemaining(models.PeriodMonthly); !remaining.Equal(decimal.NewFromInt(250)) {
		t.Errorf("суммарный остаток не совпадает: получили %s, хотели 250", remaining)
	}
}
