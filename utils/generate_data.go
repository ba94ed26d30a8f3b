package utils

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/internal/engine"
	"github.com/valeriaulyamaeva/finance-tracker/models"
)

var demoCategories = []string{"Продукты", "Транспорт", "Развлечения", "Здоровье", "Зарплата", "Кафе"}

// GenerateDemoData наполняет пустую базу тестовыми счетами, бюджетами и
// транзакциями. Транзакции проводятся через движок, чтобы балансы и
// расходы бюджетов сошлись.
func GenerateDemoData(pool *pgxpool.Pool) {
	GenerateDemoAssets(pool, 3)
	GenerateDemoBudgets(pool, 4)
	GenerateDemoTransactions(pool, 50)
}

func GenerateDemoAssets(pool *pgxpool.Pool, numAssets int) {
	for i := 0; i < numAssets; i++ {
		asset := &models.Asset{
			Name:     gofakeit.NounAbstract() + " " + gofakeit.DigitN(3),
			Amount:   decimal.NewFromFloat(gofakeit.Price(1000, 100000)),
			Currency: "RUB",
		}
		if err := database.CreateAsset(pool, asset); err != nil {
			log.Fatalf("ошибка при добавлении счёта: %v", err)
		}
	}
}

func GenerateDemoBudgets(pool *pgxpool.Pool, numBudgets int) {
	periods := []string{models.PeriodWeekly, models.PeriodMonthly, models.PeriodYearly}
	for i := 0; i < numBudgets; i++ {
		budget := &models.Budget{
			Category: demoCategories[rand.Intn(len(demoCategories))],
			Amount:   decimal.NewFromFloat(gofakeit.Price(5000, 50000)),
			Period:   periods[rand.Intn(len(periods))],
		}
		if err := database.CreateBudget(pool, budget); err != nil {
			log.Fatalf("ошибка при добавлении бюджета: %v", err)
		}
	}
}

func GenerateDemoTransactions(pool *pgxpool.Pool, numTransactions int) {
	eng := engine.New(pool)
	if err := eng.ReloadAll(context.Background()); err != nil {
		log.Fatalf("ошибка загрузки данных: %v", err)
	}
	if len(eng.Assets) == 0 {
		log.Fatalf("нет счетов, сначала сгенерируйте счета")
	}

	for i := 0; i < numTransactions; i++ {
		input := engine.NewTransaction{
			Type:        randomTransactionType(),
			Amount:      decimal.NewFromFloat(gofakeit.Price(50, 5000)),
			Category:    demoCategories[rand.Intn(len(demoCategories))],
			Description: gofakeit.Sentence(4),
			Location:    eng.Assets[rand.Intn(len(eng.Assets))].Name,
			Date:        gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
		}
		if _, err := eng.Create(context.Background(), input); err != nil {
			log.Fatalf("ошибка при добавлении транзакции: %v", err)
		}
	}
}

func randomTransactionType() string {
	if rand.Intn(4) == 0 {
		return models.TransactionIncome
	}
	return models.TransactionExpense
}
