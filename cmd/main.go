package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/finance-tracker/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker/internal/engine"
	"github.com/valeriaulyamaeva/finance-tracker/models"
	"github.com/valeriaulyamaeva/finance-tracker/utils"
)

// ScheduleHistoryCleanup раз в день удаляет записи истории старше
// HISTORY_RETENTION_DAYS. При нуле или пустом значении история хранится вечно.
func ScheduleHistoryCleanup(c *cron.Cron, eng *engine.Engine) {
	days, _ := strconv.Atoi(os.Getenv("HISTORY_RETENTION_DAYS"))
	if days <= 0 {
		return
	}
	_, err := c.AddFunc("@daily", func() {
		removed, err := database.PruneHistoryBefore(eng.Pool(), time.Now().AddDate(0, 0, -days))
		if err != nil {
			log.Printf("Ошибка очистки истории: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("Очистка истории: удалено %d записей", removed)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи очистки истории: %v", err)
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(pool); err != nil {
		log.Fatalf("Ошибка подготовки схемы БД: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		utils.GenerateDemoData(pool)
		return
	}

	eng := engine.New(pool)
	eng.Strict = os.Getenv("STRICT_ASSET_LOOKUPS") == "true"
	if err := eng.ReloadAll(context.Background()); err != nil {
		log.Fatalf("Ошибка загрузки данных: %v", err)
	}

	c := cron.New()
	ScheduleHistoryCleanup(c, eng)
	c.Start()

	r := gin.Default()
	r.Use(CORSMiddleware())

	r.POST("/assets", func(c *gin.Context) {
		var asset models.Asset
		if err := c.ShouldBindJSON(&asset); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных счёта"})
			return
		}
		if asset.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Имя счёта обязательно"})
			return
		}
		if err := database.CreateAsset(pool, &asset); err != nil {
			log.Printf("Ошибка при создании счёта: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		if err := eng.ReloadAssets(c.Request.Context()); err != nil {
			log.Printf("Ошибка перечитывания счетов: %v", err)
		}
		c.JSON(http.StatusCreated, asset)
	})

	r.GET("/assets", func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.Assets)
	})

	r.PUT("/assets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор счёта"})
			return
		}
		var asset models.Asset
		if err := c.ShouldBindJSON(&asset); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных счёта"})
			return
		}
		asset.ID = id
		if err := database.UpdateAsset(pool, &asset); err != nil {
			log.Printf("Ошибка обновления счёта: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		if err := eng.ReloadAssets(c.Request.Context()); err != nil {
			log.Printf("Ошибка перечитывания счетов: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Счёт успешно обновлён"})
	})

	r.DELETE("/assets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор счёта"})
			return
		}
		if err := database.DeleteAsset(pool, id); err != nil {
			log.Printf("Ошибка удаления счёта: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		if err := eng.ReloadAssets(c.Request.Context()); err != nil {
			log.Printf("Ошибка перечитывания счетов: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Счёт успешно удалён"})
	})

	r.POST("/transactions", func(c *gin.Context) {
		var input engine.NewTransaction
		if err := c.ShouldBindJSON(&input); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод", "details": err.Error()})
			return
		}
		transaction, err := eng.Create(c.Request.Context(), input)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidAmount) || errors.Is(err, engine.ErrAssetNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Printf("Ошибка при создании транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusCreated, transaction)
	})

	r.GET("/transactions", func(c *gin.Context) {
		if period := c.Query("period"); period != "" {
			c.JSON(http.StatusOK, eng.TransactionsInPeriod(period))
			return
		}
		// По умолчанию отдаётся "свежее окно" из проекции, ?all=true
		// читает весь журнал из хранилища, включая то, что старше окна.
		if c.Query("all") == "true" {
			transactions, err := database.GetAllTransactions(pool)
			if err != nil {
				log.Printf("Ошибка получения транзакций: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
				return
			}
			c.JSON(http.StatusOK, transactions)
			return
		}
		c.JSON(http.StatusOK, eng.Transactions)
	})

	r.PUT("/transactions/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}
		var transaction models.Transaction
		if err := c.ShouldBindJSON(&transaction); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод"})
			return
		}
		transaction.ID = id
		if err := eng.Update(c.Request.Context(), &transaction); err != nil {
			if errors.Is(err, engine.ErrInvalidAmount) || errors.Is(err, engine.ErrTransactionNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Printf("Ошибка обновления транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция успешно обновлена"})
	})

	r.DELETE("/transactions/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}
		deleted, err := eng.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("Ошибка удаления транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция удалена", "undo_available": true})
	})

	r.POST("/transactions/undo", func(c *gin.Context) {
		transaction, err := eng.Undo(c.Request.Context())
		if err != nil {
			if errors.Is(err, engine.ErrUndoEmpty) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			log.Printf("Ошибка отмены удаления: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, transaction)
	})

	r.POST("/budgets", func(c *gin.Context) {
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if budget.Category == "" || budget.Amount.Sign() <= 0 || budget.Period == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}
		if err := database.CreateBudget(pool, &budget); err != nil {
			log.Printf("Ошибка при создании бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		if err := eng.ReloadBudgets(c.Request.Context()); err != nil {
			log.Printf("Ошибка перечитывания бюджетов: %v", err)
		}
		c.JSON(http.StatusCreated, budget)
	})

	r.GET("/budgets", func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.Budgets)
	})

	r.PUT("/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		budget.ID = id
		if err := database.UpdateBudget(pool, &budget); err != nil {
			log.Printf("Ошибка обновления бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		if err := eng.ReloadBudgets(c.Request.Context()); err != nil {
			log.Printf("Ошибка перечитывания бюджетов: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно обновлён"})
	})

	r.DELETE("/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		if err := database.DeleteBudget(pool, id); err != nil {
			log.Printf("Ошибка удаления бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		if err := eng.ReloadBudgets(c.Request.Context()); err != nil {
			log.Printf("Ошибка перечитывания бюджетов: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно удалён"})
	})

	r.GET("/dashboard/total_assets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_assets": eng.TotalAssets()})
	})

	r.GET("/dashboard/budgets", func(c *gin.Context) {
		period := c.DefaultQuery("period", models.PeriodMonthly)
		c.JSON(http.StatusOK, gin.H{
			"total_budget":    eng.TotalBudget(period),
			"total_remaining": eng.TotalRemaining(period),
		})
	})

	r.GET("/budgets/:id/remaining", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		budget, err := database.GetBudgetByID(pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"remaining": eng.BudgetRemaining(budget)})
	})

	r.GET("/archive", func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.Archived)
	})

	r.POST("/archive/auto", func(c *gin.Context) {
		moved, err := eng.AutoArchive(c.Request.Context(), eng.Settings.ArchiveAfterMonths)
		if err != nil {
			log.Printf("Ошибка автоархивирования: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"moved": moved})
	})

	r.POST("/archive/range", func(c *gin.Context) {
		var req struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат диапазона дат"})
			return
		}
		moved, err := eng.ArchiveRange(c.Request.Context(), req.Start, req.End)
		if err != nil {
			log.Printf("Ошибка архивирования диапазона: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"moved": moved})
	})

	r.POST("/archive/:id/restore", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор архивной записи"})
			return
		}
		transaction, err := eng.RestoreArchived(c.Request.Context(), id)
		if err != nil {
			log.Printf("Ошибка восстановления из архива: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, transaction)
	})

	r.DELETE("/archive/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор архивной записи"})
			return
		}
		if err := eng.PermanentDelete(c.Request.Context(), id); err != nil {
			log.Printf("Ошибка окончательного удаления из архива: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Архивная запись окончательно удалена"})
	})

	r.GET("/archive/statistics", func(c *gin.Context) {
		stats, err := eng.Statistics(c.Request.Context())
		if err != nil {
			log.Printf("Ошибка получения статистики архива: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/search", func(c *gin.Context) {
		term := c.Query("term")
		if term == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указана строка поиска"})
			return
		}
		includeArchived := c.Query("include_archived") == "true"
		results, err := eng.SearchAll(c.Request.Context(), term, includeArchived)
		if err != nil {
			log.Printf("Ошибка поиска: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, results)
	})

	r.GET("/settings/archive", func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.Settings)
	})

	r.PUT("/settings/archive", func(c *gin.Context) {
		var settings models.ArchiveSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат настроек"})
			return
		}
		if err := eng.SaveSettings(c.Request.Context(), settings); err != nil {
			log.Printf("Ошибка сохранения настроек архива: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, eng.Settings)
	})

	r.GET("/history", func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный лимит"})
			return
		}
		records, err := database.GetHistory(pool, limit)
		if err != nil {
			log.Printf("Ошибка получения истории: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, records)
	})

	r.GET("/export", func(c *gin.Context) {
		prefs := models.Preferences{
			Currency: c.DefaultQuery("currency", "RUB"),
			DarkMode: c.Query("dark_mode") == "true",
		}
		c.JSON(http.StatusOK, eng.Export(prefs))
	})

	r.POST("/import", func(c *gin.Context) {
		var data models.ExportData
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат файла данных"})
			return
		}
		if err := eng.Import(c.Request.Context(), &data); err != nil {
			log.Printf("Ошибка импорта данных: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция не выполнена, попробуйте ещё раз"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Данные успешно импортированы"})
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
