package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// ErrConnectionLost — типизированная ошибка потери соединения с БД.
// Классификация по типу и коду ошибки, без разбора текста.
var ErrConnectionLost = errors.New("соединение с базой данных потеряно")

func ConnectDB() (*pgxpool.Pool, error) {
	// Загрузить переменные из .env
	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("Error loading .env file")
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"), 5432, os.Getenv("DB_NAME"))

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, err
	}

	return pool, nil
}

// IsConnectionError определяет, вызвана ли ошибка разрывом соединения.
// Коды класса 08 (connection exception) и 57P01-57P03 (завершение сервера)
// считаются потерей соединения, как и любая сетевая ошибка.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConnectionLost) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
		switch pgErr.Code {
		case "57P01", "57P02", "57P03":
			return true
		}
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// WithReconnect выполняет операцию и при потере соединения делает одну
// повторную попытку после проверки пула. Для движка это прозрачно:
// наружу уходит либо результат операции, либо ErrConnectionLost.
func WithReconnect(ctx context.Context, pool *pgxpool.Pool, op func() error) error {
	err := op()
	if err == nil || !IsConnectionError(err) {
		return err
	}
	log.Printf("потеря соединения с БД, повторная попытка: %v", err)
	if pingErr := pool.Ping(ctx); pingErr != nil {
		return fmt.Errorf("%w: %v", ErrConnectionLost, pingErr)
	}
	if err = op(); err != nil {
		if IsConnectionError(err) {
			return fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
		return err
	}
	return nil
}
