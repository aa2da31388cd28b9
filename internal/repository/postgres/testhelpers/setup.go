package testhelpers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// truncatedTables очищаются между тестами
var truncatedTables = "poi_uploads, poi_dataset_events"

// TestDB - подключение к тестовой базе
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB подключается к базе из TEST_DB_*; без доступной PostgreSQL тест пропускается
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := testDSN()

	var (
		db  *sqlx.DB
		err error
	)
	delay := 200 * time.Millisecond
	for attempt := 1; attempt <= 3; attempt++ {
		if db, err = connect(dsn); err == nil {
			break
		}
		t.Logf("PostgreSQL not ready (attempt %d): %v", attempt, err)
		time.Sleep(delay)
		delay *= 2
	}
	if err != nil {
		t.Skipf("PostgreSQL not available for integration tests: %v", err)
	}

	return &TestDB{DB: db, Logger: zap.NewNop()}
}

func connect(dsn string) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlx.ConnectContext(ctx, "pgx", dsn)
}

func testDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(env("TEST_DB_USER", "postgres"), env("TEST_DB_PASSWORD", "postgres")),
		Host:   fmt.Sprintf("%s:%s", env("TEST_DB_HOST", "localhost"), env("TEST_DB_PORT", "5433")),
		Path:   env("TEST_DB_NAME", "poi_test"),
	}
	u.RawQuery = url.Values{"sslmode": {env("TEST_DB_SSLMODE", "disable")}}.Encode()
	return u.String()
}

func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.Close()
	}
}

// Cleanup очищает таблицы сервиса
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE "+truncatedTables)
	return err
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
