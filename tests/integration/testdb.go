// Package integration runs the storefront against a real PostgreSQL started
// with testcontainers. The tests are skipped with -short.
package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vetcollars/storefront/internal/infrastructure/migration"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated database in its own container
type TestDB struct {
	DB  *gorm.DB
	DSN string
}

// NewTestDB starts PostgreSQL, applies the embedded migrations and returns
// a GORM handle. Everything is torn down when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	migrate(t, dsn)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "Failed to connect with GORM")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &TestDB{DB: db, DSN: dsn}
}

// migrate applies the schema over a dedicated connection; the migrator
// closes it when done.
func migrate(t *testing.T, dsn string) {
	t.Helper()

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	defer func() { _ = m.Close() }()
	require.NoError(t, m.Up(), "Failed to apply migrations")

	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.NotZero(t, version)
}

// Truncate empties the given tables and resets their identities
func (tdb *TestDB) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		require.NoError(t, tdb.DB.Exec("TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE").Error)
	}
}

// Ping checks the underlying connection
func (tdb *TestDB) Ping(ctx context.Context) error {
	sqlDB, err := tdb.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
