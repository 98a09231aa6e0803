package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/mmc102/partner-finder/internal/repository"
	"github.com/mmc102/partner-finder/internal/repository/memory"
	"github.com/mmc102/partner-finder/internal/repository/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDSNEnv names the variable holding the DSN of a disposable test database
const PostgresDSNEnv = "PARTNER_FINDER_TEST_DSN"

// NewTestStore creates an empty in-memory store.
func NewTestStore(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	t.Cleanup(store.Close)
	return store
}

// NewPostgresStore connects to the database named by PARTNER_FINDER_TEST_DSN,
// migrates it and truncates every table. The test is skipped when the
// variable is not set.
func NewPostgresStore(t *testing.T) *repository.PostgresStore {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresDSNEnv)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := migrations.MigrateUp(pool); err != nil {
		pool.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}

	const truncate = `TRUNCATE notifications, feed_items, user_interests, climbs, areas,
		user_associations, users RESTART IDENTITY CASCADE`
	if _, err := pool.Exec(ctx, truncate); err != nil {
		pool.Close()
		t.Fatalf("failed to truncate tables: %v", err)
	}

	store := repository.NewPostgresStore(pool)
	t.Cleanup(store.Close)
	return store
}
