// Package testdb starts a disposable PostgreSQL container with the Acervo
// schema applied, for integration tests gated by ACERVO_TEST_INTEGRATION.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/acervo/internal/migrations"
	"github.com/JaimeStill/acervo/pkg/database"
)

// EnvIntegration enables integration tests when set to any non-empty value.
const EnvIntegration = "ACERVO_TEST_INTEGRATION"

const image = "docker.io/postgres:17-alpine"

// New starts a PostgreSQL container, applies all migrations, and returns an
// open pool. The test is skipped unless EnvIntegration is set. The container
// and pool are released through t.Cleanup.
func New(t *testing.T) *sql.DB {
	t.Helper()

	if os.Getenv(EnvIntegration) == "" {
		t.Skipf("integration test skipped: %s not set", EnvIntegration)
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("acervo_test"),
		postgres.WithUsername("acervo"),
		postgres.WithPassword("acervo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	if err := migrations.Up(url); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(url, &database.Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: "5m",
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
