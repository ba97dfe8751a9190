package database_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/acervo/pkg/database"
	"github.com/JaimeStill/acervo/pkg/lifecycle"
)

func testConfig() database.Config {
	return database.Config{
		Host:            "127.0.0.1",
		Port:            5432,
		Name:            "testdb",
		User:            "testuser",
		Password:        "testpass",
		SSLMode:         "disable",
		MaxOpenConns:    42,
		MaxIdleConns:    7,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "1s",
	}
}

func TestNewSetsPoolParams(t *testing.T) {
	cfg := testConfig()

	sys, err := database.New(&cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := sys.Connection()
	if conn == nil {
		t.Fatal("Connection() returned nil")
	}
	defer conn.Close()

	if stats := conn.Stats(); stats.MaxOpenConnections != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", stats.MaxOpenConnections)
	}
}

func TestOpenInvalidDsn(t *testing.T) {
	cfg := testConfig()
	if _, err := database.Open("host=localhost port=notaport", &cfg); err == nil {
		t.Fatal("expected error for invalid dsn, got nil")
	}
}

func TestStartRecordsPingFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 1

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()

	if lc.Ready() {
		t.Error("coordinator should not be ready when the database is unreachable")
	}
	if lc.Err() == nil {
		t.Error("expected recorded startup failure")
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
