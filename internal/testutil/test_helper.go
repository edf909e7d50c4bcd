// Package testutil sets up the Postgres database used by integration tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/johndosdos/talkroom/internal/database/migrations"
)

func ProjectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "../../")
	return root
}

// DbInit connects to TEST_DB_URL and migrates a clean schema. The test is
// skipped when TEST_DB_URL is not set. The schema is reset again on cleanup.
func DbInit(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if err := godotenv.Load(filepath.Join(ProjectRoot(), ".env")); err != nil {
		t.Logf("failed to load .env file: %+v", err)
	}

	testURL := os.Getenv("TEST_DB_URL")
	if testURL == "" {
		t.Skip("TEST_DB_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err := pgxpool.New(ctx, testURL)
	if err != nil {
		t.Fatalf("could not connect to the postgresql database: %v", err)
	}

	dbForGoose := stdlib.OpenDBFromPool(dbPool)
	DbGooseReset(t, dbForGoose)
	DbGooseUp(t, dbForGoose)

	t.Cleanup(func() {
		DbGooseReset(t, dbForGoose)
		if err := dbForGoose.Close(); err != nil {
			t.Errorf("db.Close() error = %+v", err)
		}
		dbPool.Close()
	})

	return dbPool
}

func DbGooseUp(t *testing.T, dbForGoose *sql.DB) {
	t.Helper()
	if err := migrations.Up(dbForGoose); err != nil {
		t.Fatalf("goose.Up() error = %+v", err)
	}
}

func DbGooseReset(t *testing.T, dbForGoose *sql.DB) {
	t.Helper()
	if err := migrations.Reset(dbForGoose); err != nil {
		t.Fatalf("goose.Reset() error = %+v", err)
	}
}
