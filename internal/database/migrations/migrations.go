// Package migrations holds the goose SQL migrations of the schema.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

func setup() error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	return nil
}

// Up applies every pending migration.
func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}

	return nil
}

// Reset rolls every applied migration back.
func Reset(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}

	if err := goose.Reset(db, "."); err != nil {
		return fmt.Errorf("migrations: reset: %w", err)
	}

	return nil
}
