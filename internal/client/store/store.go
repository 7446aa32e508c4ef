// Package store opens the client's local SQLite database, applies the
// embedded goose migrations and hands out repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/resumeforge/resumeforge/internal/client/migrations"
	"github.com/resumeforge/resumeforge/internal/client/repositories/drafts"
)

type Repositories struct {
	Drafts drafts.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Drafts: drafts.NewSQLiteRepository(db),
	}, nil
}
