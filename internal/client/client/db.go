package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/ashishkaushik/leazzy/internal/client/migrations"
	"github.com/ashishkaushik/leazzy/internal/client/repositories/listings"
	"github.com/ashishkaushik/leazzy/internal/client/repositories/securestore"
)

// Repositories bundles the client's local persistence layers.
type Repositories struct {
	Secure   securestore.Repository
	Listings listings.Repository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite database, applies the embedded
// migrations, and wires the repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Secure:   securestore.NewSQLiteRepository(db),
		Listings: listings.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
