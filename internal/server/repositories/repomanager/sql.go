// Package repomanager wires the SQL repositories and goose migrations for
// the supported drivers: pgx (PostgreSQL) and sqlite (modernc, pure Go).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todopoc/internal/dbx"
	"github.com/dmitrijs2005/todopoc/internal/server/config"
	"github.com/dmitrijs2005/todopoc/internal/server/migrations"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/pendingcontacts"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/tasks"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends the SQL repositories; the dialect only affects
// which migration set is applied.
type SQLRepositoryManager struct {
	gooseDialect  string
	migrationsDir string
}

func (m *SQLRepositoryManager) Contacts(db dbx.DBTX) contacts.Repository {
	return contacts.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) PendingContacts(db dbx.DBTX) pendingcontacts.Repository {
	return pendingcontacts.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.gooseDialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.migrationsDir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// NewRepositoryManager returns the manager for a config.Driver* value.
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case config.DriverPostgres:
		return &SQLRepositoryManager{gooseDialect: "postgres", migrationsDir: "postgres"}, nil
	case config.DriverSQLite:
		return &SQLRepositoryManager{gooseDialect: "sqlite3", migrationsDir: "sqlite"}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open opens a pool for driver. SQLite gets foreign keys switched on and a
// single connection, which serialises writers instead of failing with SQLITE_BUSY.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == config.DriverSQLite && !strings.Contains(dsn, "foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}
