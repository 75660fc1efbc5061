package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenPostgres открывает postgres через pgx и проверяет соединение.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Open открывает базу по драйверу (sqlite|postgres) и применяет миграции.
func Open(ctx context.Context, driver, dbPath, dsn string) (*Repository, *sql.DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)
	switch Dialect(driver) {
	case "", DialectSQLite:
		dialect = DialectSQLite
		db, err = OpenSQLite(dbPath)
	case DialectPostgres:
		dialect = DialectPostgres
		db, err = OpenPostgres(ctx, dsn)
	default:
		return nil, nil, fmt.Errorf("unknown db driver %q", driver)
	}
	if err != nil {
		return nil, nil, err
	}

	repo := New(db, dialect)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init db: %w", err)
	}
	return repo, db, nil
}
