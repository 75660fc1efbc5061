package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"modulmate/internal/editor/models"
	"modulmate/internal/editor/store"
)

// ============================================================
// Project Repository
// ============================================================

var ErrNotFound = errors.New("project not found")

// timeLayout фиксирует ширину дробной части, чтобы строки сортировались как время.
const timeLayout = "2006-01-02T15:04:05.000000Z"

//go:embed migrations
var migrations embed.FS

// Dialect: SQL-диалект базы.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type Repository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func New(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{db: db, dialect: dialect, now: time.Now}
}

// Init применяет встроенные миграции диалекта по порядку имен файлов.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Save сохраняет проект под именем name. Существующий снимок с тем же именем
// перезаписывается, его id и created_at сохраняются.
func (r *Repository) Save(ctx context.Context, name string, p store.Project) (*models.ProjectRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name required")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := r.now().UTC().Format(timeLayout)
	rec := &models.ProjectRecord{
		Name:      name,
		Modules:   len(p.Modules),
		Props:     len(p.Props),
		UpdatedAt: now,
		Payload:   payload,
	}

	row := tx.QueryRowContext(ctx, r.bind(`SELECT id, created_at FROM projects WHERE name = ?`), name)
	switch err := row.Scan(&rec.ID, &rec.CreatedAt); {
	case errors.Is(err, sql.ErrNoRows):
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
		_, err = tx.ExecContext(ctx, r.bind(`
            INSERT INTO projects (id, name, payload, modules, props, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?, ?)
        `), rec.ID, rec.Name, string(payload), rec.Modules, rec.Props, rec.CreatedAt, rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert project: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("select project: %w", err)
	default:
		_, err = tx.ExecContext(ctx, r.bind(`
            UPDATE projects SET payload = ?, modules = ?, props = ?, updated_at = ?
            WHERE id = ?
        `), string(payload), rec.Modules, rec.Props, rec.UpdatedAt, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	log.Printf("[REPO] saved project %q (%s): %d modules, %d props", rec.Name, rec.ID, rec.Modules, rec.Props)
	return rec, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.ProjectRecord, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*models.ProjectRecord, error) {
	return r.get(ctx, `WHERE name = ?`, name)
}

func (r *Repository) get(ctx context.Context, where string, arg string) (*models.ProjectRecord, error) {
	row := r.db.QueryRowContext(ctx, r.bind(`
        SELECT id, name, payload, modules, props, created_at, updated_at
        FROM projects
        `+where), arg)

	var rec models.ProjectRecord
	var payload string
	if err := row.Scan(&rec.ID, &rec.Name, &payload, &rec.Modules, &rec.Props, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Payload = json.RawMessage(payload)
	return &rec, nil
}

// List возвращает проекты без payload, свежие первыми.
func (r *Repository) List(ctx context.Context) ([]models.ProjectRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, modules, props, created_at, updated_at
        FROM projects
        ORDER BY updated_at DESC, name
    `)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.ProjectRecord{}
	for rows.Next() {
		var rec models.ProjectRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Modules, &rec.Props, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.bind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Migrations & Placeholders
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	dir := "migrations/" + string(r.dialect)
	entries, err := migrations.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations for %s: %w", r.dialect, err)
	}
	for _, e := range entries {
		data, err := migrations.ReadFile(dir + "/" + e.Name())
		if err != nil {
			return fmt.Errorf("read migration: %w", err)
		}
		for _, stmt := range strings.Split(string(data), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := r.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", e.Name(), err)
			}
		}
	}
	return nil
}

// bind переписывает "?" в "$n" для postgres.
func (r *Repository) bind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
