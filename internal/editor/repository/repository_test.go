package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modulmate/internal/editor/models"
	"modulmate/internal/editor/store"
)

func sampleProject(n int) store.Project {
	p := store.Project{Modules: []models.Module{}, Props: []models.Prop{}}
	for i := 0; i < n; i++ {
		p.Modules = append(p.Modules, models.Module{ID: "m" + string(rune('a'+i)), Kind: models.KindLiving, Size: models.Size{W: 3, D: 6, H: 2.8}})
	}
	return p
}

func openSQLite(t *testing.T) *Repository {
	t.Helper()
	repo, db, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "db", "projects.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repo
}

func openPostgres(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("MODULMATE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("MODULMATE_TEST_PG_DSN not set")
	}
	repo, db, err := Open(context.Background(), "postgres", "", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM projects`)
		db.Close()
	})
	return repo
}

func exerciseRepository(t *testing.T, repo *Repository) {
	ctx := context.Background()
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	first, err := repo.Save(ctx, "house", sampleProject(2))
	require.NoError(t, err)
	assert.Equal(t, 2, first.Modules)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "house", got.Name)
	decoded, err := store.DecodeProject(got.Payload)
	require.NoError(t, err)
	assert.Len(t, decoded.Modules, 2)

	second, err := repo.Save(ctx, "house", sampleProject(3))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.NotEqual(t, first.UpdatedAt, second.UpdatedAt)

	other, err := repo.Save(ctx, "  garage ", sampleProject(1))
	require.NoError(t, err)
	assert.Equal(t, "garage", other.Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "garage", list[0].Name)
	assert.Equal(t, 3, list[1].Modules)
	assert.Empty(t, list[0].Payload)

	byName, err := repo.GetByName(ctx, "garage")
	require.NoError(t, err)
	assert.Equal(t, other.ID, byName.ID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Save(ctx, "   ", sampleProject(0))
	assert.Error(t, err)
}

func TestRepository_SQLite(t *testing.T) {
	exerciseRepository(t, openSQLite(t))
}

func TestRepository_Postgres(t *testing.T) {
	exerciseRepository(t, openPostgres(t))
}

func TestRepository_InitIsIdempotent(t *testing.T) {
	repo := openSQLite(t)
	require.NoError(t, repo.Init(context.Background()))
}

func TestBind(t *testing.T) {
	pg := New(nil, DialectPostgres)
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.bind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := New(nil, DialectSQLite)
	assert.Equal(t, "x = ?", lite.bind("x = ?"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), "mysql", "", "")
	assert.Error(t, err)
}
