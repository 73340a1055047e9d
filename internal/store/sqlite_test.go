package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridx/internal/schema"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "gridx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteEntityRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	entity := memEntitySchema()
	require.NoError(t, s.SaveEntity(ctx, entity))

	loaded, err := s.Entity(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Slug, loaded.Slug)
	require.Len(t, loaded.Attributes, 2)
	assert.Equal(t, schema.TypeNumber, loaded.Attributes[1].Type)

	entities, err := s.Entities(ctx)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "companies", entities[0].Slug)

	_, err = s.Entity(ctx, "ent-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRowLifecycle(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	entity := memEntitySchema()
	require.NoError(t, s.SaveEntity(ctx, entity))

	acme, err := s.CreateRow(ctx, entity.ID, map[string]any{"name": "Acme", "employees": float64(120)})
	require.NoError(t, err)
	require.NotEmpty(t, acme.ID)
	globex, err := s.CreateRow(ctx, entity.ID, map[string]any{"name": "Globex", "employees": float64(8)})
	require.NoError(t, err)

	rows, err := s.FetchRows(ctx, entity.ID, RowQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].Value("name"), "insertion order without a sort field")

	rows, err = s.FetchRows(ctx, entity.ID, RowQuery{SortField: "employees", SortOrder: SortDesc})
	require.NoError(t, err)
	assert.Equal(t, "Acme", rows[0].Value("name"))
	assert.Equal(t, "Globex", rows[1].Value("name"))

	updated, err := s.UpdateRow(ctx, globex.ID, map[string]any{"employees": float64(900), "name": nil})
	require.NoError(t, err)
	assert.Equal(t, float64(900), updated.Value("employees"))
	assert.Nil(t, updated.Value("name"), "nil clears the cell")

	require.NoError(t, s.DeleteRows(ctx, []string{acme.ID}))
	rows, err = s.FetchRows(ctx, entity.ID, RowQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, globex.ID, rows[0].ID)

	err = s.DeleteRows(ctx, []string{acme.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRejectsUnknownSortField(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEntity(ctx, memEntitySchema()))

	_, err := s.FetchRows(ctx, "ent-companies", RowQuery{SortField: `name"; DROP TABLE records; --`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an attribute")
}

func TestSQLiteRejectsTempIDs(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEntity(ctx, memEntitySchema()))

	_, err := s.UpdateRow(ctx, NewTempID(), map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrTempID)
	assert.ErrorIs(t, s.DeleteRows(ctx, []string{NewTempID()}), ErrTempID)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridx.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	entity := memEntitySchema()
	require.NoError(t, s.SaveEntity(ctx, entity))
	_, err = s.CreateRow(ctx, entity.ID, map[string]any{"name": "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	rows, err := s.FetchRows(ctx, entity.ID, RowQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].Value("name"))
}
