package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridx/internal/schema"
)

func memEntitySchema() schema.Entity {
	return schema.Entity{
		ID:           "ent-companies",
		Slug:         "companies",
		SingularName: "Company",
		PluralName:   "Companies",
		Attributes: []schema.Attribute{
			{ID: "a-1", Slug: "name", Name: "Name", Type: schema.TypeShortText, Order: 0},
			{ID: "a-2", Slug: "employees", Name: "Employees", Type: schema.TypeNumber, Order: 1},
		},
	}
}

func newTestMemStore(t *testing.T) *MemStore {
	t.Helper()
	s := NewMemStore()
	require.NoError(t, s.AddEntity(memEntitySchema(), []Record{
		{ID: "r1", Values: map[string]any{"name": "Acme", "employees": float64(120)}},
		{ID: "r2", Values: map[string]any{"name": "Globex", "employees": float64(8)}},
		{Values: map[string]any{"name": "Initech"}},
	}))
	return s
}

func TestMemStoreFetch(t *testing.T) {
	s := newTestMemStore(t)
	ctx := context.Background()

	attrs, err := s.FetchColumns(ctx, "ent-companies")
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, "name", attrs[0].Slug)

	rows, err := s.FetchRows(ctx, "ent-companies", RowQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.NotEmpty(t, rows[2].ID, "records without ids get one assigned")

	_, err = s.FetchRows(ctx, "ent-missing", RowQuery{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreFetchRowsSortAndPage(t *testing.T) {
	s := newTestMemStore(t)
	ctx := context.Background()

	rows, err := s.FetchRows(ctx, "ent-companies", RowQuery{SortField: "employees", SortOrder: SortDesc})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Acme", rows[0].Value("name"))
	assert.Equal(t, "Initech", rows[2].Value("name"), "nil cell sorts last")

	rows, err = s.FetchRows(ctx, "ent-companies", RowQuery{SortField: "name", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Globex", rows[0].Value("name"))

	rows, err = s.FetchRows(ctx, "ent-companies", RowQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemStoreFetchRowsReturnsCopies(t *testing.T) {
	s := newTestMemStore(t)
	ctx := context.Background()

	rows, err := s.FetchRows(ctx, "ent-companies", RowQuery{})
	require.NoError(t, err)
	rows[0].Values["name"] = "mutated"

	again, err := s.FetchRows(ctx, "ent-companies", RowQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Acme", again[0].Value("name"))
}

func TestMemStoreCreateUpdateDelete(t *testing.T) {
	s := newTestMemStore(t)
	ctx := context.Background()

	created, err := s.CreateRow(ctx, "ent-companies", map[string]any{"name": "Umbrella"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, IsTempID(created.ID))

	updated, err := s.UpdateRow(ctx, created.ID, map[string]any{"employees": float64(55)})
	require.NoError(t, err)
	assert.Equal(t, float64(55), updated.Value("employees"))
	assert.Equal(t, "Umbrella", updated.Value("name"), "update merges into existing values")

	// A nil value clears the cell.
	updated, err = s.UpdateRow(ctx, created.ID, map[string]any{"employees": nil})
	require.NoError(t, err)
	assert.Nil(t, updated.Value("employees"))

	require.NoError(t, s.DeleteRows(ctx, []string{created.ID, "r2"}))
	rows, err := s.FetchRows(ctx, "ent-companies", RowQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	err = s.DeleteRows(ctx, []string{"r2"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreRejectsTempIDs(t *testing.T) {
	s := newTestMemStore(t)
	ctx := context.Background()

	tempID := NewTempID()
	_, err := s.UpdateRow(ctx, tempID, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrTempID)

	err = s.DeleteRows(ctx, []string{"r1", tempID})
	assert.ErrorIs(t, err, ErrTempID)

	// The persisted row must survive the rejected batch.
	rows, err := s.FetchRows(ctx, "ent-companies", RowQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestMemStoreReorderColumns(t *testing.T) {
	s := newTestMemStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReorderColumns(ctx, "ent-companies", []string{"a-2", "a-1"}))
	attrs, err := s.FetchColumns(ctx, "ent-companies")
	require.NoError(t, err)
	assert.Equal(t, "employees", attrs[0].Slug)
	assert.Equal(t, "name", attrs[1].Slug)
}

func TestMemStoreAddEntityValidates(t *testing.T) {
	s := NewMemStore()
	bad := memEntitySchema()
	bad.Attributes[0].Type = "hologram"
	assert.Error(t, s.AddEntity(bad, nil))
}

func TestTempIDs(t *testing.T) {
	a := NewTempID()
	b := NewTempID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsTempID(a))
	assert.False(t, IsTempID("rec-1"))
}
