// Package store defines the record data service the grid talks to, plus
// the in-memory and sqlite implementations. The grid holds one fetched
// page of records and reconciles optimistic local changes against the
// canonical rows the service returns.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/oakwood-commons/gridx/internal/schema"
)

var (
	// ErrNotFound is returned when an entity or record id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTempID is returned when a mutation names an optimistic temp id
	// that was never confirmed by the service.
	ErrTempID = errors.New("temporary id cannot be persisted")
)

// TempIDPrefix marks optimistic rows that are pending server confirmation.
// Ids with this prefix must never reach UpdateRow or DeleteRows.
const TempIDPrefix = "temp-"

var tempIDCounter atomic.Uint64

// NewTempID returns a fresh optimistic row id.
func NewTempID() string {
	return fmt.Sprintf("%s%d", TempIDPrefix, tempIDCounter.Add(1))
}

// IsTempID reports whether id denotes an unconfirmed optimistic row.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Record is one row of an entity: a stable id plus a map from attribute
// slug to value. The values map is the single canonical representation;
// cell access always goes through Value.
type Record struct {
	ID     string         `yaml:"id"`
	Values map[string]any `yaml:"values"`
}

// Value returns the cell value for an attribute slug, nil when unset.
func (r Record) Value(slug string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[slug]
}

// Clone returns a deep-enough copy for snapshotting: the values map is
// copied, values themselves are treated as immutable.
func (r Record) Clone() Record {
	values := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Record{ID: r.ID, Values: values}
}

// CloneRecords snapshots a page of records.
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// SortOrder is the server-side sort direction of a row query.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// RowQuery selects a page of rows. SortField is the single server-side
// sort; finer multi-column sorting and filtering happen over the fetched
// page in the grid (or in the CLI output path).
type RowQuery struct {
	Limit     int
	Offset    int
	SortField string
	SortOrder SortOrder
}

// Service is the external schema/data collaborator of the grid.
type Service interface {
	FetchColumns(ctx context.Context, entityID string) ([]schema.Attribute, error)
	FetchRows(ctx context.Context, entityID string, q RowQuery) ([]Record, error)
	CreateRow(ctx context.Context, entityID string, values map[string]any) (Record, error)
	UpdateRow(ctx context.Context, recordID string, values map[string]any) (Record, error)
	DeleteRows(ctx context.Context, recordIDs []string) error
	ReorderColumns(ctx context.Context, entityID string, orderedAttributeIDs []string) error
}

// rejectTempIDs guards mutation entry points shared by implementations.
func rejectTempIDs(ids ...string) error {
	for _, id := range ids {
		if IsTempID(id) {
			return fmt.Errorf("%w: %s", ErrTempID, id)
		}
	}
	return nil
}
