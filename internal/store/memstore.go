package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/oakwood-commons/gridx/internal/schema"
)

// MemStore is an in-memory Service used by tests and demo runs. It is
// safe for concurrent use; the grid only calls it from tea.Cmd
// goroutines but the CLI output path may share it.
type MemStore struct {
	mu       sync.RWMutex
	entities map[string]*memEntity
	nextID   int
}

type memEntity struct {
	entity  schema.Entity
	records []Record
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entities: make(map[string]*memEntity)}
}

// AddEntity registers an entity schema and its initial records. Records
// without an id get one assigned.
func (s *MemStore) AddEntity(entity schema.Entity, records []Record) error {
	if err := entity.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			s.nextID++
			r.ID = fmt.Sprintf("rec-%d", s.nextID)
		}
		stored = append(stored, r.Clone())
	}
	s.entities[entity.ID] = &memEntity{entity: entity, records: stored}
	return nil
}

// Entity returns the stored schema for an entity id.
func (s *MemStore) Entity(entityID string) (schema.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.entities[entityID]
	if !ok {
		return schema.Entity{}, fmt.Errorf("entity %q: %w", entityID, ErrNotFound)
	}
	return ent.entity, nil
}

// EntityIDs lists registered entity ids in stable order.
func (s *MemStore) EntityIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *MemStore) FetchColumns(_ context.Context, entityID string) ([]schema.Attribute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", entityID, ErrNotFound)
	}
	return ent.entity.SortedAttributes(), nil
}

func (s *MemStore) FetchRows(_ context.Context, entityID string, q RowQuery) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", entityID, ErrNotFound)
	}

	rows := CloneRecords(ent.records)
	if q.SortField != "" {
		desc := q.SortOrder == SortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			av := rows[i].Value(q.SortField)
			bv := rows[j].Value(q.SortField)
			// Unset cells sort last regardless of direction.
			if (av == nil) != (bv == nil) {
				return bv == nil
			}
			cmp := compareValues(av, bv)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			return []Record{}, nil
		}
		rows = rows[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func (s *MemStore) CreateRow(_ context.Context, entityID string, values map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[entityID]
	if !ok {
		return Record{}, fmt.Errorf("entity %q: %w", entityID, ErrNotFound)
	}
	s.nextID++
	rec := Record{ID: fmt.Sprintf("rec-%d", s.nextID), Values: map[string]any{}}
	for k, v := range values {
		rec.Values[k] = v
	}
	ent.records = append(ent.records, rec)
	return rec.Clone(), nil
}

func (s *MemStore) UpdateRow(_ context.Context, recordID string, values map[string]any) (Record, error) {
	if err := rejectTempIDs(recordID); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ent := range s.entities {
		for i := range ent.records {
			if ent.records[i].ID != recordID {
				continue
			}
			if ent.records[i].Values == nil {
				ent.records[i].Values = map[string]any{}
			}
			for k, v := range values {
				if v == nil {
					delete(ent.records[i].Values, k)
					continue
				}
				ent.records[i].Values[k] = v
			}
			return ent.records[i].Clone(), nil
		}
	}
	return Record{}, fmt.Errorf("record %q: %w", recordID, ErrNotFound)
}

func (s *MemStore) DeleteRows(_ context.Context, recordIDs []string) error {
	if err := rejectTempIDs(recordIDs...); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doomed := make(map[string]bool, len(recordIDs))
	for _, id := range recordIDs {
		doomed[id] = true
	}
	found := 0
	for _, ent := range s.entities {
		kept := ent.records[:0]
		for _, r := range ent.records {
			if doomed[r.ID] {
				found++
				continue
			}
			kept = append(kept, r)
		}
		ent.records = kept
	}
	if found == 0 && len(recordIDs) > 0 {
		return fmt.Errorf("records %s: %w", strings.Join(recordIDs, ", "), ErrNotFound)
	}
	return nil
}

func (s *MemStore) ReorderColumns(_ context.Context, entityID string, orderedAttributeIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[entityID]
	if !ok {
		return fmt.Errorf("entity %q: %w", entityID, ErrNotFound)
	}
	position := make(map[string]int, len(orderedAttributeIDs))
	for i, id := range orderedAttributeIDs {
		position[id] = i
	}
	for i := range ent.entity.Attributes {
		if pos, ok := position[ent.entity.Attributes[i].ID]; ok {
			ent.entity.Attributes[i].Order = pos
		}
	}
	return nil
}

// compareValues orders two cell values: numbers numerically, everything
// else as case-insensitive strings. The caller handles mixed-nil pairs;
// the nil branches here only back it up.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	af, aok := toComparableFloat(a)
	bf, bok := toComparableFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(
		strings.ToLower(fmt.Sprintf("%v", a)),
		strings.ToLower(fmt.Sprintf("%v", b)),
	)
}

func toComparableFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
