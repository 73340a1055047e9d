package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oakwood-commons/gridx/internal/schema"
)

// SQLiteStore persists entities and records in a single sqlite file.
// Record values live in a JSON column; the server-side primary sort of
// FetchRows uses json_extract so large entities do not need to be
// re-sorted in Go for the common single-field case.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the
// schema tables exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=rwc&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.ensureTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			definition TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id TEXT NOT NULL UNIQUE,
			entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_entity ON records(entity_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure tables: %w", err)
		}
	}
	return nil
}

// SaveEntity inserts or replaces an entity definition.
func (s *SQLiteStore) SaveEntity(ctx context.Context, entity schema.Entity) error {
	if err := entity.Validate(); err != nil {
		return err
	}
	def, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity %q: %w", entity.Slug, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (id, slug, definition) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET slug = excluded.slug, definition = excluded.definition`,
		entity.ID, entity.Slug, string(def),
	)
	if err != nil {
		return fmt.Errorf("save entity %q: %w", entity.Slug, err)
	}
	return nil
}

// Entity loads an entity definition by id.
func (s *SQLiteStore) Entity(ctx context.Context, entityID string) (schema.Entity, error) {
	var def string
	err := s.db.QueryRowContext(ctx,
		`SELECT definition FROM entities WHERE id = ?`, entityID,
	).Scan(&def)
	if err == sql.ErrNoRows {
		return schema.Entity{}, fmt.Errorf("entity %q: %w", entityID, ErrNotFound)
	}
	if err != nil {
		return schema.Entity{}, fmt.Errorf("load entity %q: %w", entityID, err)
	}
	var entity schema.Entity
	if err := json.Unmarshal([]byte(def), &entity); err != nil {
		return schema.Entity{}, fmt.Errorf("decode entity %q: %w", entityID, err)
	}
	return entity, nil
}

// Entities loads every stored entity definition, ordered by slug.
func (s *SQLiteStore) Entities(ctx context.Context) ([]schema.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT definition FROM entities ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var entities []schema.Entity
	for rows.Next() {
		var def string
		if err := rows.Scan(&def); err != nil {
			return nil, fmt.Errorf("list entities: %w", err)
		}
		var entity schema.Entity
		if err := json.Unmarshal([]byte(def), &entity); err != nil {
			return nil, fmt.Errorf("decode entity: %w", err)
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

func (s *SQLiteStore) FetchColumns(ctx context.Context, entityID string) ([]schema.Attribute, error) {
	entity, err := s.Entity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return entity.SortedAttributes(), nil
}

func (s *SQLiteStore) FetchRows(ctx context.Context, entityID string, q RowQuery) ([]Record, error) {
	query := `SELECT record_id, data FROM records WHERE entity_id = ?`
	args := []any{entityID}

	if q.SortField != "" {
		// Field names cannot be bound as parameters; the slug is validated
		// against the entity schema before interpolation.
		if err := s.validateSortField(ctx, entityID, q.SortField); err != nil {
			return nil, err
		}
		dir := "ASC"
		if q.SortOrder == SortDesc {
			dir = "DESC"
		}
		query += fmt.Sprintf(` ORDER BY json_extract(data, '$."%s"') %s, id ASC`, q.SortField, dir)
	} else {
		query += ` ORDER BY id ASC`
	}
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
		if q.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, q.Offset)
		}
	} else if q.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch rows for %q: %w", entityID, err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var recordID, data string
		if err := rows.Scan(&recordID, &data); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		values := map[string]any{}
		if err := json.Unmarshal([]byte(data), &values); err != nil {
			return nil, fmt.Errorf("decode record %q: %w", recordID, err)
		}
		out = append(out, Record{ID: recordID, Values: values})
	}
	return out, rows.Err()
}

// validateSortField rejects sort fields that are not attribute slugs of
// the entity, preventing SQL injection through the ORDER BY clause.
func (s *SQLiteStore) validateSortField(ctx context.Context, entityID, field string) error {
	entity, err := s.Entity(ctx, entityID)
	if err != nil {
		return err
	}
	if _, ok := entity.Attribute(field); !ok {
		return fmt.Errorf("sort field %q is not an attribute of %q", field, entity.Slug)
	}
	return nil
}

func (s *SQLiteStore) CreateRow(ctx context.Context, entityID string, values map[string]any) (Record, error) {
	if _, err := s.Entity(ctx, entityID); err != nil {
		return Record{}, err
	}
	data, err := json.Marshal(values)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record values: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (record_id, entity_id, data) VALUES (lower(hex(randomblob(8))), ?, ?)`,
		entityID, string(data),
	)
	if err != nil {
		return Record{}, fmt.Errorf("create row: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("create row id: %w", err)
	}
	var recordID string
	if err := s.db.QueryRowContext(ctx,
		`SELECT record_id FROM records WHERE id = ?`, rowID,
	).Scan(&recordID); err != nil {
		return Record{}, fmt.Errorf("read created row: %w", err)
	}
	rec := Record{ID: recordID, Values: map[string]any{}}
	for k, v := range values {
		rec.Values[k] = v
	}
	return rec, nil
}

func (s *SQLiteStore) UpdateRow(ctx context.Context, recordID string, values map[string]any) (Record, error) {
	if err := rejectTempIDs(recordID); err != nil {
		return Record{}, err
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE record_id = ?`, recordID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("record %q: %w", recordID, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load record %q: %w", recordID, err)
	}
	current := map[string]any{}
	if err := json.Unmarshal([]byte(data), &current); err != nil {
		return Record{}, fmt.Errorf("decode record %q: %w", recordID, err)
	}
	for k, v := range values {
		if v == nil {
			delete(current, k)
			continue
		}
		current[k] = v
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record %q: %w", recordID, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE records SET data = ? WHERE record_id = ?`, string(merged), recordID,
	); err != nil {
		return Record{}, fmt.Errorf("update record %q: %w", recordID, err)
	}
	return Record{ID: recordID, Values: current}, nil
}

func (s *SQLiteStore) DeleteRows(ctx context.Context, recordIDs []string) error {
	if len(recordIDs) == 0 {
		return nil
	}
	if err := rejectTempIDs(recordIDs...); err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(recordIDs)), ",")
	args := make([]any, len(recordIDs))
	for i, id := range recordIDs {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE record_id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("records %s: %w", strings.Join(recordIDs, ", "), ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ReorderColumns(ctx context.Context, entityID string, orderedAttributeIDs []string) error {
	entity, err := s.Entity(ctx, entityID)
	if err != nil {
		return err
	}
	position := make(map[string]int, len(orderedAttributeIDs))
	for i, id := range orderedAttributeIDs {
		position[id] = i
	}
	for i := range entity.Attributes {
		if pos, ok := position[entity.Attributes[i].ID]; ok {
			entity.Attributes[i].Order = pos
		}
	}
	return s.SaveEntity(ctx, entity)
}
