package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/gridx/internal/filter"
	"github.com/oakwood-commons/gridx/internal/grid"
	"github.com/oakwood-commons/gridx/internal/schema"
	"github.com/oakwood-commons/gridx/internal/store"
)

var outputFormats = []string{"json", "yaml", "csv", "toml"}

func validOutputFormat(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// parseWhereFlag parses one --where flag: "column:operator[:value[:end]]".
func parseWhereFlag(entity schema.Entity, raw string) (filter.Condition, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) < 2 {
		return filter.Condition{}, fmt.Errorf("invalid --where %q (want column:operator[:value])", raw)
	}
	attr, ok := entity.Attribute(parts[0])
	if !ok {
		return filter.Condition{}, fmt.Errorf("--where references unknown column %q", parts[0])
	}
	op := filter.Operator(parts[1])
	if !filter.ValidOperator(attr.Type, op) {
		return filter.Condition{}, fmt.Errorf("operator %q is not valid for %s column %q", parts[1], attr.Type, parts[0])
	}
	cond := filter.Condition{ColumnID: attr.Slug, Operator: op}
	if filter.NeedsValue(op) {
		if len(parts) < 3 {
			return filter.Condition{}, fmt.Errorf("--where %q: operator %q needs a value", raw, op)
		}
		cond.Value = parts[2]
		if filter.NeedsEndValue(op) {
			if len(parts) < 4 {
				return filter.Condition{}, fmt.Errorf("--where %q: operator %q needs an end value", raw, op)
			}
			cond.EndValue = parts[3]
		}
	}
	return cond, nil
}

// parseSortFlag parses one --sort flag: "column[:desc]".
func parseSortFlag(entity schema.Entity, raw string) (grid.SortEntry, error) {
	parts := strings.SplitN(raw, ":", 2)
	attr, ok := entity.Attribute(parts[0])
	if !ok {
		return grid.SortEntry{}, fmt.Errorf("--sort references unknown column %q", parts[0])
	}
	entry := grid.SortEntry{ID: attr.Slug}
	if len(parts) == 2 {
		switch parts[1] {
		case "desc":
			entry.Desc = true
		case "asc":
		default:
			return grid.SortEntry{}, fmt.Errorf("--sort %q: direction must be asc or desc", raw)
		}
	}
	return entry, nil
}

// queryRecords applies the non-interactive pipeline: declarative
// conditions AND the optional expression filter, then the multi-column
// sort, then limit/offset.
func queryRecords(entity schema.Entity, records []store.Record, conds []filter.Condition, expr *filter.ExprFilter, sorts []grid.SortEntry, limit, offset int) []store.Record {
	types := entity.TypesBySlug()

	kept := make([]store.Record, 0, len(records))
	for _, rec := range records {
		if !filter.RowVisible(conds, types, rec.Values) {
			continue
		}
		if expr != nil && !expr.Match(rec.Values) {
			continue
		}
		kept = append(kept, rec)
	}

	order := grid.SortRecords(kept, sorts, types)
	out := make([]store.Record, 0, len(kept))
	for _, idx := range order {
		out = append(out, kept[idx])
	}

	if offset > 0 {
		if offset >= len(out) {
			return nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// recordDocs flattens records for the structured encoders: id plus the
// attribute values in schema order.
func recordDocs(entity schema.Entity, records []store.Record) []map[string]any {
	attrs := entity.SortedAttributes()
	docs := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		doc := map[string]any{"id": rec.ID}
		for _, attr := range attrs {
			if v := rec.Value(attr.Slug); v != nil {
				doc[attr.Slug] = v
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// writeRecords renders records in the requested output format.
func writeRecords(w io.Writer, format string, entity schema.Entity, records []store.Record) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recordDocs(entity, records))

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recordDocs(entity, records)); err != nil {
			return err
		}
		return enc.Close()

	case "toml":
		// TOML has no top-level array; wrap under the entity slug.
		return toml.NewEncoder(w).Encode(map[string]any{
			entity.Slug: recordDocs(entity, records),
		})

	case "csv":
		attrs := entity.SortedAttributes()
		cw := csv.NewWriter(w)
		header := make([]string, 0, len(attrs)+1)
		header = append(header, "id")
		for _, attr := range attrs {
			header = append(header, attr.Slug)
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, rec := range records {
			row := make([]string, 0, len(header))
			row = append(row, rec.ID)
			for _, attr := range attrs {
				row = append(row, grid.DisplayValue(rec.Value(attr.Slug)))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		return fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(outputFormats, ", "))
	}
}
