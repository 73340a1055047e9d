package grid

import (
	"sort"
	"strings"

	"github.com/oakwood-commons/gridx/internal/schema"
	"github.com/oakwood-commons/gridx/internal/store"
)

// SortEntry is one column of a multi-column sort. The first entry is the
// primary key; later entries break ties in listed order.
type SortEntry struct {
	ID   string
	Desc bool
}

// SortRecords returns the indexes of records ordered by the sort list.
// The sort is stable: rows tied on every entry keep their relative
// (insertion) order. The input slice is not mutated.
func SortRecords(records []store.Record, entries []SortEntry, types map[string]schema.Type) []int {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	return sortIndexes(records, order, entries, types)
}

// sortIndexes stably orders an existing index subset in place and
// returns it. Used when filtering has already narrowed the row set.
func sortIndexes(records []store.Record, order []int, entries []SortEntry, types map[string]schema.Type) []int {
	if len(entries) == 0 {
		return order
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := records[order[a]], records[order[b]]
		for _, entry := range entries {
			av, bv := ra.Value(entry.ID), rb.Value(entry.ID)
			// Empty cells sort last in both directions.
			aEmpty, bEmpty := isEmptySortValue(av), isEmptySortValue(bv)
			if aEmpty || bEmpty {
				if aEmpty == bEmpty {
					continue
				}
				return bEmpty
			}
			cmp := compareTyped(types[entry.ID], av, bv)
			if cmp == 0 {
				continue
			}
			if entry.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return order
}

// compareTyped orders two cell values of one semantic type. Empty values
// sort after present ones regardless of direction-independent compare.
func compareTyped(t schema.Type, a, b any) int {
	aEmpty := isEmptySortValue(a)
	bEmpty := isEmptySortValue(b)
	if aEmpty && bEmpty {
		return 0
	}
	if aEmpty {
		return 1
	}
	if bEmpty {
		return -1
	}

	switch t {
	case schema.TypeNumber, schema.TypeDate, schema.TypeCheckbox:
		af, aok := sortFloat(t, a)
		bf, bok := sortFloat(t, b)
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
		if aok != bok {
			// Parsable values order before unparsable ones.
			if aok {
				return -1
			}
			return 1
		}
	}

	return strings.Compare(
		strings.ToLower(displayString(a)),
		strings.ToLower(displayString(b)),
	)
}

func sortFloat(t schema.Type, v any) (float64, bool) {
	if t == schema.TypeDate {
		return dateEpoch(v)
	}
	return numericValue(v)
}

func isEmptySortValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
