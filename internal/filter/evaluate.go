package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oakwood-commons/gridx/internal/schema"
)

// Condition is one active column filter. All active conditions are
// AND-combined: a row stays visible only if every condition holds.
// EndValue is meaningful only for isBetween.
type Condition struct {
	ColumnID string
	Operator Operator
	Value    any
	EndValue any
}

// Evaluate reports whether a cell value satisfies the condition for the
// given semantic type. It never panics: unparsable numbers/dates make
// the predicate false, and unknown operators evaluate false.
func Evaluate(t schema.Type, cellValue any, cond Condition) bool {
	switch cond.Operator {
	case OpIsEmpty:
		return isEmptyValue(cellValue)
	case OpIsNotEmpty:
		return !isEmptyValue(cellValue)
	case OpIsTrue:
		return toBool(cellValue)
	case OpIsFalse:
		return !toBool(cellValue)
	}

	switch t {
	case schema.TypeNumber:
		return evaluateOrdered(cellValue, cond, toFloat)
	case schema.TypeDate:
		return evaluateOrdered(cellValue, cond, toDateEpoch)
	case schema.TypeSelect, schema.TypeRelation:
		return evaluateSelect(cellValue, cond)
	case schema.TypeMultiSelect, schema.TypeRelationMulti:
		return evaluateMulti(cellValue, cond)
	default:
		return evaluateText(cellValue, cond)
	}
}

// RowVisible applies the AND-pass over all active conditions for one
// row's values. A row with zero active conditions always passes.
func RowVisible(conds []Condition, types map[string]schema.Type, values map[string]any) bool {
	for _, cond := range conds {
		if !Evaluate(types[cond.ColumnID], values[cond.ColumnID], cond) {
			return false
		}
	}
	return true
}

// evaluateText handles short-text, long-text, and url columns.
// contains/startsWith/endsWith are case-insensitive; equality is exact.
func evaluateText(cellValue any, cond Condition) bool {
	cell := toString(cellValue)
	want := toString(cond.Value)
	cellLower := strings.ToLower(cell)
	wantLower := strings.ToLower(want)

	switch cond.Operator {
	case OpContains:
		return want != "" && strings.Contains(cellLower, wantLower)
	case OpDoesNotContain:
		return want == "" || !strings.Contains(cellLower, wantLower)
	case OpEquals:
		return cell == want
	case OpDoesNotEqual:
		return cell != want
	case OpStartsWith:
		return want != "" && strings.HasPrefix(cellLower, wantLower)
	case OpEndsWith:
		return want != "" && strings.HasSuffix(cellLower, wantLower)
	default:
		return false
	}
}

// evaluateOrdered handles number and date columns through a shared
// coercion function. An unset isBetween bound is open-ended.
func evaluateOrdered(cellValue any, cond Condition, coerce func(any) (float64, bool)) bool {
	cell, ok := coerce(cellValue)
	if !ok {
		return false
	}

	switch cond.Operator {
	case OpEquals:
		want, ok := coerce(cond.Value)
		return ok && cell == want
	case OpDoesNotEqual:
		want, ok := coerce(cond.Value)
		return ok && cell != want
	case OpGreaterThan:
		want, ok := coerce(cond.Value)
		return ok && cell > want
	case OpLessThan:
		want, ok := coerce(cond.Value)
		return ok && cell < want
	case OpIsBetween:
		lo := math.Inf(-1)
		hi := math.Inf(1)
		if !isUnset(cond.Value) {
			v, ok := coerce(cond.Value)
			if !ok {
				return false
			}
			lo = v
		}
		if !isUnset(cond.EndValue) {
			v, ok := coerce(cond.EndValue)
			if !ok {
				return false
			}
			hi = v
		}
		return cell >= lo && cell <= hi
	default:
		return false
	}
}

func evaluateSelect(cellValue any, cond Condition) bool {
	cell := toString(cellValue)
	want := toString(cond.Value)
	switch cond.Operator {
	case OpIs:
		return cell == want
	case OpIsNot:
		return cell != want
	default:
		return false
	}
}

func evaluateMulti(cellValue any, cond Condition) bool {
	cell := toStringSlice(cellValue)
	want := toStringSlice(cond.Value)
	switch cond.Operator {
	case OpIsAnyOf:
		if len(want) == 0 {
			return false
		}
		for _, w := range want {
			for _, c := range cell {
				if c == w {
					return true
				}
			}
		}
		return false
	case OpIsNoneOf:
		for _, w := range want {
			for _, c := range cell {
				if c == w {
					return false
				}
			}
		}
		return true
	default:
		return false
	}
}

// isUnset treats nil and empty string as an absent filter bound.
func isUnset(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isEmptyValue(v any) bool {
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

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func toStringSlice(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, toString(item))
		}
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	default:
		return []string{toString(val)}
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(val) {
			return 0, false
		}
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// dateLayouts are tried in order when coercing strings to dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// toDateEpoch coerces a value to Unix milliseconds for ordering.
func toDateEpoch(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case time.Time:
		return float64(val.UnixMilli()), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return float64(ts.UnixMilli()), true
			}
		}
		return 0, false
	case float64:
		return val, true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(val)))
		return err == nil && b
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}
