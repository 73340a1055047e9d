package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oakwood-commons/gridx/internal/schema"
)

// DisplayValue renders a cell value for presentation surfaces: the grid
// view, the clipboard codec, and the CLI output all share it.
func DisplayValue(v any) string {
	return displayString(v)
}

// displayString renders a cell value the way the grid and the clipboard
// codec present it: lists joined by comma, floats without trailing
// zeros, nil as the empty string.
func displayString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = displayString(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func numericValue(v any) (float64, bool) {
	switch val := v.(type) {
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

var sortDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

func dateEpoch(v any) (float64, bool) {
	switch val := v.(type) {
	case time.Time:
		return float64(val.UnixMilli()), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		for _, layout := range sortDateLayouts {
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

// CoerceCellText converts pasted clipboard text into a typed cell value
// for the target column. The second return is false when the text cannot
// represent a value of the column's type; the paste then leaves that one
// cell unchanged instead of aborting the whole operation.
func CoerceCellText(col Column, text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	switch col.Type {
	case schema.TypeNumber:
		if trimmed == "" {
			return nil, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) {
			return nil, false
		}
		return f, true
	case schema.TypeCheckbox:
		switch strings.ToLower(trimmed) {
		case "true", "yes", "1", "x", "checked":
			return true, true
		case "false", "no", "0", "", "unchecked":
			return false, true
		default:
			return nil, false
		}
	case schema.TypeDate:
		if trimmed == "" {
			return nil, true
		}
		for _, layout := range sortDateLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts.Format(time.RFC3339), true
			}
		}
		return nil, false
	case schema.TypeSelect, schema.TypeRelation:
		if trimmed == "" {
			return nil, true
		}
		if v, ok := matchOption(col.Options, trimmed); ok {
			return v, true
		}
		if col.Type == schema.TypeRelation {
			// Relations accept raw target ids; resolution happens upstream.
			return trimmed, true
		}
		return nil, false
	case schema.TypeMultiSelect, schema.TypeRelationMulti:
		if trimmed == "" {
			return nil, true
		}
		parts := strings.Split(trimmed, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if v, ok := matchOption(col.Options, part); ok {
				values = append(values, v)
				continue
			}
			if col.Type == schema.TypeRelationMulti {
				values = append(values, part)
				continue
			}
			return nil, false
		}
		if len(values) == 0 {
			return nil, true
		}
		return values, true
	default:
		// Text-like columns take the pasted text verbatim (untrimmed,
		// minus the neutralized separators).
		return text, true
	}
}

// matchOption resolves pasted text against select options by value first,
// then case-insensitive label.
func matchOption(options []schema.SelectOption, text string) (string, bool) {
	for _, opt := range options {
		if opt.Value == text {
			return opt.Value, true
		}
	}
	lower := strings.ToLower(text)
	for _, opt := range options {
		if strings.ToLower(opt.Label) == lower {
			return opt.Value, true
		}
	}
	if len(options) == 0 {
		// Schema without declared options accepts free-form values.
		return text, true
	}
	return "", false
}
