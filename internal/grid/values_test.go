package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakwood-commons/gridx/internal/schema"
)

func TestCoerceCellText(t *testing.T) {
	numberCol := Column{ID: "n", Type: schema.TypeNumber}
	checkboxCol := Column{ID: "c", Type: schema.TypeCheckbox}
	dateCol := Column{ID: "d", Type: schema.TypeDate}
	selectCol := Column{ID: "s", Type: schema.TypeSelect, Options: []schema.SelectOption{
		{Label: "Lead", Value: "lead"},
		{Label: "Customer", Value: "customer"},
	}}
	multiCol := Column{ID: "m", Type: schema.TypeMultiSelect, Options: selectCol.Options}
	textCol := Column{ID: "t", Type: schema.TypeShortText}
	relationCol := Column{ID: "r", Type: schema.TypeRelation}

	cases := []struct {
		name string
		col  Column
		text string
		want any
		ok   bool
	}{
		{"number", numberCol, " 42.5 ", 42.5, true},
		{"number empty clears", numberCol, "", nil, true},
		{"number garbage", numberCol, "abc", nil, false},
		{"checkbox yes", checkboxCol, "Yes", true, true},
		{"checkbox x", checkboxCol, "x", true, true},
		{"checkbox no", checkboxCol, "0", false, true},
		{"checkbox garbage", checkboxCol, "maybe", nil, false},
		{"date iso", dateCol, "2024-03-01", "2024-03-01T00:00:00Z", true},
		{"date garbage", dateCol, "soon", nil, false},
		{"select by value", selectCol, "lead", "lead", true},
		{"select by label", selectCol, "customer", "customer", true},
		{"select label case-insensitive", selectCol, "LEAD", "lead", true},
		{"select unknown", selectCol, "vip", nil, false},
		{"multi mixed", multiCol, "Lead, customer", []string{"lead", "customer"}, true},
		{"multi unknown member", multiCol, "lead, vip", nil, false},
		{"text verbatim", textCol, "  hello  ", "  hello  ", true},
		{"relation raw id", relationCol, "ent-42", "ent-42", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := CoerceCellText(tc.col, tc.text)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestDisplayString(t *testing.T) {
	assert.Equal(t, "", displayString(nil))
	assert.Equal(t, "12", displayString(float64(12)))
	assert.Equal(t, "12.5", displayString(12.5))
	assert.Equal(t, "true", displayString(true))
	assert.Equal(t, "a, b", displayString([]string{"a", "b"}))
	assert.Equal(t, "1, x", displayString([]any{float64(1), "x"}))
}
