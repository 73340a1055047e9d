package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakwood-commons/gridx/internal/schema"
)

func cond(op Operator, value any) Condition {
	return Condition{ColumnID: "col", Operator: op, Value: value}
}

func TestEvaluateText(t *testing.T) {
	cases := []struct {
		name string
		cell any
		cond Condition
		want bool
	}{
		{"contains case insensitive", "Acme Industries", cond(OpContains, "acme"), true},
		{"contains miss", "Acme Industries", cond(OpContains, "globex"), false},
		{"contains empty needle never matches", "Acme", cond(OpContains, ""), false},
		{"does not contain", "Acme", cond(OpDoesNotContain, "glo"), true},
		{"does not contain with empty needle passes", "Acme", cond(OpDoesNotContain, ""), true},
		{"equals is exact case", "Acme", cond(OpEquals, "acme"), false},
		{"equals", "Acme", cond(OpEquals, "Acme"), true},
		{"does not equal", "Acme", cond(OpDoesNotEqual, "Globex"), true},
		{"starts with", "Acme Industries", cond(OpStartsWith, "ACME"), true},
		{"ends with", "Acme Industries", cond(OpEndsWith, "industries"), true},
		{"nil cell contains nothing", nil, cond(OpContains, "a"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(schema.TypeShortText, tc.cell, tc.cond))
		})
	}
}

func TestEvaluateNumber(t *testing.T) {
	cases := []struct {
		name string
		cell any
		cond Condition
		want bool
	}{
		{"equals", float64(42), cond(OpEquals, "42"), true},
		{"greater than", float64(42), cond(OpGreaterThan, float64(40)), true},
		{"less than miss", float64(42), cond(OpLessThan, float64(40)), false},
		{"string cell coerced", "42", cond(OpGreaterThan, float64(10)), true},
		{"unparsable cell is false", "n/a", cond(OpGreaterThan, float64(10)), false},
		{"unparsable bound is false", float64(42), cond(OpGreaterThan, "abc"), false},
		{"nil cell is false", nil, cond(OpEquals, float64(0)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(schema.TypeNumber, tc.cell, tc.cond))
		})
	}
}

func TestEvaluateIsBetween(t *testing.T) {
	between := func(cell any, lo, hi any) bool {
		return Evaluate(schema.TypeNumber, cell, Condition{
			ColumnID: "col", Operator: OpIsBetween, Value: lo, EndValue: hi,
		})
	}

	assert.True(t, between(float64(50), float64(10), float64(100)))
	assert.True(t, between(float64(10), float64(10), float64(100)), "bounds are inclusive")
	assert.False(t, between(float64(5), float64(10), float64(100)))

	// An unset bound is open-ended.
	assert.True(t, between(float64(5), nil, float64(100)))
	assert.True(t, between(float64(500), float64(10), ""))
	assert.True(t, between(float64(5), nil, nil))

	// A present but unparsable bound fails the whole predicate.
	assert.False(t, between(float64(50), "low", float64(100)))
}

func TestEvaluateDate(t *testing.T) {
	assert.True(t, Evaluate(schema.TypeDate, "2024-03-01", cond(OpGreaterThan, "2024-01-15")))
	assert.False(t, Evaluate(schema.TypeDate, "2024-01-01", cond(OpGreaterThan, "2024-01-15")))
	assert.True(t, Evaluate(schema.TypeDate, "2024-01-15T10:30:00Z", cond(OpEquals, "2024-01-15T10:30:00Z")))
	assert.False(t, Evaluate(schema.TypeDate, "soon", cond(OpLessThan, "2024-01-15")))
}

func TestEvaluateSelectAndMulti(t *testing.T) {
	assert.True(t, Evaluate(schema.TypeSelect, "lead", cond(OpIs, "lead")))
	assert.False(t, Evaluate(schema.TypeSelect, "lead", cond(OpIs, "customer")))
	assert.True(t, Evaluate(schema.TypeSelect, "lead", cond(OpIsNot, "customer")))

	tags := []string{"saas", "startup"}
	assert.True(t, Evaluate(schema.TypeMultiSelect, tags, cond(OpIsAnyOf, []string{"startup", "agency"})))
	assert.False(t, Evaluate(schema.TypeMultiSelect, tags, cond(OpIsAnyOf, []string{"agency"})))
	assert.False(t, Evaluate(schema.TypeMultiSelect, tags, cond(OpIsAnyOf, []string{})), "empty choice matches nothing")
	assert.True(t, Evaluate(schema.TypeMultiSelect, tags, cond(OpIsNoneOf, []string{"agency"})))
	assert.False(t, Evaluate(schema.TypeMultiSelect, tags, cond(OpIsNoneOf, []string{"saas"})))

	// []any values from decoded YAML/JSON coerce the same way.
	assert.True(t, Evaluate(schema.TypeMultiSelect, []any{"saas"}, cond(OpIsAnyOf, "saas")))
}

func TestEvaluateValuelessOperators(t *testing.T) {
	assert.True(t, Evaluate(schema.TypeShortText, nil, cond(OpIsEmpty, nil)))
	assert.True(t, Evaluate(schema.TypeShortText, "   ", cond(OpIsEmpty, nil)))
	assert.False(t, Evaluate(schema.TypeShortText, "x", cond(OpIsEmpty, nil)))
	assert.True(t, Evaluate(schema.TypeMultiSelect, []string{}, cond(OpIsEmpty, nil)))
	assert.True(t, Evaluate(schema.TypeShortText, "x", cond(OpIsNotEmpty, nil)))

	assert.True(t, Evaluate(schema.TypeCheckbox, true, cond(OpIsTrue, nil)))
	assert.True(t, Evaluate(schema.TypeCheckbox, "true", cond(OpIsTrue, nil)))
	assert.True(t, Evaluate(schema.TypeCheckbox, nil, cond(OpIsFalse, nil)), "unset checkbox counts as false")
	assert.False(t, Evaluate(schema.TypeCheckbox, float64(1), cond(OpIsFalse, nil)))
}

func TestEvaluateUnknownOperatorIsFalse(t *testing.T) {
	assert.False(t, Evaluate(schema.TypeShortText, "x", cond(Operator("bogus"), "x")))
	assert.False(t, Evaluate(schema.TypeNumber, float64(1), cond(OpContains, "1")), "text operator on number column")
}

func TestRowVisible(t *testing.T) {
	types := map[string]schema.Type{
		"name":      schema.TypeShortText,
		"employees": schema.TypeNumber,
	}
	values := map[string]any{"name": "Acme", "employees": float64(120)}

	assert.True(t, RowVisible(nil, types, values), "no conditions always passes")
	assert.True(t, RowVisible([]Condition{
		{ColumnID: "name", Operator: OpContains, Value: "ac"},
		{ColumnID: "employees", Operator: OpGreaterThan, Value: float64(100)},
	}, types, values))
	assert.False(t, RowVisible([]Condition{
		{ColumnID: "name", Operator: OpContains, Value: "ac"},
		{ColumnID: "employees", Operator: OpLessThan, Value: float64(100)},
	}, types, values), "conditions are AND-combined")
}
