// Package filter implements the typed filter predicate engine for grid
// columns: the operator set valid for each semantic type, per-type
// defaults, and condition evaluation over record values.
//
// The package has no UI or store dependencies so the same evaluation
// semantics can run client-side in the grid or server-side over a full
// dataset.
package filter

import "github.com/oakwood-commons/gridx/internal/schema"

// Operator identifies a filter comparison.
type Operator string

const (
	OpContains       Operator = "contains"
	OpDoesNotContain Operator = "doesNotContain"
	OpEquals         Operator = "equals"
	OpDoesNotEqual   Operator = "doesNotEqual"
	OpStartsWith     Operator = "startsWith"
	OpEndsWith       Operator = "endsWith"
	OpGreaterThan    Operator = "greaterThan"
	OpLessThan       Operator = "lessThan"
	OpIsBetween      Operator = "isBetween"
	OpIs             Operator = "is"
	OpIsNot          Operator = "isNot"
	OpIsAnyOf        Operator = "isAnyOf"
	OpIsNoneOf       Operator = "isNoneOf"
	OpIsEmpty        Operator = "isEmpty"
	OpIsNotEmpty     Operator = "isNotEmpty"
	OpIsTrue         Operator = "isTrue"
	OpIsFalse        Operator = "isFalse"
)

// Option pairs an operator with its UI label.
type Option struct {
	Value Operator
	Label string
}

var textOperators = []Option{
	{OpContains, "Contains"},
	{OpDoesNotContain, "Does not contain"},
	{OpEquals, "Equals"},
	{OpDoesNotEqual, "Does not equal"},
	{OpStartsWith, "Starts with"},
	{OpEndsWith, "Ends with"},
	{OpIsEmpty, "Is empty"},
	{OpIsNotEmpty, "Is not empty"},
}

var orderedOperators = []Option{
	{OpEquals, "Equals"},
	{OpDoesNotEqual, "Does not equal"},
	{OpGreaterThan, "Greater than"},
	{OpLessThan, "Less than"},
	{OpIsBetween, "Is between"},
	{OpIsEmpty, "Is empty"},
	{OpIsNotEmpty, "Is not empty"},
}

var checkboxOperators = []Option{
	{OpIsTrue, "Is true"},
	{OpIsFalse, "Is false"},
}

var selectOperators = []Option{
	{OpIs, "Is"},
	{OpIsNot, "Is not"},
	{OpIsEmpty, "Is empty"},
	{OpIsNotEmpty, "Is not empty"},
}

var multiOperators = []Option{
	{OpIsAnyOf, "Is any of"},
	{OpIsNoneOf, "Is none of"},
	{OpIsEmpty, "Is empty"},
	{OpIsNotEmpty, "Is not empty"},
}

// OperatorsFor returns the ordered operator choices valid for a semantic
// type. Unknown types fall back to the text operator set.
func OperatorsFor(t schema.Type) []Option {
	switch t {
	case schema.TypeNumber, schema.TypeDate:
		return orderedOperators
	case schema.TypeCheckbox:
		return checkboxOperators
	case schema.TypeSelect, schema.TypeRelation:
		return selectOperators
	case schema.TypeMultiSelect, schema.TypeRelationMulti:
		return multiOperators
	default:
		return textOperators
	}
}

// DefaultOperator returns the operator a freshly added filter starts with.
func DefaultOperator(t schema.Type) Operator {
	return OperatorsFor(t)[0].Value
}

// ValidOperator reports whether op belongs to the operator set of t.
// Stale operators after a column-type change must be corrected via
// DefaultOperator.
func ValidOperator(t schema.Type, op Operator) bool {
	for _, o := range OperatorsFor(t) {
		if o.Value == op {
			return true
		}
	}
	return false
}

// NeedsValue reports whether an operator takes a comparison value. The
// set of valueless operators is shared verbatim between the engine and
// the filter menu so both sides agree on when an input is rendered.
func NeedsValue(op Operator) bool {
	switch op {
	case OpIsEmpty, OpIsNotEmpty, OpIsTrue, OpIsFalse:
		return false
	default:
		return true
	}
}

// NeedsEndValue reports whether an operator takes a range end value.
func NeedsEndValue(op Operator) bool {
	return op == OpIsBetween
}
