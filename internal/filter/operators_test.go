package filter

import (
	"testing"

	"github.com/oakwood-commons/gridx/internal/schema"
)

func TestOperatorsForCoversEveryType(t *testing.T) {
	for _, typ := range schema.Types {
		ops := OperatorsFor(typ)
		if len(ops) == 0 {
			t.Fatalf("type %s has no operators", typ)
		}
		if got := DefaultOperator(typ); got != ops[0].Value {
			t.Fatalf("default operator for %s = %s, want first option %s", typ, got, ops[0].Value)
		}
		for _, op := range ops {
			if !ValidOperator(typ, op.Value) {
				t.Fatalf("operator %s not valid for its own type %s", op.Value, typ)
			}
			if op.Label == "" {
				t.Fatalf("operator %s for %s has no label", op.Value, typ)
			}
		}
	}
}

func TestOperatorSetsPerType(t *testing.T) {
	if !ValidOperator(schema.TypeShortText, OpContains) {
		t.Fatal("contains should be valid for text")
	}
	if ValidOperator(schema.TypeNumber, OpContains) {
		t.Fatal("contains should not be valid for number")
	}
	if !ValidOperator(schema.TypeNumber, OpIsBetween) {
		t.Fatal("isBetween should be valid for number")
	}
	if !ValidOperator(schema.TypeDate, OpIsBetween) {
		t.Fatal("isBetween should be valid for date")
	}
	if ValidOperator(schema.TypeCheckbox, OpIsEmpty) {
		t.Fatal("checkbox has only isTrue/isFalse")
	}
	if !ValidOperator(schema.TypeRelation, OpIs) {
		t.Fatal("relation shares the select operator set")
	}
	if !ValidOperator(schema.TypeRelationMulti, OpIsNoneOf) {
		t.Fatal("relation-multi shares the multi-select operator set")
	}
}

func TestNeedsValue(t *testing.T) {
	for _, op := range []Operator{OpIsEmpty, OpIsNotEmpty, OpIsTrue, OpIsFalse} {
		if NeedsValue(op) {
			t.Fatalf("%s should not need a value", op)
		}
	}
	for _, op := range []Operator{OpContains, OpEquals, OpGreaterThan, OpIs, OpIsAnyOf, OpIsBetween} {
		if !NeedsValue(op) {
			t.Fatalf("%s should need a value", op)
		}
	}
	if !NeedsEndValue(OpIsBetween) {
		t.Fatal("isBetween needs an end value")
	}
	if NeedsEndValue(OpGreaterThan) {
		t.Fatal("greaterThan should not need an end value")
	}
}
