package filter

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// ExprFilter is a compiled row-filter expression. The record's values map
// is bound to the variable "_", so expressions read like
// "_.followers > 60 && _.industry == 'technology'".
//
// It complements the typed operator engine: conditions built in the
// filter menu stay declarative and relocatable, while expressions cover
// ad-hoc queries the operator table cannot express.
type ExprFilter struct {
	source string
	prg    cel.Program
}

// newExprEnv builds the CEL environment shared by compilation and the
// operator/function listing. Extension libraries are enabled so string
// and math helpers are available inside expressions.
func newExprEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
}

// CompileExpr parses and type-checks a filter expression. Compilation
// errors are returned to the caller; evaluation errors later simply
// exclude the row.
func CompileExpr(source string) (*ExprFilter, error) {
	env, err := newExprEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}
	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &ExprFilter{source: source, prg: prg}, nil
}

// Source returns the original expression text.
func (f *ExprFilter) Source() string {
	return f.source
}

// Match evaluates the expression against one record's values. Every
// failure mode maps to "row hidden": evaluation errors (missing field,
// type mismatch) and non-boolean results both return false.
func (f *ExprFilter) Match(values map[string]any) bool {
	if f == nil {
		return true
	}
	out, _, err := f.prg.Eval(map[string]any{"_": values})
	if err != nil {
		return false
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false
	}
	return bool(b)
}
