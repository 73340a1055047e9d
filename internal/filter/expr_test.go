package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileExpr(t *testing.T) {
	f, err := CompileExpr(`_.employees > 100.0 && _.stage == "customer"`)
	require.NoError(t, err)
	assert.Equal(t, `_.employees > 100.0 && _.stage == "customer"`, f.Source())

	assert.True(t, f.Match(map[string]any{"employees": float64(120), "stage": "customer"}))
	assert.False(t, f.Match(map[string]any{"employees": float64(8), "stage": "customer"}))
	assert.False(t, f.Match(map[string]any{"employees": float64(120), "stage": "lead"}))
}

func TestCompileExprRejectsBadSyntax(t *testing.T) {
	_, err := CompileExpr(`_.employees >`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter expression")
}

func TestExprMatchMissingFieldHidesRow(t *testing.T) {
	f, err := CompileExpr(`_.employees > 100.0`)
	require.NoError(t, err)
	assert.False(t, f.Match(map[string]any{"name": "Acme"}))
}

func TestExprMatchNonBooleanHidesRow(t *testing.T) {
	f, err := CompileExpr(`_.name`)
	require.NoError(t, err)
	assert.False(t, f.Match(map[string]any{"name": "Acme"}))
}

func TestExprStringExtensions(t *testing.T) {
	f, err := CompileExpr(`_.name.lowerAscii().contains("acme")`)
	require.NoError(t, err)
	assert.True(t, f.Match(map[string]any{"name": "ACME Industries"}))
}

func TestNilExprMatchesEverything(t *testing.T) {
	var f *ExprFilter
	assert.True(t, f.Match(map[string]any{"anything": 1}))
}
