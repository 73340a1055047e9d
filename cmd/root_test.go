package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores the package flag state tests mutate through
// SetArgs.
func resetFlags() {
	dataPath = ""
	dbPath = ""
	entitySlug = ""
	demoData = false
	outputFormat = ""
	exprSource = ""
	whereFlags = nil
	sortFlags = nil
	limitRows = 0
	offsetRows = 0
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	defer resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootDemoJSONOutput(t *testing.T) {
	out, err := runCLI(t, "--demo", "-e", "companies", "-o", "json")
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	assert.Len(t, docs, 5)
}

func TestRootWhereAndSort(t *testing.T) {
	out, err := runCLI(t, "--demo", "-e", "companies", "-o", "json",
		"--where", "stage:is:customer", "--sort", "employees:desc")
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "Acme Industries", docs[0]["name"])
	assert.Equal(t, "Vehement Capital", docs[1]["name"])
}

func TestRootCELFilter(t *testing.T) {
	out, err := runCLI(t, "--demo", "-e", "companies", "-o", "json",
		"--filter", "_.stage == 'lead'")
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Initech", docs[0]["name"])
}

func TestRootUnknownEntity(t *testing.T) {
	_, err := runCLI(t, "--demo", "-e", "ghosts", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghosts")
}

func TestRootConflictingSources(t *testing.T) {
	_, err := runCLI(t, "--demo", "--file", "x.yaml", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestRootBadWhereOperator(t *testing.T) {
	_, err := runCLI(t, "--demo", "-e", "companies", "-o", "json",
		"--where", "active:contains:x")
	assert.Error(t, err)
}

func TestRootBadOutputFormat(t *testing.T) {
	_, err := runCLI(t, "--demo", "-o", "xml")
	assert.Error(t, err)
}
