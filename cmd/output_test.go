package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridx/internal/filter"
	"github.com/oakwood-commons/gridx/internal/grid"
)

func TestParseWhereFlag(t *testing.T) {
	entity := demoEntities()[0]

	cond, err := parseWhereFlag(entity, "stage:is:customer")
	require.NoError(t, err)
	assert.Equal(t, "stage", cond.ColumnID)
	assert.Equal(t, filter.OpIs, cond.Operator)
	assert.Equal(t, "customer", cond.Value)

	cond, err = parseWhereFlag(entity, "employees:isBetween:10:100")
	require.NoError(t, err)
	assert.Equal(t, "10", cond.Value)
	assert.Equal(t, "100", cond.EndValue)

	cond, err = parseWhereFlag(entity, "notes:isNotEmpty")
	require.NoError(t, err)
	assert.Nil(t, cond.Value)

	_, err = parseWhereFlag(entity, "ghost:is:x")
	assert.Error(t, err)
	_, err = parseWhereFlag(entity, "active:contains:x")
	assert.Error(t, err, "text operator on a checkbox column")
	_, err = parseWhereFlag(entity, "stage:is")
	assert.Error(t, err, "missing required value")
}

func TestParseSortFlag(t *testing.T) {
	entity := demoEntities()[0]

	entry, err := parseSortFlag(entity, "employees:desc")
	require.NoError(t, err)
	assert.True(t, entry.Desc)

	entry, err = parseSortFlag(entity, "name")
	require.NoError(t, err)
	assert.False(t, entry.Desc)

	_, err = parseSortFlag(entity, "employees:sideways")
	assert.Error(t, err)
	_, err = parseSortFlag(entity, "ghost")
	assert.Error(t, err)
}

func TestQueryRecordsPipeline(t *testing.T) {
	entity := demoEntities()[0]
	records := demoRecords()["companies"]

	conds := []filter.Condition{{ColumnID: "active", Operator: filter.OpIsTrue}}
	sorts := []grid.SortEntry{{ID: "employees", Desc: true}}
	out := queryRecords(entity, records, conds, nil, sorts, 2, 0)

	require.Len(t, out, 2)
	assert.Equal(t, "Acme Industries", out[0].Value("name"))
	assert.Equal(t, "Globex", out[1].Value("name"))

	// Offset past the end yields nothing.
	assert.Empty(t, queryRecords(entity, records, conds, nil, sorts, 0, 10))
}

func TestQueryRecordsWithExprFilter(t *testing.T) {
	entity := demoEntities()[0]
	records := demoRecords()["companies"]

	expr, err := filter.CompileExpr(`_.employees > 100.0`)
	require.NoError(t, err)
	out := queryRecords(entity, records, nil, expr, nil, 0, 0)
	require.Len(t, out, 2)
	for _, rec := range out {
		assert.Greater(t, rec.Value("employees").(float64), float64(100))
	}
}

func TestWriteRecordsJSON(t *testing.T) {
	entity := demoEntities()[0]
	records := demoRecords()["companies"][:1]

	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, "json", entity, records))

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "cmp-1", docs[0]["id"])
	assert.Equal(t, "Acme Industries", docs[0]["name"])
}

func TestWriteRecordsCSV(t *testing.T) {
	entity := demoEntities()[0]
	records := demoRecords()["companies"][:2]

	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, "csv", entity, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,name,domain,stage,employees"))
	assert.Contains(t, lines[1], "Acme Industries")
	// Multi-select renders comma-joined, so the cell is quoted.
	assert.Contains(t, lines[2], "\"saas, startup\"")
}

func TestWriteRecordsUnknownFormat(t *testing.T) {
	entity := demoEntities()[0]
	var buf bytes.Buffer
	assert.Error(t, writeRecords(&buf, "xml", entity, nil))
}
