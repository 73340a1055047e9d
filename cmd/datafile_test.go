package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/gridx/internal/store"
)

const sampleDataYAML = `
entities:
  - id: ent-1
    slug: projects
    singularName: Project
    pluralName: Projects
    attributes:
      - id: attr-1
        slug: title
        name: Title
        type: short-text
        order: 0
      - id: attr-2
        slug: budget
        name: Budget
        type: number
        order: 1
records:
  projects:
    - id: p1
      values:
        title: Relaunch
        budget: 25000
    - id: p2
      values:
        title: Cleanup
`

func writeTempData(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataFile(t *testing.T) {
	mem, entities, err := loadDataFile(writeTempData(t, sampleDataYAML))
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "projects", entities[0].Slug)

	rows, err := mem.FetchRows(context.Background(), "ent-1", store.RowQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Relaunch", rows[0].Value("title"))
}

func TestLoadDataFileNoEntities(t *testing.T) {
	_, _, err := loadDataFile(writeTempData(t, "records: {}\n"))
	assert.Error(t, err)
}

func TestLoadDataFileUnknownRecordSlug(t *testing.T) {
	content := sampleDataYAML + `  ghosts:
    - id: g1
      values: {}
`
	_, _, err := loadDataFile(writeTempData(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghosts")
}

func TestLoadDataFileMissing(t *testing.T) {
	_, _, err := loadDataFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDemoStore(t *testing.T) {
	mem, entities, err := buildDemoStore()
	require.NoError(t, err)
	require.Len(t, entities, 2)

	rows, err := mem.FetchRows(context.Background(), "ent-companies", store.RowQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	for _, entity := range entities {
		assert.NoError(t, entity.Validate())
	}
}
