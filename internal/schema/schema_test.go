package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntity() Entity {
	return Entity{
		ID:           "ent-1",
		Slug:         "companies",
		SingularName: "Company",
		PluralName:   "Companies",
		Attributes: []Attribute{
			{ID: "a-emp", Slug: "employees", Name: "Employees", Type: TypeNumber, Order: 2},
			{ID: "a-name", Slug: "name", Name: "Name", Type: TypeShortText, Order: 0},
			{ID: "a-stage", Slug: "stage", Name: "Stage", Type: TypeSelect, Order: 1},
		},
	}
}

func TestSortedAttributes(t *testing.T) {
	e := testEntity()
	attrs := e.SortedAttributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, []string{"name", "stage", "employees"},
		[]string{attrs[0].Slug, attrs[1].Slug, attrs[2].Slug})

	// Equal Order ties break by slug for a deterministic layout.
	e.Attributes[0].Order = 0
	e.Attributes[1].Order = 0
	e.Attributes[2].Order = 0
	attrs = e.SortedAttributes()
	assert.Equal(t, []string{"employees", "name", "stage"},
		[]string{attrs[0].Slug, attrs[1].Slug, attrs[2].Slug})
}

func TestAttributeLookup(t *testing.T) {
	e := testEntity()
	attr, ok := e.Attribute("stage")
	require.True(t, ok)
	assert.Equal(t, TypeSelect, attr.Type)

	_, ok = e.Attribute("missing")
	assert.False(t, ok)
}

func TestTypesBySlug(t *testing.T) {
	e := testEntity()
	types := e.TypesBySlug()
	assert.Equal(t, TypeNumber, types["employees"])
	assert.Equal(t, TypeShortText, types["name"])
	assert.Len(t, types, 3)
}

func TestLinkAttributeSlug(t *testing.T) {
	e := testEntity()
	assert.Equal(t, "name", e.LinkAttributeSlug(), "first short-text in display order")

	// Without a short-text attribute the first attribute links.
	e.Attributes = []Attribute{
		{ID: "a-emp", Slug: "employees", Name: "Employees", Type: TypeNumber, Order: 1},
		{ID: "a-due", Slug: "due", Name: "Due", Type: TypeDate, Order: 0},
	}
	assert.Equal(t, "due", e.LinkAttributeSlug())

	e.Attributes = nil
	assert.Equal(t, "", e.LinkAttributeSlug())
}

func TestValidate(t *testing.T) {
	e := testEntity()
	require.NoError(t, e.Validate())

	bad := testEntity()
	bad.Slug = ""
	assert.ErrorContains(t, bad.Validate(), "empty slug")

	bad = testEntity()
	bad.Attributes[0].Slug = "name"
	assert.ErrorContains(t, bad.Validate(), "duplicate attribute slug")

	bad = testEntity()
	bad.Attributes[0].Type = "geo-point"
	assert.ErrorContains(t, bad.Validate(), "unknown type")
}

func TestIsValidType(t *testing.T) {
	for _, typ := range Types {
		assert.True(t, IsValidType(typ), string(typ))
	}
	assert.False(t, IsValidType("picture"))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Annual Revenue":      "annual-revenue",
		"  Deal   Stage  ":    "deal-stage",
		"E-mail (Primary)":    "e-mail-primary",
		"2024 Forecast":       "2024-forecast",
		"---":                 "",
		"Ümlaut Straße":       "ümlaut-straße",
		"already-a-slug":      "already-a-slug",
		"Trailing Symbols!!!": "trailing-symbols",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}
