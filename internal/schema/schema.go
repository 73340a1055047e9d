// Package schema defines user-editable entity schemas: an entity is a
// named collection of typed attributes, and each record of the entity is
// a map from attribute slug to value.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Type is the semantic type of an attribute. It drives cell rendering,
// the filter operator set, and the default column width.
type Type string

const (
	TypeShortText     Type = "short-text"
	TypeLongText      Type = "long-text"
	TypeNumber        Type = "number"
	TypeSelect        Type = "select"
	TypeMultiSelect   Type = "multi-select"
	TypeCheckbox      Type = "checkbox"
	TypeDate          Type = "date"
	TypeURL           Type = "url"
	TypeRelation      Type = "relation"
	TypeRelationMulti Type = "relation-multi"
)

// Types lists all valid semantic types.
var Types = []Type{
	TypeShortText, TypeLongText, TypeNumber, TypeSelect, TypeMultiSelect,
	TypeCheckbox, TypeDate, TypeURL, TypeRelation, TypeRelationMulti,
}

// IsValidType reports whether t is a known semantic type.
func IsValidType(t Type) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// TypeLabel returns the UI label for a semantic type.
func TypeLabel(t Type) string {
	switch t {
	case TypeShortText:
		return "Text"
	case TypeLongText:
		return "Long Text"
	case TypeNumber:
		return "Number"
	case TypeSelect:
		return "Select"
	case TypeMultiSelect:
		return "Multi-select"
	case TypeCheckbox:
		return "Checkbox"
	case TypeDate:
		return "Date"
	case TypeURL:
		return "URL"
	case TypeRelation:
		return "Relation"
	case TypeRelationMulti:
		return "Relations"
	default:
		return string(t)
	}
}

// SelectOption is one choice of a select or multi-select attribute.
type SelectOption struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Color string `yaml:"color,omitempty"`
}

// AttributeConfig holds the type-specific configuration of an attribute.
// Only the fields relevant to the attribute's type are set.
type AttributeConfig struct {
	Options        []SelectOption `yaml:"options,omitempty"`
	Min            *float64       `yaml:"min,omitempty"`
	Max            *float64       `yaml:"max,omitempty"`
	Step           *float64       `yaml:"step,omitempty"`
	TargetEntityID string         `yaml:"targetEntityId,omitempty"`
}

// Attribute is one typed column of an entity.
//
// Slug is the attribute's identity: it is generated once when the
// attribute is created and never changes afterwards, so saved filters and
// sorts survive display-name renames.
type Attribute struct {
	ID       string           `yaml:"id"`
	Slug     string           `yaml:"slug"`
	Name     string           `yaml:"name"`
	Type     Type             `yaml:"type"`
	Required bool             `yaml:"required,omitempty"`
	Unique   bool             `yaml:"unique,omitempty"`
	System   bool             `yaml:"system,omitempty"`
	Order    int              `yaml:"order"`
	Config   *AttributeConfig `yaml:"config,omitempty"`
}

// Entity is a user-defined schema (a table in CRM terms).
type Entity struct {
	ID           string      `yaml:"id"`
	Slug         string      `yaml:"slug"`
	SingularName string      `yaml:"singularName"`
	PluralName   string      `yaml:"pluralName"`
	Description  string      `yaml:"description,omitempty"`
	Icon         string      `yaml:"icon,omitempty"`
	Color        string      `yaml:"color,omitempty"`
	Attributes   []Attribute `yaml:"attributes"`
}

// SortedAttributes returns the attributes ordered by their Order field,
// ties broken by slug for determinism.
func (e *Entity) SortedAttributes() []Attribute {
	attrs := make([]Attribute, len(e.Attributes))
	copy(attrs, e.Attributes)
	sort.SliceStable(attrs, func(i, j int) bool {
		if attrs[i].Order != attrs[j].Order {
			return attrs[i].Order < attrs[j].Order
		}
		return attrs[i].Slug < attrs[j].Slug
	})
	return attrs
}

// LinkAttributeSlug returns the slug of the attribute whose cells link
// to the record detail view: the first short-text attribute in display
// order, falling back to the first attribute.
func (e *Entity) LinkAttributeSlug() string {
	attrs := e.SortedAttributes()
	for _, a := range attrs {
		if a.Type == TypeShortText {
			return a.Slug
		}
	}
	if len(attrs) > 0 {
		return attrs[0].Slug
	}
	return ""
}

// Attribute returns the attribute with the given slug.
func (e *Entity) Attribute(slug string) (Attribute, bool) {
	for _, a := range e.Attributes {
		if a.Slug == slug {
			return a, true
		}
	}
	return Attribute{}, false
}

// TypesBySlug returns a slug -> semantic type lookup for the entity.
func (e *Entity) TypesBySlug() map[string]Type {
	out := make(map[string]Type, len(e.Attributes))
	for _, a := range e.Attributes {
		out[a.Slug] = a.Type
	}
	return out
}

// Validate checks structural invariants: non-empty slugs, unique slugs,
// and known semantic types.
func (e *Entity) Validate() error {
	if e.Slug == "" {
		return fmt.Errorf("entity %q has empty slug", e.SingularName)
	}
	seen := make(map[string]bool, len(e.Attributes))
	for _, a := range e.Attributes {
		if a.Slug == "" {
			return fmt.Errorf("attribute %q has empty slug", a.Name)
		}
		if seen[a.Slug] {
			return fmt.Errorf("duplicate attribute slug %q", a.Slug)
		}
		seen[a.Slug] = true
		if !IsValidType(a.Type) {
			return fmt.Errorf("attribute %q has unknown type %q", a.Slug, a.Type)
		}
	}
	return nil
}

// Slugify derives a URL-safe slug from a display name. Used only at
// attribute/entity creation time; identities never regenerate on rename.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
