// Package grid implements the editable data grid core: column model,
// selection and focus state, editing life cycle, clipboard codec,
// keyboard interpretation, multi-column sorting, and the virtualization
// window over large record sets.
package grid

import (
	"github.com/oakwood-commons/gridx/internal/schema"
)

// Reserved ids for the two pseudo-columns. They are rendered but never
// hold attribute data, are not focusable, and never receive pasted values.
const (
	SelectColumnID = "select"
	AddColumnID    = "add-column"
)

// PinSide describes horizontal pinning of a column.
type PinSide string

const (
	PinNone  PinSide = ""
	PinStart PinSide = "start"
	PinEnd   PinSide = "end"
)

// Column is a grid column definition derived from an attribute, plus the
// two fixed pseudo-columns. Identity is the attribute slug.
type Column struct {
	ID         string
	Label      string
	Type       schema.Type
	Size       int
	Sortable   bool
	Filterable bool
	Editable   bool
	Hidden     bool
	Pinned     PinSide
	Pseudo     bool
	LinkColumn bool

	// Type-specific cell configuration.
	Options []schema.SelectOption
	Min     *float64
	Max     *float64
	Step    *float64
}

// columnSize is the fixed default width lookup keyed by semantic type.
func columnSize(t schema.Type) int {
	switch t {
	case schema.TypeLongText:
		return 300
	case schema.TypeURL:
		return 200
	case schema.TypeDate:
		return 140
	case schema.TypeCheckbox:
		return 100
	case schema.TypeSelect, schema.TypeMultiSelect:
		return 160
	case schema.TypeNumber:
		return 120
	default:
		return 180
	}
}

const (
	selectColumnSize = 40
	addColumnSize    = 40
)

// BuildOptions tweaks column derivation without changing its determinism.
type BuildOptions struct {
	// LinkColumnSlug marks one column as the navigable record link.
	LinkColumnSlug string
	// SizeOverrides preserves user resizes across schema rebuilds, keyed
	// by column id.
	SizeOverrides map[string]int
	// ReadOnly disables editing for all columns.
	ReadOnly bool
}

// BuildColumns derives the full ordered column list from an attribute
// schema: select pseudo-column, one column per attribute in Order, then
// the add-column pseudo-column. The same attribute list always yields
// the same column list.
func BuildColumns(attrs []schema.Attribute, opts BuildOptions) []Column {
	cols := make([]Column, 0, len(attrs)+2)

	cols = append(cols, Column{
		ID:     SelectColumnID,
		Size:   selectColumnSize,
		Pseudo: true,
		Pinned: PinStart,
	})

	for _, attr := range attrs {
		col := Column{
			ID:         attr.Slug,
			Label:      attr.Name,
			Type:       attr.Type,
			Size:       columnSize(attr.Type),
			Sortable:   true,
			Filterable: true,
			Editable:   !opts.ReadOnly && !attr.System,
			LinkColumn: attr.Slug == opts.LinkColumnSlug,
		}
		if override, ok := opts.SizeOverrides[attr.Slug]; ok && override > 0 {
			col.Size = override
		}
		if cfg := attr.Config; cfg != nil {
			col.Options = cfg.Options
			col.Min = cfg.Min
			col.Max = cfg.Max
			col.Step = cfg.Step
		}
		cols = append(cols, col)
	}

	cols = append(cols, Column{
		ID:     AddColumnID,
		Size:   addColumnSize,
		Pseudo: true,
		Pinned: PinEnd,
	})

	return cols
}
