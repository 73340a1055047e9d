package ui

import (
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/gridx/internal/config"
)

// Theme holds the resolved lipgloss styles for every grid surface.
// Styles are built once from the config palette; NoColor strips all
// color while keeping layout-affecting attributes.
type Theme struct {
	NoColor bool

	Header      lipgloss.Style
	HeaderSort  lipgloss.Style
	Cell        lipgloss.Style
	Cursor      lipgloss.Style
	Selected    lipgloss.Style
	RowSelected lipgloss.Style
	Pinned      lipgloss.Style
	Match       lipgloss.Style
	Muted       lipgloss.Style
	Border      lipgloss.Style
	Link        lipgloss.Style
	ToastInfo   lipgloss.Style
	ToastError  lipgloss.Style
	MenuTitle   lipgloss.Style
	MenuItem    lipgloss.Style
	MenuActive  lipgloss.Style
}

// NewTheme builds a theme from a config palette.
func NewTheme(palette config.ThemeConfig, noColor bool) Theme {
	if noColor {
		plain := lipgloss.NewStyle()
		return Theme{
			NoColor:     true,
			Header:      plain.Bold(true),
			HeaderSort:  plain.Bold(true).Underline(true),
			Cell:        plain,
			Cursor:      plain.Reverse(true),
			Selected:    plain.Underline(true),
			RowSelected: plain.Bold(true),
			Pinned:      plain,
			Match:       plain.Reverse(true),
			Muted:       plain.Faint(true),
			Border:      plain,
			Link:        plain.Underline(true),
			ToastInfo:   plain,
			ToastError:  plain.Bold(true),
			MenuTitle:   plain.Bold(true),
			MenuItem:    plain,
			MenuActive:  plain.Reverse(true),
		}
	}

	c := lipgloss.Color
	return Theme{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(c(palette.HeaderFg)).Background(c(palette.HeaderBg)),
		HeaderSort:  lipgloss.NewStyle().Bold(true).Underline(true).Foreground(c(palette.HeaderFg)).Background(c(palette.HeaderBg)),
		Cell:        lipgloss.NewStyle(),
		Cursor:      lipgloss.NewStyle().Foreground(c(palette.CursorFg)).Background(c(palette.CursorBg)),
		Selected:    lipgloss.NewStyle().Background(c(palette.SelectionBg)),
		RowSelected: lipgloss.NewStyle().Background(c(palette.RowSelectedBg)),
		Pinned:      lipgloss.NewStyle().Background(c(palette.PinnedBg)),
		Match:       lipgloss.NewStyle().Foreground(c(palette.MatchFg)).Background(c(palette.MatchBg)),
		Muted:       lipgloss.NewStyle().Foreground(c(palette.MutedFg)),
		Border:      lipgloss.NewStyle().Foreground(c(palette.BorderFg)),
		Link:        lipgloss.NewStyle().Underline(true).Foreground(c(palette.LinkFg)),
		ToastInfo:   lipgloss.NewStyle().Foreground(c(palette.ToastInfoFg)),
		ToastError:  lipgloss.NewStyle().Bold(true).Foreground(c(palette.ToastErrorFg)),
		MenuTitle:   lipgloss.NewStyle().Bold(true).Foreground(c(palette.HeaderFg)),
		MenuItem:    lipgloss.NewStyle(),
		MenuActive:  lipgloss.NewStyle().Foreground(c(palette.CursorFg)).Background(c(palette.CursorBg)),
	}
}
