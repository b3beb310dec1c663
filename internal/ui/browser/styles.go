package browser

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/githubgphl/startools/internal/config"
	"github.com/githubgphl/startools/internal/star"
)

// styles holds the rendered lipgloss styles for one theme.
type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	cursor   lipgloss.Style
	value    lipgloss.Style
	keyword  lipgloss.Style
	bad      lipgloss.Style
	footer   lipgloss.Style
	position lipgloss.Style
}

func newStyles(theme config.ThemeConfig) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.HeaderColor)),
		header:   lipgloss.NewStyle().Bold(true).Underline(true),
		cursor:   lipgloss.NewStyle().Reverse(true),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ValueColor)),
		keyword:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.KeywordColor)),
		bad:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ErrorColor)).Bold(true),
		footer:   lipgloss.NewStyle().Faint(true),
		position: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.BorderColor)),
	}
}

// categoryStyle picks the row style for a token category.
func (s styles) categoryStyle(c star.Category) lipgloss.Style {
	switch {
	case c.IsError():
		return s.bad
	case c.IsValue():
		return s.value
	case c == star.Comment:
		return s.footer
	default:
		return s.keyword
	}
}
