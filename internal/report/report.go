// Package report aggregates token streams into per-category histograms and
// renders them as styled tables or YAML.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/githubgphl/startools/internal/config"
	"github.com/githubgphl/startools/internal/star"
)

// Histogram counts tokens per category for one run. The zero value is ready
// to use.
type Histogram struct {
	counts [star.NumCategories]int
}

// Add records one token.
func (h *Histogram) Add(tok star.Token) {
	h.counts[tok.Category]++
}

// Count returns the tally for one category.
func (h *Histogram) Count(c star.Category) int {
	return h.counts[c]
}

// Total returns the number of tokens recorded.
func (h *Histogram) Total() int {
	total := 0
	for _, n := range h.counts {
		total += n
	}
	return total
}

// Counts returns a copy of the per-category tallies, indexed by category.
func (h *Histogram) Counts() [star.NumCategories]int {
	return h.counts
}

// Row is one non-zero histogram line in canonical category order.
type Row struct {
	Category star.Category
	Count    int
}

// Rows returns the non-zero tallies in canonical category order.
func (h *Histogram) Rows() []Row {
	var rows []Row
	for c := star.Category(0); c < star.Category(star.NumCategories); c++ {
		if h.counts[c] > 0 {
			rows = append(rows, Row{Category: c, Count: h.counts[c]})
		}
	}
	return rows
}

// Summary is the run metadata rendered alongside the histogram.
type Summary struct {
	Source   string
	Tokens   int
	Duration time.Duration
}

// String renders the one-line run summary. Quiet tokenize runs print this
// alone; the table renderer uses it as the footer.
func (s Summary) String() string {
	return fmt.Sprintf("%s: %d tokens in %s", s.Source, s.Tokens, s.Duration.Round(time.Microsecond))
}

// Renderer renders histograms with the configured theme.
type Renderer struct {
	header lipgloss.Style
	cell   lipgloss.Style
	errRow lipgloss.Style
	border lipgloss.Style
	footer lipgloss.Style
}

// NewRenderer builds a renderer from the theme's color tokens.
func NewRenderer(theme config.ThemeConfig) *Renderer {
	return &Renderer{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.HeaderColor)),
		cell:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ValueColor)),
		errRow: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ErrorColor)),
		border: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.BorderColor)),
		footer: lipgloss.NewStyle().Faint(true),
	}
}

// Table renders the histogram as an aligned two-column table with a summary
// footer.
func (r *Renderer) Table(h *Histogram, sum Summary) string {
	rows := h.Rows()

	nameWidth := len("CATEGORY")
	for _, row := range rows {
		if w := len(row.Category.String()); w > nameWidth {
			nameWidth = w
		}
	}

	var sb strings.Builder
	sb.WriteString(r.header.Render(fmt.Sprintf("%-*s  %8s", nameWidth, "CATEGORY", "COUNT")))
	sb.WriteString("\n")
	sb.WriteString(r.border.Render(strings.Repeat("-", nameWidth+10)))
	sb.WriteString("\n")

	for _, row := range rows {
		style := r.cell
		if row.Category.IsError() {
			style = r.errRow
		}
		sb.WriteString(style.Render(fmt.Sprintf("%-*s  %8d", nameWidth, row.Category, row.Count)))
		sb.WriteString("\n")
	}

	sb.WriteString(r.border.Render(strings.Repeat("-", nameWidth+10)))
	sb.WriteString("\n")
	sb.WriteString(r.footer.Render(sum.String()))
	return sb.String()
}

// yamlReport mirrors the table output as a machine-readable document.
type yamlReport struct {
	Source     string         `yaml:"source"`
	Tokens     int            `yaml:"tokens"`
	DurationMs float64        `yaml:"duration_ms"`
	Counts     []yamlCountRow `yaml:"counts"`
}

type yamlCountRow struct {
	Category string `yaml:"category"`
	Count    int    `yaml:"count"`
}

// YAML renders the histogram as a YAML document with rows in canonical
// category order.
func YAML(h *Histogram, sum Summary) (string, error) {
	doc := yamlReport{
		Source:     sum.Source,
		Tokens:     sum.Tokens,
		DurationMs: float64(sum.Duration.Microseconds()) / 1000.0,
	}
	for _, row := range h.Rows() {
		doc.Counts = append(doc.Counts, yamlCountRow{Category: row.Category.String(), Count: row.Count})
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	return string(out), nil
}
