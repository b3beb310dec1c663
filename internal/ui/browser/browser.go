// Package browser provides an interactive token browser for one tokenized
// STAR source. Tokens are listed with category, position and lexeme, with
// the cursor row expanded in full.
package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/githubgphl/startools/internal/config"
	"github.com/githubgphl/startools/internal/log"
	"github.com/githubgphl/startools/internal/star"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	chromeLines   = 4 // title, header, footer, status
)

// keyMap defines the browser key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextBad  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup")),
		PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown")),
		Top:      key.NewBinding(key.WithKeys("g", "home")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end")),
		NextBad:  key.NewBinding(key.WithKeys("b")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

// Model is the token browser state.
type Model struct {
	source string
	tokens []star.Token
	cursor int
	offset int
	width  int
	height int
	keys   keyMap
	styles styles
}

// New creates a browser over an already tokenized source.
func New(source string, tokens []star.Token, theme config.ThemeConfig) Model {
	return Model{
		source: source,
		tokens: tokens,
		width:  defaultWidth,
		height: defaultHeight,
		keys:   defaultKeyMap(),
		styles: newStyles(theme),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.PageUp):
			m.moveCursor(-m.pageSize())
		case key.Matches(msg, m.keys.PageDown):
			m.moveCursor(m.pageSize())
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
			m.clampOffset()
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = len(m.tokens) - 1
			m.clampOffset()
		case key.Matches(msg, m.keys.NextBad):
			m.jumpToNextBad()
		}

	case tea.WindowSizeMsg:
		log.Debug(log.CatUI, "browser resized", "width", msg.Width, "height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.tokens) {
		m.cursor = len(m.tokens) - 1
	}
	m.clampOffset()
}

// jumpToNextBad advances the cursor to the next error-category token,
// wrapping around once.
func (m *Model) jumpToNextBad() {
	n := len(m.tokens)
	if n == 0 {
		return
	}
	for i := 1; i <= n; i++ {
		idx := (m.cursor + i) % n
		if m.tokens[idx].Category.IsError() {
			m.cursor = idx
			m.clampOffset()
			return
		}
	}
}

func (m *Model) pageSize() int {
	size := m.height - chromeLines
	if size < 1 {
		size = 1
	}
	return size
}

// clampOffset keeps the cursor inside the visible window.
func (m *Model) clampOffset() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the browser.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.title.Render(fmt.Sprintf("%s - %d tokens", m.source, len(m.tokens))))
	sb.WriteString("\n")
	sb.WriteString(m.styles.header.Render(fmt.Sprintf("%-15s %8s  %s", "CATEGORY", "POS", "LEXEME")))
	sb.WriteString("\n")

	if len(m.tokens) == 0 {
		sb.WriteString(m.styles.footer.Render("no tokens"))
		return sb.String()
	}

	page := m.pageSize()
	end := m.offset + page
	if end > len(m.tokens) {
		end = len(m.tokens)
	}

	lexWidth := m.width - 27
	if lexWidth < 10 {
		lexWidth = 10
	}

	for i := m.offset; i < end; i++ {
		tok := m.tokens[i]
		lexeme := strings.ReplaceAll(tok.Lexeme, "\n", "\\n")
		lexeme = truncate.StringWithTail(lexeme, uint(lexWidth), "…")

		line := fmt.Sprintf("%-15s %8s  %s", tok.Category, tok.Span.Start, lexeme)
		if i == m.cursor {
			sb.WriteString(m.styles.cursor.Render(line))
		} else {
			sb.WriteString(m.styles.categoryStyle(tok.Category).Render(line))
		}
		sb.WriteString("\n")
	}

	cur := m.tokens[m.cursor]
	sb.WriteString(m.styles.position.Render(
		fmt.Sprintf("token %d/%d  span %s-%s  %d runes",
			m.cursor+1, len(m.tokens), cur.Span.Start, cur.Span.End, cur.Span.Len())))
	sb.WriteString("\n")
	sb.WriteString(m.styles.footer.Render("j/k move - ctrl+d/ctrl+u page - g/G ends - b next bad - q quit"))

	return sb.String()
}
