package browser

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/githubgphl/startools/internal/config"
	"github.com/githubgphl/startools/internal/star"
)

func sampleTokens(t *testing.T) []star.Token {
	t.Helper()
	toks, err := star.Tokenize("data_x\nloop_\n_a _b\n1 2\nloop_y\n")
	require.NoError(t, err)
	return toks
}

func newTestModel(t *testing.T) Model {
	return New("sample.cif", sampleTokens(t), config.Defaults().Theme)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowser_ViewListsTokens(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "sample.cif - 7 tokens")
	assert.Contains(t, view, "DATA_BLOCK")
	assert.Contains(t, view, "BAD_CONSTRUCT")
	assert.Contains(t, view, "token 1/7")
}

func TestBrowser_CursorMovement(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	// Up at the top stays put.
	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	updated, _ = m.Update(keyMsg("G"))
	m = updated.(Model)
	assert.Equal(t, 6, m.cursor)

	// Down at the bottom stays put.
	updated, _ = m.Update(keyMsg("j"))
	m = updated.(Model)
	assert.Equal(t, 6, m.cursor)

	updated, _ = m.Update(keyMsg("g"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestBrowser_JumpToNextBad(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("b"))
	m = updated.(Model)
	assert.Equal(t, star.BadConstruct, m.tokens[m.cursor].Category)

	// Wraps around to the same single bad token.
	bad := m.cursor
	updated, _ = m.Update(keyMsg("b"))
	m = updated.(Model)
	assert.Equal(t, bad, m.cursor)
}

func TestBrowser_QuitKeys(t *testing.T) {
	m := newTestModel(t)

	for _, msg := range []tea.KeyMsg{keyMsg("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd, "expected quit command for %v", msg)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestBrowser_WindowSizeScrolls(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 8})
	m = updated.(Model)

	updated, _ = m.Update(keyMsg("G"))
	m = updated.(Model)

	// The cursor row must be inside the visible window.
	assert.GreaterOrEqual(t, m.cursor, m.offset)
	assert.Less(t, m.cursor, m.offset+m.pageSize())

	view := m.View()
	assert.Contains(t, view, "token 7/7")
}

func TestBrowser_EmptyTokens(t *testing.T) {
	m := New("empty.cif", nil, config.Defaults().Theme)

	view := m.View()
	assert.Contains(t, view, "no tokens")

	updated, _ := m.Update(keyMsg("b"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestBrowser_MultilineLexemeEscaped(t *testing.T) {
	toks, err := star.Tokenize(";line one\nline two\n;\n")
	require.NoError(t, err)
	m := New("field.cif", toks, config.Defaults().Theme)

	view := m.View()
	assert.Contains(t, view, "\\n")
	assert.NotContains(t, view, "line one\nline two")
}
