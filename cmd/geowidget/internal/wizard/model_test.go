package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
)

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWizard_CompleteFlow(t *testing.T) {
	m := New(nil)

	m = press(t, m,
		typed("tok-123"), enter, // token
		down, enter, // en
		down, down, down, enter, // parcelSend
		down, enter, // sandbox
	)
	require.Equal(t, StepSummary, m.step)
	assert.Contains(t, m.View(), "parcelSend")
	assert.NotContains(t, m.View(), "tok-123")

	m = press(t, m, enter)
	cfg, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, "tok-123", cfg.Token)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "parcelSend", cfg.Config)
	assert.Equal(t, "sandbox", cfg.Environment)
}

func TestWizard_TokenRequired(t *testing.T) {
	m := press(t, New(nil), enter)
	assert.Equal(t, StepToken, m.step)
	assert.Contains(t, m.View(), "A token is required.")
}

func TestWizard_PrefilledCursor(t *testing.T) {
	initial := config.Default()
	initial.Token = "abc"
	initial.Language = "uk"

	m := press(t, New(initial), enter)
	require.Equal(t, StepLanguage, m.step)
	assert.Equal(t, 2, m.cursor)

	// cursor stays in range
	m = press(t, m, down, down)
	assert.Equal(t, 2, m.cursor)
	m = press(t, m, up, up, up, up)
	assert.Equal(t, 0, m.cursor)
}

func TestWizard_BackAndAbort(t *testing.T) {
	m := press(t, New(nil), typed("abc"), enter, enter)
	require.Equal(t, StepConfig, m.step)

	m = press(t, m, esc)
	assert.Equal(t, StepLanguage, m.step)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	_, ok := next.(Model).Result()
	assert.False(t, ok)
}
