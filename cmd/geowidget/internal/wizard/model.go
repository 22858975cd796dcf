package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
	"github.com/recera/geowidget/pkg/geowidget"
)

// ErrAborted is returned by Run when the user quits the wizard
var ErrAborted = errors.New("wizard aborted")

// Step represents the current step in the init flow
type Step int

const (
	StepToken Step = iota
	StepLanguage
	StepConfig
	StepEnvironment
	StepSummary
	StepDone
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// choice is one option of a list step
type choice struct {
	value string
	help  string
}

var (
	languageChoices = []choice{
		{string(geowidget.LanguagePL), "Polish"},
		{string(geowidget.LanguageEN), "English"},
		{string(geowidget.LanguageUK), "Ukrainian"},
	}
	configChoices = []choice{
		{string(geowidget.ConfigParcelCollect), "pick up parcels"},
		{string(geowidget.ConfigParcelCollectPayment), "pick up with payment on collection"},
		{string(geowidget.ConfigParcelCollect247), "pick up at 24/7 points only"},
		{string(geowidget.ConfigParcelSend), "send parcels"},
	}
	environmentChoices = []choice{
		{string(geowidget.Production), "geowidget.inpost.pl"},
		{string(geowidget.Sandbox), "sandbox SDK"},
	}
)

// Model is the init wizard state
type Model struct {
	step    Step
	token   textinput.Model
	cursor  int
	cfg     config.Config
	errMsg  string
	aborted bool
}

// New creates a wizard prefilled from initial
func New(initial *config.Config) Model {
	if initial == nil {
		initial = config.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "paste your geowidget token"
	ti.CharLimit = 4096
	ti.Width = 48
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.SetValue(initial.Token)
	ti.Focus()

	return Model{
		step:  StepToken,
		token: ti,
		cfg:   *initial,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.step == StepToken {
			var cmd tea.Cmd
			m.token, cmd = m.token.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.Matches(keyMsg, DefaultKeyMap.Quit) {
		m.aborted = true
		return m, tea.Quit
	}

	switch m.step {
	case StepToken:
		return m.updateToken(keyMsg)
	case StepLanguage:
		return m.updateChoice(keyMsg, languageChoices)
	case StepConfig:
		return m.updateChoice(keyMsg, configChoices)
	case StepEnvironment:
		return m.updateChoice(keyMsg, environmentChoices)
	case StepSummary:
		return m.updateSummary(keyMsg)
	}
	return m, nil
}

func (m Model) updateToken(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Enter):
		token := strings.TrimSpace(m.token.Value())
		if token == "" {
			m.errMsg = "A token is required."
			return m, nil
		}
		m.cfg.Token = token
		m.errMsg = ""
		m.token.Blur()
		m.enter(StepLanguage)
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Back):
		m.aborted = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.token, cmd = m.token.Update(msg)
	return m, cmd
}

func (m Model) updateChoice(msg tea.KeyMsg, choices []choice) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Enter):
		m.choose(choices[m.cursor].value)
		m.enter(m.step + 1)
	case key.Matches(msg, DefaultKeyMap.Back):
		m.enter(m.step - 1)
	}
	return m, nil
}

func (m Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Enter):
		if err := m.cfg.Validate(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.step = StepDone
		return m, tea.Quit
	case key.Matches(msg, DefaultKeyMap.Back):
		m.enter(StepEnvironment)
	}
	return m, nil
}

// choose stores the value picked on the current step
func (m *Model) choose(value string) {
	switch m.step {
	case StepLanguage:
		m.cfg.Language = value
	case StepConfig:
		m.cfg.Config = value
	case StepEnvironment:
		m.cfg.Environment = value
	}
}

// enter switches to step and places the cursor on the current value
func (m *Model) enter(step Step) {
	m.step = step
	m.cursor = 0

	var choices []choice
	var current string
	switch step {
	case StepToken:
		m.token.Focus()
		return
	case StepLanguage:
		choices, current = languageChoices, m.cfg.Language
	case StepConfig:
		choices, current = configChoices, m.cfg.Config
	case StepEnvironment:
		choices, current = environmentChoices, m.cfg.Environment
	default:
		return
	}
	for i, c := range choices {
		if c.value == current {
			m.cursor = i
		}
	}
}

// View renders the current step
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("geowidget init"))
	b.WriteString("\n")

	switch m.step {
	case StepToken:
		b.WriteString("Widget token\n\n")
		b.WriteString(m.token.View())
		b.WriteString("\n")
	case StepLanguage:
		b.WriteString(renderChoices("Language", languageChoices, m.cursor))
	case StepConfig:
		b.WriteString(renderChoices("Widget mode", configChoices, m.cursor))
	case StepEnvironment:
		b.WriteString(renderChoices("Assets", environmentChoices, m.cursor))
	case StepSummary:
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"language     %s\nconfig       %s\nenvironment  %s\ntoken        %s",
			m.cfg.Language, m.cfg.Config, m.cfg.Environment, mask(m.cfg.Token))))
		b.WriteString("\n\nPress enter to write the configuration.\n")
	case StepDone:
		return ""
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter confirm • esc back • ctrl+c quit"))
	return b.String()
}

func renderChoices(title string, choices []choice, cursor int) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for i, c := range choices {
		line := fmt.Sprintf("%-22s %s", c.value, dimStyle.Render(c.help))
		if i == cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("•", len(token))
	}
	return strings.Repeat("•", len(token)-4) + token[len(token)-4:]
}

// Result returns the collected configuration once the wizard completed
func (m Model) Result() (*config.Config, bool) {
	if m.step != StepDone || m.aborted {
		return nil, false
	}
	cfg := m.cfg
	return &cfg, true
}

// Run shows the wizard on the terminal
func Run(initial *config.Config) (*config.Config, error) {
	final, err := tea.NewProgram(New(initial)).Run()
	if err != nil {
		return nil, fmt.Errorf("run wizard: %w", err)
	}
	cfg, ok := final.(Model).Result()
	if !ok {
		return nil, ErrAborted
	}
	return cfg, nil
}
