// Package tui provides a Bubble Tea terminal user interface for
// autoeq-fiio: search the AutoEq index, pick a headphone, convert its
// profile and save the FiiO XML.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fiiotools/autoeq-fiio/internal/config"
	"github.com/fiiotools/autoeq-fiio/internal/convert"
	"github.com/fiiotools/autoeq-fiio/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateLoadingIndex State = iota
	StateSearch
	StateSelect
	StateConverting
	StateDone
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   convert.ProgressLevel
}

// entryItem adapts a model.Entry to the bubbles list.
type entryItem struct {
	entry model.Entry
}

func (i entryItem) Title() string       { return i.entry.Name }
func (i entryItem) Description() string { return i.entry.Path }
func (i entryItem) FilterValue() string { return i.entry.Name }

// eventLog collects manager progress events across goroutines; the TUI
// drains it when a background command finishes.
type eventLog struct {
	mu     sync.Mutex
	events []convert.ProgressEvent
}

func (l *eventLog) add(event convert.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) drain() []convert.ProgressEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.events
	l.events = nil
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	list      list.Model

	settings *config.Settings
	manager  *convert.Manager
	events   *eventLog

	logs   []LogEntry
	result *convert.Result
	err    error

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "sennheiser hd 650"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 60, 14)
	l.Title = "Matching headphone profiles"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	ctx, cancel := context.WithCancel(context.Background())

	events := &eventLog{}
	manager := convert.NewManager(settings, events.add)

	return Model{
		state:     StateLoadingIndex,
		textInput: ti,
		spinner:   sp,
		list:      l,
		settings:  settings,
		manager:   manager,
		events:    events,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadIndex())
}

// Message types
type (
	// IndexLoadedMsg is sent when the index fetch completes.
	IndexLoadedMsg struct {
		Err error
	}

	// ConvertDoneMsg is sent when a conversion (and save) finishes.
	ConvertDoneMsg struct {
		Result *convert.Result
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := msg.Height - 10
		if listHeight < 6 {
			listHeight = 6
		}
		m.list.SetSize(msg.Width-4, listHeight)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateSearch:
				return m, tea.Quit
			case StateSelect:
				m.state = StateSearch
				m.textInput.Focus()
				return m, textinput.Blink
			case StateLoadingIndex, StateConverting:
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			switch m.state {
			case StateSearch:
				matches := m.manager.Search(strings.TrimSpace(m.textInput.Value()))
				if len(matches) == 0 {
					m.logs = append(m.logs, LogEntry{
						Message: fmt.Sprintf("No results for %q", m.textInput.Value()),
						Level:   convert.LevelWarning,
					})
					return m, nil
				}
				items := make([]list.Item, len(matches))
				for i, entry := range matches {
					items[i] = entryItem{entry: entry}
				}
				m.list.SetItems(items)
				m.list.ResetSelected()
				m.state = StateSelect
				return m, nil

			case StateSelect:
				item, ok := m.list.SelectedItem().(entryItem)
				if !ok {
					return m, nil
				}
				m.state = StateConverting
				return m, tea.Batch(m.convertEntry(item.entry), m.spinner.Tick)
			}

		case "ctrl+p":
			if m.state == StateSearch {
				m.settings.UsePreampGain = !m.settings.UsePreampGain
			}

		case "q":
			if m.state == StateDone || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateDone || m.state == StateError {
				// Reset for a new conversion; the index stays loaded.
				m.state = StateSearch
				m.logs = nil
				m.result = nil
				m.err = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case IndexLoadedMsg:
		m.appendEvents()
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateSearch
		}

	case ConvertDoneMsg:
		m.appendEvents()
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.result = msg.Result
			m.state = StateDone
		}
	}

	// Update focused components
	switch m.state {
	case StateSearch:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateSelect:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// appendEvents drains collected manager events into the visible log,
// keeping only the most recent entries.
func (m *Model) appendEvents() {
	for _, event := range m.events.drain() {
		if event.Level == convert.LevelVerbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	}
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// loadIndex fetches the AutoEq index in the background.
func (m *Model) loadIndex() tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	return func() tea.Msg {
		return IndexLoadedMsg{Err: manager.LoadIndex(ctx)}
	}
}

// convertEntry converts and saves the selected profile in the background.
func (m *Model) convertEntry(entry model.Entry) tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	return func() tea.Msg {
		result, err := manager.Convert(ctx, entry)
		if err != nil {
			return ConvertDoneMsg{Err: err}
		}
		if err := manager.Save(result); err != nil {
			return ConvertDoneMsg{Err: err}
		}
		return ConvertDoneMsg{Result: result}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎧 AutoEq → FiiO Converter"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Target DSP: %s", m.settings.DSPModel)))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoadingIndex:
		b.WriteString(m.viewLoadingIndex())
	case StateSearch:
		b.WriteString(m.viewSearch())
	case StateSelect:
		b.WriteString(m.list.View())
		b.WriteString("\n")
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateDone:
		b.WriteString(m.viewDone())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewLoadingIndex() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching headphone index..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSearch() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Search headphone profiles:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	preampCheck := "[ ]"
	if m.settings.UsePreampGain {
		preampCheck = "[×]"
	}
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Use preamp as master gain (ctrl+p)\n", preampCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output dir: %s", m.settings.OutputDir)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewConverting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Converting profile..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDone() string {
	var b strings.Builder

	masterGain := "0 (fixed)"
	if m.settings.UsePreampGain {
		masterGain = fmt.Sprintf("%g dB (preamp)", m.result.PreampDb)
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Conversion Complete!\n\n"+
			"Profile: %s\n"+
			"Bands: %d of %d\n"+
			"Master gain: %s\n"+
			"Saved to: %s",
		m.result.Name,
		m.result.EmittedBands,
		m.result.SourceBands,
		masterGain,
		m.result.OutputPath,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case convert.LevelError:
			style = errorStyle
			prefix = "✗"
		case convert.LevelWarning:
			style = warningStyle
			prefix = "!"
		case convert.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case convert.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateLoadingIndex, StateConverting:
		return "esc: cancel"
	case StateSearch:
		return "enter: search • ctrl+p: toggle preamp gain • esc: quit"
	case StateSelect:
		return "↑/↓: move • enter: convert • esc: back"
	case StateDone, StateError:
		return "r: new conversion • q: quit"
	}
	return ""
}

// Run starts the TUI with default settings.
func Run() error {
	return RunWithSettings(config.DefaultSettings())
}

// RunWithSettings starts the TUI with the given settings.
func RunWithSettings(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
