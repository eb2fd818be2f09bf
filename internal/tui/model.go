// Package tui is the interactive presentation layer: a bubbletea program
// that drives a TaskStore and redraws from its filtered view and stats
// after every mutation.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rogersnm/todo/internal/markdown"
	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/sanitize"
	"github.com/rogersnm/todo/internal/store"
)

type focus int

const (
	focusInput focus = iota
	focusList
	focusEdit
	focusConfirmClear
)

const (
	// statusFadeDelay is how long feedback stays in the status line.
	statusFadeDelay = 2 * time.Second
	// tooltipFadeDelay is how long editing instructions stay visible.
	tooltipFadeDelay = 3 * time.Second
)

type statusFadeMsg struct{ seq int }

type tooltipFadeMsg struct{ seq int }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	doneTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tooltipStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	confirmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	inputBorder   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))
	inputRejected = inputBorder.BorderForeground(lipgloss.Color("9"))
)

// Model is the bubbletea model. The store is injected; the model never
// reaches the collection except through store methods.
type Model struct {
	store *store.TaskStore
	keys  KeyMap

	input  textinput.Model
	editor textarea.Model
	focus  focus

	visible []model.Task
	cursor  int

	status     string
	statusErr  bool
	statusSeq  int
	rejected   bool
	tooltip    bool
	tooltipSeq int

	confirmClear bool

	width int
}

type Option func(*Model)

// WithConfirmClear controls whether clearing all tasks asks first.
// Confirmation is on by default.
func WithConfirmClear(confirm bool) Option {
	return func(m *Model) { m.confirmClear = confirm }
}

func New(s *store.TaskStore, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	// Task text has no length limit.
	ti.CharLimit = 0
	ti.Width = 50
	ti.Focus()

	ta := textarea.New()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(60)
	ta.SetHeight(4)

	m := Model{
		store:  s,
		keys:   DefaultKeyMap,
		input:  ti,
		editor: ta,
		focus:  focusInput,

		confirmClear: true,
	}
	for _, o := range opts {
		o(&m)
	}
	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits or ctx is
// cancelled. Cancellation is a normal exit.
func Run(ctx context.Context, s *store.TaskStore, opts ...Option) error {
	p := tea.NewProgram(New(s, opts...), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, min(msg.Width-6, 80))
		m.editor.SetWidth(max(20, min(msg.Width-8, 80)))
		return m, nil

	case statusFadeMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
			m.rejected = false
		}
		return m, nil

	case tooltipFadeMsg:
		if msg.seq == m.tooltipSeq {
			m.tooltip = false
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.focus {
		case focusInput:
			return m.updateInput(msg)
		case focusEdit:
			return m.updateEdit(msg)
		case focusConfirmClear:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	case focusEdit:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		t, err := m.store.Add(m.input.Value())
		if errors.Is(err, store.ErrEmptyText) {
			m.rejected = true
			return m, m.flash("Task text is required", true)
		}
		if err != nil {
			return m, m.flash(err.Error(), true)
		}
		// Keep focus on the input so additions can be chained.
		m.input.Reset()
		m.refresh()
		m.selectID(t.ID)
		return m, m.flash("Added task", false)

	case key.Matches(msg, m.keys.LeaveInput):
		m.input.Blur()
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, err := m.store.Toggle(t.ID); err != nil {
			return m, m.flash(err.Error(), true)
		}
		m.refresh()

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.startEdit(t)

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Delete(t.ID); err != nil {
			return m, m.flash(err.Error(), true)
		}
		m.refresh()
		return m, m.flash("Deleted task", false)

	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.FilterPending):
		m.setFilter(model.FilterPending)
	case key.Matches(msg, m.keys.FilterNext):
		m.setFilter(m.store.Filter().Next())

	case key.Matches(msg, m.keys.ClearAll):
		// Nothing to clear means nothing to confirm.
		if m.store.Len() == 0 {
			return m, nil
		}
		if !m.confirmClear {
			return m.clearAll()
		}
		m.focus = focusConfirmClear

	case key.Matches(msg, m.keys.FocusInput):
		m.focus = focusInput
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SaveEdit), key.Matches(msg, m.keys.BlurEdit):
		return m.saveEdit()
	case key.Matches(msg, m.keys.CancelEdit):
		m.store.CancelEdit()
		m.leaveEdit()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.focus = focusList
		return m.clearAll()
	case key.Matches(msg, m.keys.Decline):
		m.focus = focusList
	}
	return m, nil
}

// clearAll runs once the user has approved, or when approval is off.
func (m Model) clearAll() (tea.Model, tea.Cmd) {
	cleared, err := m.store.ClearAll(nil)
	if err != nil {
		return m, m.flash(err.Error(), true)
	}
	m.refresh()
	if cleared {
		return m, m.flash("Cleared all tasks", false)
	}
	return m, nil
}

// startEdit opens the edit session. Any session already open on another
// task is dropped without saving.
func (m Model) startEdit(t model.Task) (tea.Model, tea.Cmd) {
	m.store.StartEdit(t.ID)
	m.editor.SetValue(t.Text)
	m.focus = focusEdit
	m.tooltip = true
	m.tooltipSeq++
	seq := m.tooltipSeq
	fade := tea.Tick(tooltipFadeDelay, func(time.Time) tea.Msg { return tooltipFadeMsg{seq: seq} })
	return m, tea.Batch(m.editor.Focus(), fade)
}

func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	editID, ok := m.store.Editing()
	if !ok {
		m.leaveEdit()
		return m, nil
	}
	_, err := m.store.SaveEdit(editID, sanitize.Markup(m.editor.Value()))
	switch {
	case err == nil:
		m.leaveEdit()
		return m, m.flash("Saved", false)
	case errors.Is(err, store.ErrEmptyText), errors.Is(err, store.ErrNotFound):
		m.leaveEdit()
		return m, m.flash("Edit discarded", false)
	default:
		// The write failed; keep the session so the user can retry.
		return m, m.flash(err.Error(), true)
	}
}

func (m *Model) leaveEdit() {
	m.editor.Blur()
	m.editor.Reset()
	m.tooltip = false
	m.focus = focusList
	m.refresh()
}

func (m *Model) setFilter(f model.Filter) {
	m.store.SetFilter(f)
	m.refresh()
}

// refresh re-reads the filtered view and keeps the cursor in range.
func (m *Model) refresh() {
	m.visible = slices.Collect(m.store.FilteredView())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectID(taskID int64) {
	for i, t := range m.visible {
		if t.ID == taskID {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (model.Task, bool) {
	if len(m.visible) == 0 {
		return model.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) flash(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg { return statusFadeMsg{seq: seq} })
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Todo"))
	sb.WriteString("  ")
	sb.WriteString(markdown.RenderStats(m.store.Stats()))
	sb.WriteString("\n\n")

	box := inputBorder
	if m.rejected {
		box = inputRejected
	}
	sb.WriteString(box.Render(m.input.View()))
	sb.WriteString("\n")

	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	sb.WriteString(m.renderList())
	sb.WriteString("\n")

	if m.tooltip {
		sb.WriteString(tooltipStyle.Render(strings.Join([]string{
			"Press enter for new line",
			"Press ctrl+s to save",
			"Press esc to cancel",
		}, "\n")))
		sb.WriteString("\n")
	}

	if m.focus == focusConfirmClear {
		sb.WriteString(confirmStyle.Render("Are you sure you want to clear all tasks? (y/n)"))
		sb.WriteString("\n")
	} else if m.status != "" {
		style := infoStyle
		if m.statusErr {
			style = errorStyle
		}
		sb.WriteString(style.Render(m.status))
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render(m.helpLine()))
	return sb.String()
}

func (m Model) renderTabs() string {
	current := m.store.Filter()
	var tabs []string
	for i, f := range model.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == current {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderList() string {
	if len(m.visible) == 0 {
		return markdown.RenderEmptyState(m.store.Filter()) + "\n"
	}
	editID, editing := m.store.Editing()

	var sb strings.Builder
	for i, t := range m.visible {
		pointer := "  "
		if i == m.cursor && m.focus != focusInput {
			pointer = cursorStyle.Render("> ")
		}
		if editing && t.ID == editID {
			sb.WriteString(pointer + markdown.Checkbox(t.Completed) + "\n")
			sb.WriteString(m.editor.View() + "\n")
			continue
		}
		lines := strings.Split(t.Text, "\n")
		for j, line := range lines {
			if t.Completed {
				line = doneTextStyle.Render(line)
			}
			if j == 0 {
				sb.WriteString(pointer + markdown.Checkbox(t.Completed) + " " + line + "\n")
			} else {
				sb.WriteString("      " + line + "\n")
			}
		}
	}
	return sb.String()
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	switch m.focus {
	case focusInput:
		bindings = []key.Binding{m.keys.Submit, m.keys.LeaveInput}
	case focusEdit:
		bindings = []key.Binding{m.keys.SaveEdit, m.keys.BlurEdit, m.keys.CancelEdit}
	case focusConfirmClear:
		bindings = []key.Binding{m.keys.Confirm, m.keys.Decline}
	default:
		bindings = []key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Edit, m.keys.Delete,
			m.keys.FocusInput, m.keys.FilterNext,
		}
		// Clearing is only offered when there is something to clear.
		if m.store.Len() > 0 {
			bindings = append(bindings, m.keys.ClearAll)
		}
		bindings = append(bindings, m.keys.Quit)
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
