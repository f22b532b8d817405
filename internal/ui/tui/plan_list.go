package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/searchsync/searchsync/internal/sync"
)

// PlanAction represents the decision taken in the plan preview.
type PlanAction int

const (
	// PlanActionNone means the user quit without deciding.
	PlanActionNone PlanAction = iota
	// PlanActionApply means the user confirmed the import plan.
	PlanActionApply
)

// PlanListResult contains the result of the plan preview interaction.
type PlanListResult struct {
	Action PlanAction
}

// planListKeyMap defines the key bindings for the plan preview.
type planListKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultPlanListKeyMap() planListKeyMap {
	return planListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "apply import"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// Styles for the plan preview TUI.
var planListStyles = struct {
	Title   lipgloss.Style
	Help    lipgloss.Style
	Status  lipgloss.Style
	Confirm lipgloss.Style
	Add     lipgloss.Style
	Skip    lipgloss.Style
	Reject  lipgloss.Style
	Clear   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	Confirm: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Padding(1, 2),
	Add:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Skip:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Reject:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Clear:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// PlanListModel is the BubbleTea model for the import plan preview. It
// renders the dry-run result of an import and asks the user to confirm
// before anything is applied.
type PlanListModel struct {
	table    table.Model
	preview  *sync.ImportResult
	keys     planListKeyMap
	result   PlanListResult
	showHelp bool
	quitting bool
	width    int
	height   int
}

// NewPlanListModel creates a plan preview from a dry-run import result.
func NewPlanListModel(preview *sync.ImportResult) PlanListModel {
	columns := []table.Column{
		{Title: "Action", Width: 8},
		{Title: "Engine", Width: 30},
		{Title: "Note", Width: 40},
	}

	rows := make([]table.Row, 0, len(preview.Plan))
	for _, step := range preview.Plan {
		rows = append(rows, table.Row{actionLabel(step.Action), step.Name, step.Note})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("6"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("2")).Bold(true)
	t.SetStyles(styles)

	return PlanListModel{
		table:   t,
		preview: preview,
		keys:    defaultPlanListKeyMap(),
	}
}

// Result returns the user's decision.
func (m PlanListModel) Result() PlanListResult {
	return m.result
}

// Init implements tea.Model.
func (m PlanListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PlanListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.result.Action = PlanActionNone
			return m, tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			m.quitting = true
			m.result.Action = PlanActionApply
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PlanListModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(planListStyles.Title.Render("Import Plan"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	b.WriteString(planListStyles.Status.Render(fmt.Sprintf(
		"%d to add, %d warning(s), %d error(s), mode: %s",
		m.preview.Imported.Engines,
		len(m.preview.Warnings),
		len(m.preview.Errors),
		m.preview.Mode,
	)))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.helpView())
	}

	b.WriteString(planListStyles.Confirm.Render("Apply this plan? (y to apply, q to cancel)"))
	b.WriteString("\n")

	return b.String()
}

func (m PlanListModel) helpView() string {
	keys := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Confirm, m.keys.Quit}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k.Help().Key, k.Help().Desc))
	}
	return planListStyles.Help.Render(strings.Join(parts, " • ")) + "\n"
}

func actionLabel(a sync.PlanAction) string {
	switch a {
	case sync.ActionAdd:
		return planListStyles.Add.Render("add")
	case sync.ActionSkip:
		return planListStyles.Skip.Render("skip")
	case sync.ActionReject:
		return planListStyles.Reject.Render("reject")
	case sync.ActionClear:
		return planListStyles.Clear.Render("clear")
	default:
		return string(a)
	}
}
