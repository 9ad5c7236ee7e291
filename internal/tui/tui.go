package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/duedate"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todostore"
)

// stateMsg tells the model the store changed; the model re-reads the snapshot.
type stateMsg struct{}

// opDoneMsg reports the end of one store operation.
type opDoneMsg struct {
	op  string
	err error
}

// listItem adapts a todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) FilterValue() string { return i.todo.Name }

// Draft form fields, in tab order.
const (
	fieldName = iota
	fieldDescription
	fieldDue
	fieldCount
)

// Model is the Bubble Tea model for the interactive todo list.
type Model struct {
	ctx   context.Context
	store *todostore.Store
	keys  keyMap
	now   func() time.Time

	list  list.Model
	state todostore.State

	// Inline draft form
	adding     bool
	submitting bool
	inputs     [fieldCount]textinput.Model
	focus      int
	dueErr     string

	width, height int
}

// Custom delegate: first line is the checkbox and name, second the details.
type itemDelegate struct {
	now func() time.Time
}

func (d itemDelegate) Height() int                         { return 2 }
func (d itemDelegate) Spacing() int                        { return 1 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	td := it.todo

	box := mutedStyle.Render(boxUnchecked)
	name := td.Name
	status := pendingStyle.Render("Pending")
	if td.Status {
		box = successStyle.Render(boxChecked)
		name = doneStyle.Render(name)
		status = successStyle.Render("Completed")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}

	details := []string{status}
	if td.Description != "" {
		details = append(details, mutedStyle.Render(td.Description))
	}
	if due := duedate.Format(td); due != "" {
		style := mutedStyle
		if duedate.Overdue(td, d.now()) {
			style = overdueStyle
		}
		details = append(details, style.Render("Due "+due))
	}

	fmt.Fprintf(w, "%s%s %s\n", prefix, box, name)
	fmt.Fprintf(w, "    %s", strings.Join(details, mutedStyle.Render(" · ")))
}

// New builds the model over store. Operations run under ctx.
func New(ctx context.Context, store *todostore.Store) Model {
	keys := defaultKeyMap()
	now := time.Now

	l := list.New(nil, itemDelegate{now: now}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = keys.listKeys
	l.AdditionalFullHelpKeys = keys.listKeys

	m := Model{
		ctx:    ctx,
		store:  store,
		keys:   keys,
		now:    now,
		list:   l,
		width:  80,
		height: 24,
	}

	placeholders := [fieldCount]string{"Task Name", "Task Description", "Due Date (YYYY-MM-DD, tomorrow, ...)"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		m.inputs[i] = ti
	}

	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, store *todostore.Store) error {
	p := tea.NewProgram(New(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the event loop reads it, and writes can come from Update itself.
	unsubscribe := store.Subscribe(func(todostore.State) {
		go p.Send(stateMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

// Init loads the collection on start.
func (m Model) Init() tea.Cmd {
	return m.run("load", m.store.LoadAll)
}

// run wraps a store operation as a command. Errors are already logged by the
// store; the UI shows nothing beyond the absent change.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// refresh copies the store snapshot into the list.
func (m *Model) refresh() tea.Cmd {
	m.state = m.store.Snapshot()

	items := make([]list.Item, 0, len(m.state.Items))
	for _, td := range m.state.Items {
		items = append(items, listItem{todo: td})
	}
	idx := m.list.Index()
	cmd := m.list.SetItems(items)
	if n := len(items); n > 0 && idx >= n {
		m.list.Select(n - 1)
	}

	done, pending := model.Stats(m.state.Items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todo List",
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(m.state.Items),
	)
	if !m.state.Draft.IsEmpty() {
		m.list.Title += mutedStyle.Render("  (draft saved, a to resume)")
	}
	return cmd
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case stateMsg:
		return m, m.refresh()

	case opDoneMsg:
		cmd := m.refresh()
		if msg.op == "create" {
			m.submitting = false
			if msg.err == nil {
				m.closeForm()
			}
		}
		return m, cmd
	}

	if m.adding {
		return m.updateForm(msg)
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(kmsg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(kmsg, m.keys.Toggle):
			td, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.run("update", func(ctx context.Context) error {
				return m.store.ToggleStatus(ctx, td.ID, td.Status)
			})
		case key.Matches(kmsg, m.keys.Delete):
			td, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.run("delete", func(ctx context.Context) error {
				return m.store.Remove(ctx, td.ID)
			})
		case key.Matches(kmsg, m.keys.Reload):
			return m, m.run("load", m.store.LoadAll)
		case key.Matches(kmsg, m.keys.Add):
			return m, m.openForm()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) openForm() tea.Cmd {
	d := m.store.Draft()
	m.inputs[fieldName].SetValue(d.Name)
	m.inputs[fieldDescription].SetValue(d.Description)
	m.inputs[fieldDue].SetValue(d.DueDate)
	m.adding = true
	m.dueErr = ""
	return m.setFocus(fieldName)
}

func (m *Model) closeForm() {
	m.adding = false
	m.dueErr = ""
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m Model) draftFromInputs() model.Draft {
	return model.Draft{
		Name:        m.inputs[fieldName].Value(),
		Description: m.inputs[fieldDescription].Value(),
		DueDate:     m.inputs[fieldDue].Value(),
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(kmsg, m.keys.Cancel):
			// Keep what was typed as the pending draft.
			m.store.SetDraft(m.draftFromInputs())
			m.closeForm()
			return m, m.refresh()
		case key.Matches(kmsg, m.keys.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(kmsg, m.keys.Prev):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(kmsg, m.keys.Submit):
			if m.focus < fieldDue {
				return m, m.setFocus(m.focus + 1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit hands the draft to the store as typed; the server is the validator.
// Natural-language due dates are resolved first.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	d := m.draftFromInputs()
	due, err := duedate.Parse(d.DueDate, m.now())
	if err != nil {
		m.dueErr = "unrecognised date"
		return m, m.setFocus(fieldDue)
	}
	d.DueDate = due
	m.dueErr = ""
	m.inputs[fieldDue].SetValue(due)

	m.store.SetDraft(d)
	m.submitting = true
	return m, m.run("create", m.store.SubmitDraft)
}

// View implements tea.Model.
func (m Model) View() string {
	formHeight := 0
	if m.adding {
		formHeight = fieldCount + 3
	}
	m.list.SetSize(m.width-4, max(m.height-4-formHeight, 3))

	var b strings.Builder
	switch {
	case m.state.Loading:
		b.WriteString(mutedStyle.Render("Loading...") + "\n")
	case len(m.state.Items) == 0:
		b.WriteString(mutedStyle.Render("No tasks available") + "\n")
	}
	b.WriteString(m.list.View())

	if m.adding {
		b.WriteString("\n" + panelStyle.Render(m.formView()))
	}
	return panelStyle.Render(b.String())
}

func (m Model) formView() string {
	labels := [fieldCount]string{"Name", "Description", "Due date"}
	title := titleStyle.Render("Create New Task")
	if m.submitting {
		title += mutedStyle.Render("  saving...")
	}
	lines := []string{title}
	for i, in := range m.inputs {
		line := labelStyle.Render(labels[i]) + in.View()
		if i == fieldDue && m.dueErr != "" {
			line += " " + overdueStyle.Render(m.dueErr)
		}
		lines = append(lines, line)
	}
	lines = append(lines, helpStyle.Render("tab next · enter create · esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
