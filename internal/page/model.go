// Package page is the interactive todo page: a form to create or edit a todo
// and the list the remote service returned. State lives in Model and is only
// changed by Update; requests run as tea.Cmds and report back as messages,
// applied in whatever order they arrive.
package page

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

type focusArea int

const (
	focusTitle focusArea = iota
	focusContent
	focusList
)

// editSource is the todo under edit as stored and as the widgets hold it.
// The widgets rewrite tabs and newlines, so a field left untouched submits
// the stored text.
type editSource struct {
	title, content           string
	shownTitle, shownContent string
}

type Model struct {
	svc     Service
	baseURL string

	todos   []model.Todo
	loading bool
	err     string
	mode    FormMode

	title   textinput.Model
	content textarea.Model
	list    list.Model
	focus   focusArea

	// pending delete, the confirmation popup is open while non-nil
	confirmID *int
	// set while editing
	orig *editSource

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New builds the page. baseURL is only shown in the header.
// The first list fetch starts with Init.
func New(svc Service, baseURL string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Title"
	ti.CharLimit = 0 // unlimited

	ta := textarea.New()
	ta.Placeholder = "Content"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(4)

	l := list.New(nil, todoDelegate{}, 76, 10)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	return Model{
		svc:     svc,
		baseURL: baseURL,
		todos:   []model.Todo{},
		loading: true,
		mode:    CreateMode{},
		title:   ti,
		content: ta,
		list:    l,
		focus:   focusList,
		keys:    defaultKeys(),
		help:    help.New(),
	}
}

// State returns a snapshot of the page.
func (m Model) State() State {
	title, content := m.formValues()
	return State{
		Todos:   m.todos,
		Loading: m.loading,
		Err:     m.err,
		Title:   title,
		Content: content,
		Mode:    m.mode,
	}
}

// formValues returns what a submit would send.
func (m Model) formValues() (title, content string) {
	title, content = m.title.Value(), m.content.Value()
	if o := m.orig; o != nil {
		if title == o.shownTitle {
			title = o.title
		}
		if content == o.shownContent {
			content = o.content
		}
	}
	return title, content
}

// Confirming reports whether the delete confirmation is open.
func (m Model) Confirming() bool { return m.confirmID != nil }

// Init fetches the list once.
func (m Model) Init() tea.Cmd {
	return fetchTodos(m.svc)
}

// Reload starts a list fetch: loading on, error cleared.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	m.err = ""
	return fetchTodos(m.svc)
}

// Submit validates the form and sends Create or Update depending on the mode.
// Invalid input sets the error and sends nothing.
func (m *Model) Submit() tea.Cmd {
	title, content := m.formValues()
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		m.err = msgRequired
		return nil
	}
	m.err = ""
	return saveTodo(m.svc, m.mode, model.TodoInput{Title: title, Content: content})
}

// Edit switches the form to edit td. Todos without an id are ignored.
func (m *Model) Edit(td model.Todo) {
	if td.ID == nil {
		return
	}
	m.mode = EditingMode{ID: *td.ID}
	m.title.SetValue(td.Title)
	m.content.SetValue(td.Content)
	m.orig = &editSource{
		title:        td.Title,
		content:      td.Content,
		shownTitle:   m.title.Value(),
		shownContent: m.content.Value(),
	}
}

// Cancel returns the form to create mode.
func (m *Model) Cancel() {
	m.mode = CreateMode{}
	m.orig = nil
	m.title.Reset()
	m.content.Reset()
}

// RequestDelete opens the confirmation for id. A nil id does nothing.
func (m *Model) RequestDelete(id *int) {
	if id == nil {
		return
	}
	v := *id
	m.confirmID = &v
}

// ConfirmDelete answers the open confirmation. Only a yes sends a request.
func (m *Model) ConfirmDelete(yes bool) tea.Cmd {
	id := m.confirmID
	m.confirmID = nil
	if !yes || id == nil {
		return nil
	}
	m.err = ""
	return deleteTodo(m.svc, *id)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case todosLoadedMsg:
		cmd := m.applyLoaded(msg)
		return m, cmd

	case savedMsg:
		if msg.err != nil {
			m.err = errorText(msg.err, fallbackSubmit)
			return m, nil
		}
		m.Cancel()
		cmd := m.Reload()
		return m, cmd

	case deletedMsg:
		if msg.err != nil {
			m.err = errorText(msg.err, fallbackDelete)
			return m, nil
		}
		cmd := m.Reload()
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.confirmID != nil {
			return m.handleConfirmKeys(msg)
		}
		if m.focus == focusList {
			return m.handleListKeys(msg)
		}
		return m.handleFormKeys(msg)
	}

	// cursor blinks and the like
	return m.updateFocused(msg)
}

func (m *Model) applyLoaded(msg todosLoadedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.err = errorText(msg.err, fallbackLoad)
		return nil
	}
	m.todos = msg.todos
	if m.todos == nil {
		m.todos = []model.Todo{}
	}
	cmd := m.list.SetItems(toItems(m.todos))
	if n := len(m.todos); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.ConfirmDelete(true)
		return m, cmd
	case key.Matches(msg, m.keys.Decline):
		m.ConfirmDelete(false)
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.NextField):
		cmd := m.focusOn(focusTitle)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.focusOn(focusContent)
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.list.SelectedItem().(listItem); ok && it.todo.ID != nil {
			m.Edit(it.todo)
			cmd := m.focusOn(focusTitle)
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.list.SelectedItem().(listItem); ok {
			m.RequestDelete(it.todo.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		cmd := m.Reload()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		cmd := m.Submit()
		return m, cmd
	case key.Matches(msg, m.keys.NextField):
		cmd := m.focusOn((m.focus + 1) % 3)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.focusOn((m.focus + 2) % 3)
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		if _, editing := m.mode.(EditingMode); editing {
			m.Cancel()
		}
		cmd := m.focusOn(focusList)
		return m, cmd
	case m.focus == focusTitle && key.Matches(msg, m.keys.NextLine):
		cmd := m.focusOn(focusContent)
		return m, cmd
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusContent:
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

// focusOn moves keyboard focus and returns the widget's cursor command.
func (m *Model) focusOn(f focusArea) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.content.Blur()
	switch f {
	case focusTitle:
		return m.title.Focus()
	case focusContent:
		return m.content.Focus()
	}
	return nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.title.Width = max(w-10, 10)
	m.content.SetWidth(max(w-6, 10))
	m.help.Width = w
	m.fitList()
}
