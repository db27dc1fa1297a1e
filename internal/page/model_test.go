package page

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/apitest"
	"github.com/Makepad-fr/tada/internal/model"
)

// fakeService records calls and answers from its fields.
type fakeService struct {
	mu        sync.Mutex
	todos     []model.Todo
	nextID    int
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	calls     []string
}

func newFake(todos ...model.Todo) *fakeService {
	return &fakeService{todos: append([]model.Todo(nil), todos...), nextID: 100}
}

func (f *fakeService) List(ctx context.Context) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Todo{}, f.todos...), nil
}

func (f *fakeService) Create(ctx context.Context, in model.TodoInput) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create "+in.Title)
	if f.createErr != nil {
		return model.Todo{}, f.createErr
	}
	td := model.Todo{ID: model.IntPtr(f.nextID), Title: in.Title, Content: in.Content}
	f.nextID++
	f.todos = append(f.todos, td)
	return td, nil
}

func (f *fakeService) Update(ctx context.Context, id int, in model.TodoInput) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("update %d %s", id, in.Title))
	if f.updateErr != nil {
		return model.Todo{}, f.updateErr
	}
	for i := range f.todos {
		if *f.todos[i].ID == id {
			f.todos[i].Title, f.todos[i].Content = in.Title, in.Content
			return f.todos[i], nil
		}
	}
	return model.Todo{}, &api.RequestError{Op: "update", Message: api.MsgUpdate, StatusCode: 404}
}

func (f *fakeService) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("delete %d", id))
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.todos {
		if *f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return pm, cmd
}

// settle runs cmd and every command the resulting updates return.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		m, cmd = step(t, m, cmd())
	}
	return m
}

func loaded(t *testing.T, svc Service) Model {
	t.Helper()
	m := New(svc, "http://localhost:8080")
	return settle(t, m, m.Init())
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var seed = []model.Todo{{ID: model.IntPtr(1), Title: "T", Content: "C"}}

func TestInitialLoad(t *testing.T) {
	svc := newFake(seed...)
	m := New(svc, "http://localhost:8080")
	assert.True(t, m.State().Loading)

	m = settle(t, m, m.Init())

	st := m.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	if diff := cmp.Diff(seed, st.Todos); diff != "" {
		t.Fatalf("unexpected todos (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"list"}, svc.Calls())
}

func TestInitialLoadFailure(t *testing.T) {
	tests := map[string]struct {
		err     error
		wantErr string
	}{
		"request error": {
			err:     &api.RequestError{Op: "list", Message: api.MsgList, StatusCode: 500},
			wantErr: "Failed to fetch todos",
		},
		"error without message": {
			err:     errors.New(""),
			wantErr: "Failed to load todos",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newFake(seed...)
			svc.listErr = tt.err

			st := loaded(t, svc).State()
			assert.False(t, st.Loading)
			assert.Equal(t, tt.wantErr, st.Err)
			assert.Empty(t, st.Todos)
		})
	}
}

func TestSubmitRequiresTitleAndContent(t *testing.T) {
	tests := map[string]struct {
		title, content string
	}{
		"both empty":       {"", ""},
		"empty title":      {"", "content"},
		"blank title":      {"   ", "content"},
		"empty content":    {"title", ""},
		"whitespace body":  {"title", " \n\t "},
		"blank everything": {"  ", "  "},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newFake()
			m := loaded(t, svc)
			m.title.SetValue(tt.title)
			m.content.SetValue(tt.content)

			cmd := m.Submit()
			assert.Nil(t, cmd)
			assert.Equal(t, "Title and content are required", m.State().Err)
			assert.Equal(t, []string{"list"}, svc.Calls(), "no request after the initial load")
		})
	}
}

func TestSubmitCreate(t *testing.T) {
	svc := newFake(seed...)
	m := loaded(t, svc)
	m.title.SetValue("New")
	m.content.SetValue("Body")

	m = settle(t, m, m.Submit())

	st := m.State()
	assert.Equal(t, []string{"list", "create New", "list"}, svc.Calls())
	assert.Equal(t, CreateMode{}, st.Mode)
	assert.Empty(t, st.Title)
	assert.Empty(t, st.Content)
	assert.Empty(t, st.Err)
	assert.False(t, st.Loading)
	require.Len(t, st.Todos, 2)
	assert.Equal(t, "New", st.Todos[1].Title)
}

func TestSubmitUpdateAfterEdit(t *testing.T) {
	svc := newFake(model.Todo{ID: model.IntPtr(5), Title: "A", Content: "B"})
	m := loaded(t, svc)

	m.Edit(m.State().Todos[0])
	m.title.SetValue("A2")
	m = settle(t, m, m.Submit())

	st := m.State()
	assert.Equal(t, []string{"list", "update 5 A2", "list"}, svc.Calls())
	_, editing := st.EditingID()
	assert.False(t, editing)
	assert.Empty(t, st.Title)
	assert.Empty(t, st.Content)
	assert.Equal(t, "A2", st.Todos[0].Title)
	assert.Equal(t, "B", st.Todos[0].Content)
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	tests := map[string]struct {
		edit    bool
		setup   func(*fakeService)
		wantErr string
		wantRPC string
	}{
		"create": {
			setup:   func(f *fakeService) { f.createErr = &api.RequestError{Message: api.MsgCreate} },
			wantErr: "Failed to create todo",
			wantRPC: "create X",
		},
		"update": {
			edit:    true,
			setup:   func(f *fakeService) { f.updateErr = &api.RequestError{Message: api.MsgUpdate} },
			wantErr: "Failed to update todo",
			wantRPC: "update 1 X",
		},
		"no message": {
			setup:   func(f *fakeService) { f.createErr = errors.New("") },
			wantErr: "Something went wrong",
			wantRPC: "create X",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newFake(seed...)
			tt.setup(svc)
			m := loaded(t, svc)
			if tt.edit {
				m.Edit(seed[0])
			}
			m.title.SetValue("X")
			m.content.SetValue("Y")

			m = settle(t, m, m.Submit())

			st := m.State()
			assert.Equal(t, tt.wantErr, st.Err)
			assert.Equal(t, "X", st.Title)
			assert.Equal(t, "Y", st.Content)
			_, editing := st.EditingID()
			assert.Equal(t, tt.edit, editing)
			assert.Equal(t, []string{"list", tt.wantRPC}, svc.Calls(), "no refresh after a failure")
		})
	}
}

func TestEditFillsFormWithoutRequest(t *testing.T) {
	svc := newFake()
	m := loaded(t, svc)

	m.Edit(model.Todo{ID: model.IntPtr(5), Title: "A", Content: "B"})

	st := m.State()
	id, editing := st.EditingID()
	assert.True(t, editing)
	assert.Equal(t, 5, id)
	assert.Equal(t, EditingMode{ID: 5}, st.Mode)
	assert.Equal(t, "A", st.Title)
	assert.Equal(t, "B", st.Content)
	assert.Equal(t, []string{"list"}, svc.Calls())
}

func TestEditIgnoresUnsavedTodo(t *testing.T) {
	m := loaded(t, newFake())
	m.Edit(model.Todo{Title: "A", Content: "B"})

	st := m.State()
	assert.Equal(t, CreateMode{}, st.Mode)
	assert.Empty(t, st.Title)
}

func TestEditSubmitKeepsStoredText(t *testing.T) {
	long := strings.Repeat("x", 300)
	tests := map[string]struct {
		retitle     string
		wantTitle   string
		wantContent string
	}{
		"untouched": {wantTitle: long, wantContent: "a\tb\nc"},
		"new title": {retitle: "Short", wantTitle: "Short", wantContent: "a\tb\nc"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newFake(model.Todo{ID: model.IntPtr(7), Title: long, Content: "a\tb\nc"})
			m := loaded(t, svc)

			m.Edit(svc.todos[0])
			assert.Equal(t, long, m.State().Title)
			assert.Equal(t, "a\tb\nc", m.State().Content)
			if tt.retitle != "" {
				m.title.SetValue(tt.retitle)
			}

			cmd := m.Submit()
			require.NotNil(t, cmd)
			m = settle(t, m, cmd)

			require.Len(t, m.State().Todos, 1)
			got := m.State().Todos[0]
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantContent, got.Content)
			assert.Empty(t, m.State().Err)
		})
	}
}

func TestResizeSizesList(t *testing.T) {
	todos := make([]model.Todo, 12)
	for i := range todos {
		todos[i] = model.Todo{ID: model.IntPtr(i + 1), Title: fmt.Sprintf("Todo%d", i+1), Content: "C"}
	}
	m := loaded(t, newFake(todos...))
	before := m.list.Paginator.PerPage

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})

	assert.Greater(t, m.list.Height(), 10)
	assert.Greater(t, m.list.Paginator.PerPage, before)
}

func TestEnterDoesNotConfirmDelete(t *testing.T) {
	svc := newFake(seed...)
	m := loaded(t, svc)

	m, _ = step(t, m, keyRunes("d"))
	require.True(t, m.Confirming())
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, m.Confirming())
	assert.Equal(t, []string{"list"}, svc.Calls())
}

func TestCancelAfterEdit(t *testing.T) {
	svc := newFake()
	m := loaded(t, svc)
	m.Edit(model.Todo{ID: model.IntPtr(5), Title: "A", Content: "B"})

	m.Cancel()

	st := m.State()
	_, editing := st.EditingID()
	assert.False(t, editing)
	assert.Empty(t, st.Title)
	assert.Empty(t, st.Content)
	assert.Equal(t, []string{"list"}, svc.Calls())
}

func TestDeleteDeclined(t *testing.T) {
	svc := newFake(seed...)
	m := loaded(t, svc)

	m.RequestDelete(seed[0].ID)
	require.True(t, m.Confirming())

	cmd := m.ConfirmDelete(false)
	assert.Nil(t, cmd)
	assert.False(t, m.Confirming())
	assert.Equal(t, []string{"list"}, svc.Calls())
	if diff := cmp.Diff(seed, m.State().Todos); diff != "" {
		t.Fatalf("todos changed (-want +got):\n%s", diff)
	}
}

func TestDeleteWithoutIDDoesNothing(t *testing.T) {
	svc := newFake(seed...)
	m := loaded(t, svc)

	m.RequestDelete(nil)

	assert.False(t, m.Confirming())
	assert.Nil(t, m.ConfirmDelete(true))
	assert.Equal(t, []string{"list"}, svc.Calls())
}

func TestDeleteConfirmed(t *testing.T) {
	svc := newFake(seed...)
	m := loaded(t, svc)

	m.RequestDelete(seed[0].ID)
	m = settle(t, m, m.ConfirmDelete(true))

	st := m.State()
	assert.Equal(t, []string{"list", "delete 1", "list"}, svc.Calls())
	assert.Empty(t, st.Todos)
	assert.Empty(t, st.Err)
}

func TestDeleteFailure(t *testing.T) {
	svc := newFake(seed...)
	svc.deleteErr = &api.RequestError{Op: "delete", Message: api.MsgDelete, StatusCode: 500}
	m := loaded(t, svc)

	m.RequestDelete(seed[0].ID)
	m = settle(t, m, m.ConfirmDelete(true))

	st := m.State()
	assert.Equal(t, "Failed to delete todo", st.Err)
	assert.Len(t, st.Todos, 1)
	assert.Equal(t, []string{"list", "delete 1"}, svc.Calls())
}

func TestReloadIsIdempotent(t *testing.T) {
	svc := newFake(seed...)
	m := loaded(t, svc)

	m = settle(t, m, m.Reload())
	first := m.State().Todos
	m = settle(t, m, m.Reload())

	if diff := cmp.Diff(first, m.State().Todos); diff != "" {
		t.Fatalf("second refresh differs (-first +second):\n%s", diff)
	}
}

func TestErrorClearedWhenNextOperationStarts(t *testing.T) {
	svc := newFake(seed...)
	svc.listErr = &api.RequestError{Message: api.MsgList}
	m := loaded(t, svc)
	require.Equal(t, api.MsgList, m.State().Err)

	svc.listErr = nil
	cmd := m.Reload()
	assert.Empty(t, m.State().Err, "cleared before the response arrives")
	assert.True(t, m.State().Loading)

	m = settle(t, m, cmd)
	assert.False(t, m.State().Loading)
	assert.Len(t, m.State().Todos, 1)
}

func TestDoubleSubmitIsNotDeduplicated(t *testing.T) {
	svc := newFake()
	m := loaded(t, svc)
	m.title.SetValue("Twice")
	m.content.SetValue("Body")

	first := m.Submit()
	second := m.Submit()
	m = settle(t, m, first)
	m = settle(t, m, second)

	assert.Equal(t, []string{"list", "create Twice", "list", "create Twice", "list"}, svc.Calls())
	assert.Len(t, m.State().Todos, 2)
}

func TestKeyboardFlow(t *testing.T) {
	svc := newFake(seed...)
	m := loaded(t, svc)
	require.Equal(t, focusList, m.focus)

	// d then n: nothing is sent
	m, _ = step(t, m, keyRunes("d"))
	require.True(t, m.Confirming())
	m, cmd := step(t, m, keyRunes("n"))
	assert.Nil(t, cmd)
	assert.False(t, m.Confirming())

	// e edits the selected todo and focuses the title
	m, _ = step(t, m, keyRunes("e"))
	assert.Equal(t, EditingMode{ID: 1}, m.State().Mode)
	assert.Equal(t, focusTitle, m.focus)
	assert.Equal(t, "T", m.State().Title)

	// esc cancels the edit
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, CreateMode{}, m.State().Mode)
	assert.Equal(t, focusList, m.focus)

	// d then y deletes and refreshes
	m, _ = step(t, m, keyRunes("d"))
	m, cmd = step(t, m, keyRunes("y"))
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)
	assert.Empty(t, m.State().Todos)

	assert.Equal(t, []string{"list", "delete 1", "list"}, svc.Calls())
}

func TestKeyboardSubmit(t *testing.T) {
	svc := newFake()
	m := loaded(t, svc)

	m, _ = step(t, m, keyRunes("a"))
	require.Equal(t, focusTitle, m.focus)
	m, _ = step(t, m, keyRunes("Hi"))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, focusContent, m.focus)

	// empty content is rejected
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, msgRequired, m.State().Err)

	m, _ = step(t, m, keyRunes("there"))
	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"list", "create Hi", "list"}, svc.Calls())
	assert.Empty(t, m.State().Title)
	require.Len(t, m.State().Todos, 1)
	assert.Equal(t, "there", m.State().Todos[0].Content)
}

func TestAgainstService(t *testing.T) {
	svc, srv := apitest.NewServer(t, seed...)
	client := api.NewClient(srv.URL)
	m := loaded(t, client)
	require.Len(t, m.State().Todos, 1)

	m.title.SetValue("From page")
	m.content.SetValue("Body")
	m = settle(t, m, m.Submit())
	require.Len(t, m.State().Todos, 2)
	created := m.State().Todos[1]
	assert.NotEmpty(t, created.CreatedAt)

	svc.Fail("update", 500)
	m.Edit(created)
	m = settle(t, m, m.Submit())
	assert.Equal(t, api.MsgUpdate, m.State().Err)
	assert.Equal(t, "From page", m.State().Title, "form kept for retry")

	svc.Recover()
	m = settle(t, m, m.Submit())
	assert.Empty(t, m.State().Err)

	want := []apitest.Request{
		{Method: "GET", Path: "/todos"},
		{Method: "POST", Path: "/todos"},
		{Method: "GET", Path: "/todos"},
		{Method: "PUT", Path: "/todos/2"},
		{Method: "PUT", Path: "/todos/2"},
		{Method: "GET", Path: "/todos"},
	}
	assert.Equal(t, want, svc.Requests())
}
