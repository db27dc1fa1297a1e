package page

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

// Service is what the page needs from the remote todo service.
// *api.Client satisfies it.
type Service interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, in model.TodoInput) (model.Todo, error)
	Update(ctx context.Context, id int, in model.TodoInput) (model.Todo, error)
	Delete(ctx context.Context, id int) error
}

// Fallbacks for errors that carry no message.
const (
	fallbackLoad   = "Failed to load todos"
	fallbackSubmit = "Something went wrong"
	fallbackDelete = "Failed to delete todo"

	msgRequired      = "Title and content are required"
	msgConfirmDelete = "Are you sure you want to delete this todo?"
)

type todosLoadedMsg struct {
	todos []model.Todo
	err   error
}

type savedMsg struct {
	todo model.Todo
	err  error
}

type deletedMsg struct {
	id  int
	err error
}

// Requests are not cancellable once issued.
func fetchTodos(svc Service) tea.Cmd {
	return func() tea.Msg {
		todos, err := svc.List(context.Background())
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func saveTodo(svc Service, mode FormMode, in model.TodoInput) tea.Cmd {
	return func() tea.Msg {
		var (
			td  model.Todo
			err error
		)
		switch m := mode.(type) {
		case EditingMode:
			td, err = svc.Update(context.Background(), m.ID, in)
		default:
			td, err = svc.Create(context.Background(), in)
		}
		return savedMsg{todo: td, err: err}
	}
}

func deleteTodo(svc Service, id int) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: svc.Delete(context.Background(), id)}
	}
}

func errorText(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
