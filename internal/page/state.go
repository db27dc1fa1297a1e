package page

import "github.com/Makepad-fr/tada/internal/model"

// FormMode selects what a form submission does.
// It is either CreateMode or EditingMode.
type FormMode interface {
	formMode()
}

// CreateMode submits a new todo.
type CreateMode struct{}

// EditingMode replaces title and content of the todo with ID.
type EditingMode struct {
	ID int
}

func (CreateMode) formMode()  {}
func (EditingMode) formMode() {}

// State is a snapshot of what the page shows.
type State struct {
	Todos   []model.Todo
	Loading bool
	Err     string
	Title   string
	Content string
	Mode    FormMode
}

// EditingID reports the id under edit, if any.
func (s State) EditingID() (int, bool) {
	if e, ok := s.Mode.(EditingMode); ok {
		return e.ID, true
	}
	return 0, false
}
