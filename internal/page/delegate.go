package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// listItem adapts model.Todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) FilterValue() string { return i.todo.Title }

func toItems(todos []model.Todo) []list.Item {
	out := make([]list.Item, 0, len(todos))
	for _, td := range todos {
		out = append(out, listItem{todo: td})
	}
	return out
}

// todoDelegate renders one todo as title, first content line and creation time.
type todoDelegate struct{}

func (d todoDelegate) Height() int                               { return 3 }
func (d todoDelegate) Spacing() int                              { return 1 }
func (d todoDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d todoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	width := m.Width() - 2
	if width < 10 {
		width = 10
	}

	prefix, title := "  ", titleStyle.Render(truncate(it.todo.Title, width))
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		title = selectedStyle.Render(truncate(it.todo.Title, width))
	}

	content := it.todo.Content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i] + " …"
	}

	fmt.Fprintln(w, prefix+title)
	fmt.Fprintln(w, "  "+truncate(content, width))
	fmt.Fprint(w, "  "+mutedStyle.Render(createdLabel(it.todo)))
}

func createdLabel(td model.Todo) string {
	if ts, ok := td.Created(); ok {
		return "Created at: " + ts.Local().Format("2006-01-02 15:04:05")
	}
	if td.CreatedAt != "" {
		return "Created at: " + td.CreatedAt
	}
	return ""
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
