package page

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	w, h := m.size()
	top := m.topView(w)
	helpLine := m.help.View(m.helpKeys())
	m.list.SetSize(w-4, listHeight(h, top, helpLine))

	page := lipgloss.JoinVertical(lipgloss.Left,
		top,
		section("All Todos", m.focus == focusList && m.confirmID == nil, m.listView(), w),
		helpLine,
	)

	if m.confirmID != nil {
		popup := renderPopup(min(max(w/2, 40), w-4), "Confirm", msgConfirmDelete+" (y/n)")
		return overlayCenter(page, popup, w, h)
	}
	return page
}

func (m Model) size() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 80, 24
	}
	return m.width, m.height
}

func (m Model) topView(w int) string {
	parts := []string{
		titleStyle.Render("Tada") + "  " + subtitleStyle.Render("remote todos · "+m.baseURL),
	}
	if m.err != "" {
		parts = append(parts, errorBoxStyle.Render(m.err))
	}
	parts = append(parts, m.formView(w))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// listHeight is what is left of h for the list rows.
func listHeight(h int, top, helpLine string) int {
	// section border and heading take 3 lines
	return max(h-lipgloss.Height(top)-lipgloss.Height(helpLine)-3, 3)
}

// fitList sizes the list kept in the model so paging in Update matches
// what View shows.
func (m *Model) fitList() {
	w, h := m.size()
	top := m.topView(w)
	m.list.SetSize(w-4, listHeight(h, top, m.help.View(m.helpKeys())))
}

func (m Model) formView(width int) string {
	heading, hint := "Create New Todo", "ctrl+s create"
	if _, editing := m.mode.(EditingMode); editing {
		heading, hint = "Edit Todo", "ctrl+s update · esc cancel"
	}
	body := strings.Join([]string{
		labelStyle.Render("Title"),
		m.title.View(),
		labelStyle.Render("Content"),
		m.content.View(),
		helpStyle.Render(hint),
	}, "\n")
	return section(heading, m.focus != focusList && m.confirmID == nil, body, width)
}

func (m Model) listView() string {
	switch {
	case m.loading && len(m.todos) == 0:
		return mutedStyle.Render("Loading...")
	case len(m.todos) == 0:
		return mutedStyle.Render("No todos yet. Create one!")
	case m.loading:
		return mutedStyle.Render("Loading...") + "\n" + m.list.View()
	}
	return m.list.View()
}

func renderPopup(width int, title, body string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusedBorder).
		Padding(1, 2).
		Width(width - 2)
	return box.Render(accentStyle.Render(title) + "\n\n" + body)
}

// overlayCenter draws fg over the middle of bg. Rows under the popup are
// replaced whole so no ANSI sequence of the background is cut in half.
func overlayCenter(bg, fg string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}
	if len(bgLines) > height {
		bgLines = bgLines[:height]
	}

	fgLines := strings.Split(fg, "\n")
	yOff := max((height-len(fgLines))/2, 0)
	xOff := max((width-lipgloss.Width(fg))/2, 0)

	for i, line := range fgLines {
		row := yOff + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = strings.Repeat(" ", xOff) + line
	}
	return strings.Join(bgLines, "\n")
}
