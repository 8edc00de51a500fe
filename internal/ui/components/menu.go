package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/metrofocus/internal/ui/theme"
)

// MenuItem is a single row of a Menu. Detail is rendered right-aligned.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical selection list.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{Items: items, Selected: selected}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu in a column of the given width.
func (m Menu) View(width int) string {
	var b strings.Builder
	for i, item := range m.Items {
		style := theme.Unselected
		prefix := "    "
		switch {
		case item.Disabled:
			style = theme.Unaffordable
		case i == m.Selected:
			style = theme.Selected
			prefix = "  ▸ "
		}

		label := style.Render(prefix + item.Label)
		line := label
		if item.Detail != "" {
			detail := lipgloss.NewStyle().Foreground(theme.Accent).Render(item.Detail)
			gap := width - lipgloss.Width(label) - lipgloss.Width(detail) - 2
			if gap < 2 {
				gap = 2
			}
			line += strings.Repeat(" ", gap) + detail
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
