package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordmax/internal/ui/theme"
)

// MenuItem represents a single cell in a menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a navigable grid of items. With Columns <= 1 it behaves as a
// vertical list.
type Menu struct {
	Items    []MenuItem
	Selected int
	Columns  int
}

// NewMenu creates a new menu with the given items laid out in columns.
func NewMenu(items []MenuItem, columns int) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
		Columns:  max(columns, 1),
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.move(-m.Columns)
	case "down", "j":
		m.move(m.Columns)
	case "left", "h":
		m.move(-1)
	case "right", "l":
		m.move(1)
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

// move steps by delta, skipping disabled items, and stays put at the edges.
func (m *Menu) move(delta int) {
	for i := m.Selected + delta; i >= 0 && i < len(m.Items); i += delta {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Current returns the selected item.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// View renders the menu.
func (m Menu) View() string {
	cols := max(m.Columns, 1)
	cell := 0
	for _, item := range m.Items {
		cell = max(cell, lipgloss.Width(item.Label)+4)
	}

	var b strings.Builder
	for i, item := range m.Items {
		var style lipgloss.Style
		label := "  " + item.Label
		switch {
		case i == m.Selected:
			style = theme.Selected
			label = "▸ " + item.Label
		case item.Disabled:
			style = theme.Disabled
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Width(cell).Render(label))
		if (i+1)%cols == 0 || i == len(m.Items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
