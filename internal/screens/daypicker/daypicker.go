// Package daypicker is the modal that chooses which day's words to study.
package daypicker

import (
	"strings"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordmax/internal/router"
	"github.com/abhisek/wordmax/internal/screen"
	"github.com/abhisek/wordmax/internal/ui/components"
	"github.com/abhisek/wordmax/internal/ui/layout"
	"github.com/abhisek/wordmax/internal/ui/theme"
)

const columns = 5

// SelectedMsg is delivered to the screen below the picker when a day is
// chosen. Day is the key as listed; the receiver normalizes it.
type SelectedMsg struct {
	Day string
}

// DayPicker implements screen.Screen as a modal grid of day keys with a
// numeric filter.
type DayPicker struct {
	days    []string
	current string
	filter  components.TextInput
	menu    components.Menu
}

var _ screen.Screen = (*DayPicker)(nil)
var _ screen.KeyHintProvider = (*DayPicker)(nil)

// New creates a picker over days, which should already be in display order.
func New(days []string, current string) *DayPicker {
	p := &DayPicker{
		days:    days,
		current: current,
		filter:  components.NewTextInput("type a day number", true, 4),
	}
	p.rebuild()
	return p
}

func (p *DayPicker) Init() tea.Cmd {
	return p.filter.Init()
}

func (p *DayPicker) Title() string {
	return "Choose a day"
}

func (p *DayPicker) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "0-9", Description: "Filter"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Close"},
	}
}

// Visible returns the day keys that pass the filter.
func (p *DayPicker) Visible() []string {
	out := make([]string, 0, len(p.menu.Items))
	for _, item := range p.menu.Items {
		out = append(out, item.Label)
	}
	return out
}

func (p *DayPicker) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		return p, cmd
	}

	switch kmsg.String() {
	case "up", "down", "left", "right", "enter":
		var cmd tea.Cmd
		p.menu, cmd = p.menu.Update(kmsg)
		return p, cmd
	}

	before := p.filter.Value()
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(kmsg)
	if p.filter.Value() != before {
		p.rebuild()
	}
	return p, cmd
}

// rebuild filters the day keys by the typed digits and keeps the cursor
// on the current day when it is still visible.
func (p *DayPicker) rebuild() {
	query := p.filter.Value()
	items := make([]components.MenuItem, 0, len(p.days))
	selected := 0
	for _, day := range p.days {
		if query != "" && !strings.HasPrefix(digits(day), query) {
			continue
		}
		if day == p.current {
			selected = len(items)
		}
		items = append(items, components.MenuItem{
			Label:  day,
			Action: choose(day),
		})
	}
	p.menu = components.NewMenu(items, columns)
	if len(items) > 0 {
		p.menu.Selected = selected
	}
}

func choose(day string) func() tea.Cmd {
	return func() tea.Cmd {
		return router.PopWith(SelectedMsg{Day: day})
	}
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func (p *DayPicker) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Choose a day"))
	b.WriteString("\n\n")
	b.WriteString(p.filter.View())
	b.WriteString("\n\n")

	if len(p.menu.Items) == 0 {
		b.WriteString(theme.Hint.Render("No matching days"))
	} else {
		b.WriteString(p.menu.View())
	}

	box := theme.Modal.Render(lipgloss.NewStyle().MaxWidth(width - 8).Render(b.String()))
	return layout.Center(box, width, height)
}
