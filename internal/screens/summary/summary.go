package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordmax/internal/router"
	"github.com/abhisek/wordmax/internal/screen"
	"github.com/abhisek/wordmax/internal/session"
	"github.com/abhisek/wordmax/internal/ui/layout"
	"github.com/abhisek/wordmax/internal/ui/theme"
)

// RestartMsg asks the quiz screen to start the day over.
type RestartMsg struct{}

// SummaryScreen displays the end-of-pass results.
type SummaryScreen struct {
	summary session.Summary
	day     string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.HeaderProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary, day string) *SummaryScreen {
	return &SummaryScreen{summary: summary, day: day}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) HeaderInfo() layout.HeaderInfo {
	return layout.HeaderInfo{
		Day:   s.day,
		Score: fmt.Sprintf("%d / %d", s.summary.CorrectCount, s.summary.Total),
	}
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Restart"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "r":
			return s, router.PopWith(RestartMsg{})
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := min(width-8, 60)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var b strings.Builder

	b.WriteString(center.Inherit(theme.Title).Render(fmt.Sprintf("Accuracy: %d%%", sum.Accuracy)))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Text).Render(
		fmt.Sprintf("Correct %d / %d", sum.CorrectCount, sum.Total)))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("Wrong answers (%d)", len(sum.WrongWords))))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Border).Render(strings.Repeat("─", max(cw-10, 0))))
	b.WriteString("\n\n")

	if len(sum.WrongWords) == 0 {
		b.WriteString(center.Foreground(theme.Success).Render("No wrong answers 🎉"))
	} else {
		b.WriteString(center.Render(wrapPills(sum.WrongWords, cw)))
	}
	b.WriteString("\n")

	return layout.Center(b.String(), width, height)
}

// wrapPills lays words out as pills, breaking lines before width.
func wrapPills(words []string, width int) string {
	var lines []string
	line := ""
	for _, w := range words {
		pill := theme.Pill.Foreground(theme.Error).Render(w)
		switch {
		case line == "":
			line = pill
		case lipgloss.Width(line)+1+lipgloss.Width(pill) > width:
			lines = append(lines, line)
			line = pill
		default:
			line += " " + pill
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
