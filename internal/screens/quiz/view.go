package quiz

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordmax/internal/session"
	"github.com/abhisek/wordmax/internal/ui/components"
	"github.com/abhisek/wordmax/internal/ui/layout"
	"github.com/abhisek/wordmax/internal/ui/theme"
)

const cardMaxWidth = 64

func (s *QuizScreen) View(width, height int) string {
	if s.loading {
		return layout.Center(theme.Hint.Render("Loading words..."), width, height)
	}
	if s.status != "" {
		return s.renderStatus(width, height)
	}

	cw := min(width-4, cardMaxWidth)

	var b strings.Builder
	b.WriteString(s.renderProgress(cw))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	switch s.sess.Phase() {
	case session.PhaseReady:
		b.WriteString(s.renderCard(cw))
	default:
		b.WriteString(s.renderEnd(cw))
	}

	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(theme.Notice.Width(cw).Align(lipgloss.Center).Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *QuizScreen) renderProgress(cw int) string {
	p := s.sess.Progress()
	line := lipgloss.NewStyle().Foreground(theme.TextDim).Render(progressLine(p))
	done := len(s.sess.Answered)
	if s.sess.Mode == session.ModeFlashcard {
		done = s.sess.Index
	}
	bar := components.NewProgressBar("", done, p.Total, cw).View()
	return line + "\n" + bar
}

func (s *QuizScreen) renderCard(cw int) string {
	entry, _ := s.sess.Current()
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Inherit(theme.Word).Render(entry.Word))
	b.WriteString("\n\n")

	if s.sess.Mode == session.ModeFlashcard {
		if s.revealed {
			b.WriteString(center.Inherit(theme.Meaning).Render(entry.Meaning))
		} else {
			b.WriteString(center.Inherit(theme.Hint).Render("press space to show the meaning"))
		}
		b.WriteString("\n")
		b.WriteString(s.renderExample(cw))
		return theme.Card.Width(cw).Render(b.String())
	}

	b.WriteString(s.choice.View(cw - 6))
	if s.choice.Submitted {
		verdict := theme.Correct.Render("Correct!")
		if !s.choice.IsCorrect() {
			verdict = theme.Incorrect.Render("Answer: " + entry.Meaning)
		}
		b.WriteString("\n")
		b.WriteString(center.Render(verdict))
	}
	return theme.Card.Width(cw).Render(b.String())
}

func (s *QuizScreen) renderExample(cw int) string {
	center := lipgloss.NewStyle().Width(cw - 6).Align(lipgloss.Center)
	switch {
	case s.exampleLoading:
		return "\n" + center.Inherit(theme.Hint).Render("Writing an example...")
	case s.example != nil:
		out := "\n" + center.Foreground(theme.Text).Render(s.example.Sentence)
		if s.example.Translation != "" {
			out += "\n" + center.Inherit(theme.Hint).Render(s.example.Translation)
		}
		return out
	}
	return ""
}

func (s *QuizScreen) renderEnd(cw int) string {
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if len(s.sess.List) == 0 {
		return center.Inherit(theme.Subtitle).Render("No word data")
	}
	return center.Inherit(theme.Title).Render("All done!") + "\n\n" +
		center.Inherit(theme.Hint).Render("enter for the summary, ← to review, r to restart")
}

func (s *QuizScreen) renderStatus(width, height int) string {
	msg := theme.Status.Render(s.status)
	if s.deps.Data != nil {
		msg += "\n\n" + theme.Hint.Render(s.deps.Data.Source())
	}
	return layout.Center(msg, width, height)
}
