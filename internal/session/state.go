package session

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/wordmax/internal/vocab"
)

// Phase represents where a quiz session is in its lifecycle.
type Phase int

const (
	PhaseLoading  Phase = iota // No word list started yet
	PhaseReady                 // Index points at a question
	PhaseFinished              // Index == len(List)
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Mode selects how the current entry is presented.
type Mode int

const (
	ModeQuiz Mode = iota
	ModeFlashcard
)

func (m Mode) String() string {
	if m == ModeFlashcard {
		return "flashcard"
	}
	return "quiz"
}

// ParseMode accepts "quiz", "flashcard" or "flash", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quiz":
		return ModeQuiz, nil
	case "flashcard", "flash":
		return ModeFlashcard, nil
	}
	return ModeQuiz, fmt.Errorf("unknown mode %q (want quiz or flashcard)", s)
}

// Answer is the recorded outcome for one list position.
type Answer struct {
	Picked  string
	Correct bool
}

// QuizSession is the mutable state of one pass over a day's words.
// It is owned by a single goroutine (the TUI update loop).
type QuizSession struct {
	// ID identifies the current pass in logs. Regenerated on every reset.
	ID string

	// Day is the active day key.
	Day string

	// List is the shuffled, possibly filtered working copy of the day.
	List []vocab.WordEntry

	// Index is the current position. Index == len(List) means finished.
	Index int

	// CorrectCount never decreases between resets.
	CorrectCount int

	// Answered maps a list position to its outcome. Write-once per index.
	Answered map[int]Answer

	// WrongWords holds words answered wrongly, in insertion order.
	WrongWords []string

	// OnlyWrong restricts List to entries whose word is in WrongWords.
	OnlyWrong bool

	// Mode is quiz or flashcard presentation.
	Mode Mode

	// Generation increments on every reset. Deferred callbacks capture it
	// and are ignored once it moves on.
	Generation uint64

	source   []vocab.WordEntry
	wrongSet map[string]struct{}
	choices  map[int][]string
	rng      *rand.Rand
	started  bool
}

// Summary is the end-of-pass report.
type Summary struct {
	Accuracy     int
	CorrectCount int
	Total        int
	WrongWords   []string
}

// Progress backs the progress line shown under the header.
type Progress struct {
	Current int
	Total   int
	Correct int
	Wrong   int
}
