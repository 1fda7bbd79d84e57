package session

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/abhisek/wordmax/internal/vocab"
)

// Option configures a QuizSession.
type Option func(*QuizSession)

// WithRand fixes the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(s *QuizSession) { s.rng = rng }
}

// New creates an empty session in PhaseLoading.
func New(opts ...Option) *QuizSession {
	s := &QuizSession{
		Answered: make(map[int]Answer),
		wrongSet: make(map[string]struct{}),
		choices:  make(map[int][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase reports the lifecycle phase derived from Index and List.
func (s *QuizSession) Phase() Phase {
	if !s.started {
		return PhaseLoading
	}
	if s.Index >= len(s.List) {
		return PhaseFinished
	}
	return PhaseReady
}

// Start begins a pass over entries. When onlyWrong is set the list is
// restricted to words already in WrongWords. WrongWords itself is kept.
func (s *QuizSession) Start(day string, entries []vocab.WordEntry, onlyWrong bool) {
	s.Day = day
	s.source = append([]vocab.WordEntry(nil), entries...)
	s.OnlyWrong = onlyWrong
	s.rebuild()
}

// NewDay switches to another day and clears everything, including the
// wrong-word set and the filter.
func (s *QuizSession) NewDay(day string, entries []vocab.WordEntry) {
	s.WrongWords = nil
	s.wrongSet = make(map[string]struct{})
	s.Start(day, entries, false)
}

// Restart is NewDay on the current day.
func (s *QuizSession) Restart() {
	s.NewDay(s.Day, s.source)
}

func (s *QuizSession) rebuild() {
	list := s.source
	if s.OnlyWrong {
		list = make([]vocab.WordEntry, 0, len(s.WrongWords))
		for _, e := range s.source {
			if _, ok := s.wrongSet[e.Word]; ok {
				list = append(list, e)
			}
		}
	}

	s.List = Shuffle(list, s.rng)
	s.Index = 0
	s.CorrectCount = 0
	s.Answered = make(map[int]Answer)
	s.choices = make(map[int][]string)
	s.Generation++
	s.ID = uuid.NewString()
	s.started = true
}

// Current returns the entry at Index. ok is false once finished.
func (s *QuizSession) Current() (vocab.WordEntry, bool) {
	if s.Index < 0 || s.Index >= len(s.List) {
		return vocab.WordEntry{}, false
	}
	return s.List[s.Index], true
}

// Choices returns the choice set for index, computing it on first use and
// returning the same slice until the next reset.
func (s *QuizSession) Choices(index int) []string {
	if index < 0 || index >= len(s.List) {
		return nil
	}
	if c, ok := s.choices[index]; ok {
		return c
	}

	pool := make([]string, 0, len(s.List))
	for _, e := range s.List {
		pool = append(pool, e.Meaning)
	}
	c := BuildChoiceSet(s.List[index].Meaning, pool, s.rng)
	s.choices[index] = c
	return c
}

// SubmitAnswer scores picked against the entry at index. It is the only
// place the score changes, and it refuses a second answer for an index.
func (s *QuizSession) SubmitAnswer(index int, picked string) (Answer, error) {
	if index < 0 || index >= len(s.List) {
		return Answer{}, fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidState, index, len(s.List))
	}
	if _, done := s.Answered[index]; done {
		return Answer{}, fmt.Errorf("%w: index %d already answered", ErrInvalidState, index)
	}

	entry := s.List[index]
	a := Answer{Picked: picked, Correct: picked == entry.Meaning}
	s.Answered[index] = a

	if a.Correct {
		s.CorrectCount++
	} else if _, seen := s.wrongSet[entry.Word]; !seen {
		s.wrongSet[entry.Word] = struct{}{}
		s.WrongWords = append(s.WrongWords, entry.Word)
	}
	return a, nil
}

// Advance moves Index by dir (+1 or -1), clamped to [0, len(List)].
func (s *QuizSession) Advance(dir int) error {
	if dir != 1 && dir != -1 {
		return fmt.Errorf("%w: advance direction %d", ErrInvalidState, dir)
	}
	next := s.Index + dir
	if next < 0 {
		next = 0
	}
	if next > len(s.List) {
		next = len(s.List)
	}
	s.Index = next
	return nil
}

// AdvanceIfCurrent performs a deferred forward step. It applies only when
// gen and index still describe the session; a stale callback returns false.
func (s *QuizSession) AdvanceIfCurrent(gen uint64, index int) bool {
	if gen != s.Generation || index != s.Index || s.Phase() != PhaseReady {
		return false
	}
	return s.Advance(1) == nil
}

// ToggleWrongFilter flips the wrong-only filter and starts a fresh pass.
// With no wrong answers recorded nothing changes.
func (s *QuizSession) ToggleWrongFilter() error {
	if len(s.WrongWords) == 0 {
		return ErrPreconditionFailed
	}
	s.OnlyWrong = !s.OnlyWrong
	s.rebuild()
	return nil
}

// SetMode switches presentation without touching progress.
func (s *QuizSession) SetMode(m Mode) {
	s.Mode = m
}

// ToggleMode flips between quiz and flashcard.
func (s *QuizSession) ToggleMode() {
	if s.Mode == ModeQuiz {
		s.Mode = ModeFlashcard
	} else {
		s.Mode = ModeQuiz
	}
}

// Summary computes accuracy over the whole list.
func (s *QuizSession) Summary() Summary {
	total := len(s.List)
	acc := 0
	if total > 0 {
		acc = int(math.Round(float64(s.CorrectCount) / float64(total) * 100))
	}
	return Summary{
		Accuracy:     acc,
		CorrectCount: s.CorrectCount,
		Total:        total,
		WrongWords:   append([]string(nil), s.WrongWords...),
	}
}

// Progress returns the counters for the progress line.
func (s *QuizSession) Progress() Progress {
	total := len(s.List)
	return Progress{
		Current: min(s.Index+1, total),
		Total:   total,
		Correct: s.CorrectCount,
		Wrong:   len(s.WrongWords),
	}
}
