// Package quiz implements the main WordMax screen: the quiz and flashcard
// views over one day's word list.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/wordmax/internal/examples"
	"github.com/abhisek/wordmax/internal/llm"
	"github.com/abhisek/wordmax/internal/router"
	"github.com/abhisek/wordmax/internal/screen"
	"github.com/abhisek/wordmax/internal/screens/daypicker"
	"github.com/abhisek/wordmax/internal/screens/summary"
	"github.com/abhisek/wordmax/internal/session"
	"github.com/abhisek/wordmax/internal/speech"
	"github.com/abhisek/wordmax/internal/ui/components"
	"github.com/abhisek/wordmax/internal/ui/layout"
	"github.com/abhisek/wordmax/internal/vocab"
)

const (
	// DefaultAutoAdvance is the pause between an answer and the next question.
	DefaultAutoAdvance = 380 * time.Millisecond

	noticeTTL      = 2500 * time.Millisecond
	speakTimeout   = 30 * time.Second
	exampleTimeout = 45 * time.Second
)

// DataSource loads the word list.
type DataSource interface {
	Load(ctx context.Context) (vocab.DayCollection, error)
	Source() string
}

// ExampleSource produces example sentences. A nil ExampleSource disables
// the feature.
type ExampleSource interface {
	Cached(entry vocab.WordEntry) (*examples.Example, bool)
	Generate(ctx context.Context, entry vocab.WordEntry) (*examples.Example, error)
}

// Deps are the collaborators of the quiz screen.
type Deps struct {
	Data     DataSource
	Speaker  speech.Speaker
	Examples ExampleSource
	// AutoAdvance is the delay before moving on after an answer. Zero
	// disables auto-advance.
	AutoAdvance time.Duration
	// NoticeTTL is how long a notice stays up. Zero means noticeTTL.
	NoticeTTL time.Duration
	// Day opens this day instead of the first one when it exists.
	Day    string
	Mode   session.Mode
	Logger *zap.Logger
	Rand   *rand.Rand
}

// QuizScreen implements screen.Screen for the quiz and flashcard views.
type QuizScreen struct {
	deps Deps
	sess *session.QuizSession

	data    vocab.DayCollection
	days    []string
	loading bool
	status  string // persistent load error

	choice    components.MultiChoice
	choiceFor choiceKey
	revealed  bool

	example        *examples.Example
	exampleLoading bool

	notice   string
	noticeID int
}

// choiceKey identifies the question a MultiChoice was built for.
type choiceKey struct {
	generation uint64
	index      int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.HeaderProvider = (*QuizScreen)(nil)
var _ screen.MessageOwner = (*QuizScreen)(nil)

// New creates a QuizScreen with injected dependencies.
func New(deps Deps) *QuizScreen {
	if deps.Speaker == nil {
		deps.Speaker = speech.Disabled{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NoticeTTL <= 0 {
		deps.NoticeTTL = noticeTTL
	}

	var opts []session.Option
	if deps.Rand != nil {
		opts = append(opts, session.WithRand(deps.Rand))
	}

	return &QuizScreen{
		deps:      deps,
		sess:      session.New(opts...),
		loading:   true,
		choiceFor: choiceKey{index: -1},
	}
}

// Session exposes the underlying session state.
func (s *QuizScreen) Session() *session.QuizSession {
	return s.sess
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.loadData()
}

func (s *QuizScreen) Title() string {
	if s.sess.Mode == session.ModeFlashcard {
		return "Flashcards"
	}
	return "Quiz"
}

func (s *QuizScreen) HeaderInfo() layout.HeaderInfo {
	if s.loading || s.data == nil {
		return layout.HeaderInfo{}
	}
	return layout.HeaderInfo{
		Day:       s.sess.Day,
		Mode:      s.sess.Mode.String(),
		Score:     fmt.Sprintf("%d / %d", s.sess.CorrectCount, len(s.sess.List)),
		WrongOnly: s.sess.OnlyWrong,
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.loading || s.data == nil {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}

	hints := []layout.KeyHint{}
	if s.sess.Phase() == session.PhaseReady {
		if s.sess.Mode == session.ModeQuiz {
			hints = append(hints, layout.KeyHint{Key: "1-4", Description: "Answer"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Show"})
			if s.deps.Examples != nil {
				hints = append(hints, layout.KeyHint{Key: "x", Description: "Example"})
			}
		}
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "Prev/Next"},
			layout.KeyHint{Key: "s", Description: "Speak"},
		)
	} else if s.sess.Phase() == session.PhaseFinished && len(s.sess.List) > 0 {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Summary"})
	}

	wrong := "Wrong only"
	if s.sess.OnlyWrong {
		wrong = "All words"
	}
	return append(hints,
		layout.KeyHint{Key: "w", Description: wrong},
		layout.KeyHint{Key: "m", Description: "Mode"},
		layout.KeyHint{Key: "d", Description: "Day"},
		layout.KeyHint{Key: "r", Description: "Restart"},
		layout.KeyHint{Key: "q", Description: "Quit"},
	)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dataLoadedMsg:
		return s.handleDataLoaded(msg)

	case autoAdvanceMsg:
		if s.sess.AdvanceIfCurrent(msg.Generation, msg.Index) {
			return s, s.afterMove()
		}
		return s, nil

	case noticeExpiredMsg:
		if msg.ID == s.noticeID {
			s.notice = ""
		}
		return s, nil

	case spokenMsg:
		return s.handleSpoken(msg)

	case exampleReadyMsg:
		return s.handleExample(msg)

	case daypicker.SelectedMsg:
		s.selectDay(msg.Day)
		return s, nil

	case summary.RestartMsg:
		s.restart()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

// Owns claims the results of the screen's own commands so they arrive while
// the day picker or summary is open.
func (s *QuizScreen) Owns(msg tea.Msg) bool {
	switch msg.(type) {
	case dataLoadedMsg, autoAdvanceMsg, noticeExpiredMsg, spokenMsg, exampleReadyMsg:
		return true
	}
	return false
}

func (s *QuizScreen) loadData() tea.Cmd {
	src := s.deps.Data
	if src == nil {
		return func() tea.Msg {
			return dataLoadedMsg{Err: &vocab.DataLoadError{Err: errors.New("no data source configured")}}
		}
	}
	return func() tea.Msg {
		data, err := src.Load(context.Background())
		return dataLoadedMsg{Data: data, Err: err}
	}
}

func (s *QuizScreen) handleDataLoaded(msg dataLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.deps.Logger.Error("load word data", zap.Error(msg.Err))
		s.status = "Could not load word data"
		return s, nil
	}

	s.data = msg.Data
	s.days = vocab.SortedDays(msg.Data)
	day := vocab.DefaultDay(msg.Data)

	var cmd tea.Cmd
	if want := s.deps.Day; want != "" {
		if _, ok := s.data[vocab.NormalizeDay(want)]; ok {
			day = vocab.NormalizeDay(want)
		} else {
			cmd = s.setNotice(fmt.Sprintf("%s not found, showing %s", want, day))
		}
	}
	s.sess.NewDay(day, s.data.Entries(day))
	s.sess.SetMode(s.deps.Mode)
	s.resetView()

	s.deps.Logger.Info("word data loaded",
		zap.String("session", s.sess.ID),
		zap.String("source", s.deps.Data.Source()),
		zap.Int("days", len(s.days)),
		zap.String("day", day))
	return s, cmd
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "q" {
		return s, tea.Quit
	}
	if s.loading || s.data == nil {
		return s, nil
	}

	switch key {
	case "left", "h":
		return s, s.move(-1)
	case "right", "l", "n":
		return s, s.move(1)
	case "space", " ":
		if s.sess.Mode == session.ModeFlashcard && s.sess.Phase() == session.PhaseReady {
			s.revealed = true
		}
		return s, nil
	case "s":
		return s, s.speak()
	case "w":
		if err := s.sess.ToggleWrongFilter(); err != nil {
			if errors.Is(err, session.ErrPreconditionFailed) {
				return s, s.setNotice("No wrong answers yet")
			}
			s.deps.Logger.Warn("toggle wrong filter", zap.String("session", s.sess.ID), zap.Error(err))
			return s, nil
		}
		s.deps.Logger.Debug("wrong filter toggled",
			zap.String("session", s.sess.ID),
			zap.Bool("only_wrong", s.sess.OnlyWrong),
			zap.Int("words", len(s.sess.List)))
		s.resetView()
		return s, nil
	case "m":
		s.sess.ToggleMode()
		s.revealed = false
		return s, nil
	case "r":
		s.restart()
		return s, nil
	case "d":
		return s, router.Push(daypicker.New(s.days, s.sess.Day))
	case "x":
		return s, s.requestExample()
	case "enter":
		if s.sess.Phase() == session.PhaseFinished && len(s.sess.List) > 0 {
			return s, s.showSummary()
		}
	}

	if s.sess.Mode == session.ModeQuiz && s.sess.Phase() == session.PhaseReady {
		return s, s.updateChoice(msg)
	}
	return s, nil
}

// updateChoice feeds a key to the choice list and scores a submission.
func (s *QuizScreen) updateChoice(msg tea.Msg) tea.Cmd {
	s.syncChoice()
	if s.choice.Submitted {
		return nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	picked, ok := s.choice.Chosen()
	if !ok {
		return cmd
	}

	index := s.sess.Index
	if _, err := s.sess.SubmitAnswer(index, picked); err != nil {
		s.deps.Logger.Warn("submit answer",
			zap.String("session", s.sess.ID),
			zap.Int("index", index),
			zap.Error(err))
		return cmd
	}

	if s.deps.AutoAdvance <= 0 {
		return cmd
	}
	gen := s.sess.Generation
	return tea.Batch(cmd, tea.Tick(s.deps.AutoAdvance, func(time.Time) tea.Msg {
		return autoAdvanceMsg{Generation: gen, Index: index}
	}))
}

// syncChoice rebuilds the choice list when the question changed.
func (s *QuizScreen) syncChoice() {
	key := choiceKey{generation: s.sess.Generation, index: s.sess.Index}
	if key == s.choiceFor {
		return
	}
	s.choiceFor = key

	entry, ok := s.sess.Current()
	if !ok {
		s.choice = components.MultiChoice{}
		return
	}

	options := s.sess.Choices(s.sess.Index)
	correct := indexOf(options, entry.Meaning)
	if a, done := s.sess.Answered[s.sess.Index]; done {
		s.choice = components.Locked(options, correct, indexOf(options, a.Picked))
		return
	}
	s.choice = components.NewMultiChoice(options, correct)
}

func (s *QuizScreen) move(dir int) tea.Cmd {
	if err := s.sess.Advance(dir); err != nil {
		s.deps.Logger.Warn("advance", zap.String("session", s.sess.ID), zap.Int("dir", dir), zap.Error(err))
		return nil
	}
	return s.afterMove()
}

// afterMove clears per-question view state and opens the summary once the
// last question is passed.
func (s *QuizScreen) afterMove() tea.Cmd {
	s.revealed = false
	s.example = nil
	s.exampleLoading = false
	s.syncChoice()
	if s.sess.Phase() == session.PhaseFinished && len(s.sess.List) > 0 {
		return s.showSummary()
	}
	return nil
}

func (s *QuizScreen) showSummary() tea.Cmd {
	return router.Push(summary.New(s.sess.Summary(), s.sess.Day))
}

func (s *QuizScreen) selectDay(day string) {
	day = vocab.NormalizeDay(day)
	s.sess.NewDay(day, s.data.Entries(day))
	s.deps.Logger.Debug("day selected",
		zap.String("session", s.sess.ID),
		zap.String("day", day),
		zap.Int("words", len(s.sess.List)))
	s.resetView()
}

func (s *QuizScreen) restart() {
	if s.data == nil {
		return
	}
	s.sess.NewDay(s.sess.Day, s.data.Entries(s.sess.Day))
	s.deps.Logger.Debug("restarted", zap.String("session", s.sess.ID), zap.String("day", s.sess.Day))
	s.resetView()
}

func (s *QuizScreen) resetView() {
	s.revealed = false
	s.example = nil
	s.exampleLoading = false
	s.choiceFor = choiceKey{index: -1}
	s.syncChoice()
}

func (s *QuizScreen) speak() tea.Cmd {
	entry, ok := s.sess.Current()
	if !ok {
		return nil
	}
	speaker := s.deps.Speaker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
		defer cancel()
		return spokenMsg{Word: entry.Word, Err: speaker.Speak(ctx, entry.Word)}
	}
}

func (s *QuizScreen) handleSpoken(msg spokenMsg) (screen.Screen, tea.Cmd) {
	if msg.Err == nil {
		return s, nil
	}
	s.deps.Logger.Warn("speak",
		zap.String("session", s.sess.ID),
		zap.String("word", msg.Word),
		zap.Error(msg.Err))
	if errors.Is(msg.Err, speech.ErrUnavailable) {
		return s, s.setNotice("Speech is not available")
	}
	return s, s.setNotice("Could not pronounce " + msg.Word)
}

func (s *QuizScreen) requestExample() tea.Cmd {
	if s.deps.Examples == nil || s.sess.Mode != session.ModeFlashcard {
		return nil
	}
	entry, ok := s.sess.Current()
	if !ok || s.exampleLoading {
		return nil
	}
	if ex, ok := s.deps.Examples.Cached(entry); ok {
		s.example = ex
		return nil
	}

	s.exampleLoading = true
	svc := s.deps.Examples
	id := s.sess.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(llm.WithSession(context.Background(), id), exampleTimeout)
		defer cancel()
		ex, err := svc.Generate(ctx, entry)
		return exampleReadyMsg{Entry: entry, Example: ex, Err: err}
	}
}

func (s *QuizScreen) handleExample(msg exampleReadyMsg) (screen.Screen, tea.Cmd) {
	current, ok := s.sess.Current()
	if !ok || current != msg.Entry {
		return s, nil
	}
	s.exampleLoading = false

	if msg.Err != nil {
		s.deps.Logger.Warn("generate example",
			zap.String("session", s.sess.ID),
			zap.String("word", msg.Entry.Word),
			zap.Error(msg.Err))
		text := "Example sentence unavailable"
		if kind, ok := llm.KindOf(msg.Err); ok && kind == llm.KindRateLimit {
			text = "Example sentence rate limited, try again shortly"
		}
		return s, s.setNotice(text)
	}
	s.example = msg.Example
	return s, nil
}

// setNotice shows a transient message and schedules its removal.
func (s *QuizScreen) setNotice(text string) tea.Cmd {
	s.noticeID++
	s.notice = text
	id := s.noticeID
	return tea.Tick(s.deps.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{ID: id}
	})
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}

func progressLine(p session.Progress) string {
	return strings.Join([]string{
		fmt.Sprintf("Progress: %d / %d", p.Current, p.Total),
		fmt.Sprintf("Correct: %d", p.Correct),
		fmt.Sprintf("Wrong: %d", p.Wrong),
	}, " · ")
}
