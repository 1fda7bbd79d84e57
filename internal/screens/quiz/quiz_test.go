package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/wordmax/internal/examples"
	"github.com/abhisek/wordmax/internal/router"
	"github.com/abhisek/wordmax/internal/screens/daypicker"
	"github.com/abhisek/wordmax/internal/screens/summary"
	"github.com/abhisek/wordmax/internal/session"
	"github.com/abhisek/wordmax/internal/speech"
	"github.com/abhisek/wordmax/internal/vocab"
)

type stubData struct {
	data vocab.DayCollection
	err  error
}

func (s stubData) Load(context.Context) (vocab.DayCollection, error) { return s.data, s.err }
func (s stubData) Source() string                                     { return "test://data.json" }

type stubSpeaker struct {
	mu     sync.Mutex
	spoken []string
	err    error
}

func (s *stubSpeaker) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
	return s.err
}

type stubExamples struct {
	calls int
}

func (s *stubExamples) Cached(vocab.WordEntry) (*examples.Example, bool) { return nil, false }
func (s *stubExamples) Generate(_ context.Context, e vocab.WordEntry) (*examples.Example, error) {
	s.calls++
	return &examples.Example{Word: e.Word, Sentence: "I drink " + e.Word + " every day.", Translation: "translated"}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testData() vocab.DayCollection {
	return vocab.DayCollection{
		"Day1": {
			{Word: "water", Meaning: "물"},
			{Word: "fire", Meaning: "불"},
			{Word: "earth", Meaning: "흙"},
			{Word: "air", Meaning: "공기"},
			{Word: "sun", Meaning: "해"},
		},
		"Day2": {
			{Word: "moon", Meaning: "달"},
			{Word: "star", Meaning: "별"},
		},
		"Day3": {},
	}
}

func loadedScreen(t *testing.T, deps Deps) *QuizScreen {
	t.Helper()
	if deps.Data == nil {
		deps.Data = stubData{data: testData()}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(1, 2))
	}
	s := New(deps)
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s
}

// answerKey returns the digit key that picks want for the current question.
func answerKey(t *testing.T, s *QuizScreen, correct bool) tea.KeyPressMsg {
	t.Helper()
	sess := s.Session()
	entry, ok := sess.Current()
	require.True(t, ok)
	for i, c := range sess.Choices(sess.Index) {
		if (c == entry.Meaning) == correct {
			return keyPress(rune('1' + i))
		}
	}
	t.Fatalf("no %v choice for %q", correct, entry.Word)
	return tea.KeyPressMsg{}
}

func TestQuizScreen_LoadPicksFirstDay(t *testing.T) {
	s := loadedScreen(t, Deps{})

	sess := s.Session()
	assert.Equal(t, "Day1", sess.Day)
	assert.Len(t, sess.List, 5)
	assert.Equal(t, session.PhaseReady, sess.Phase())

	info := s.HeaderInfo()
	assert.Equal(t, "Day1", info.Day)
	assert.Equal(t, "0 / 5", info.Score)
	assert.Contains(t, s.View(80, 20), "Progress: 1 / 5 · Correct: 0 · Wrong: 0")
}

func TestQuizScreen_LoadFailureShowsStatus(t *testing.T) {
	s := loadedScreen(t, Deps{Data: stubData{err: &vocab.DataLoadError{Source: "data.json", Err: errors.New("boom")}}})

	assert.Contains(t, s.View(80, 20), "Could not load word data")
	assert.Equal(t, session.PhaseLoading, s.Session().Phase())

	// Keys are inert without data.
	_, cmd := s.Update(keyPress('w'))
	assert.Nil(t, cmd)
}

func TestQuizScreen_WrongAnswerThenAutoAdvance(t *testing.T) {
	s := loadedScreen(t, Deps{AutoAdvance: time.Millisecond})
	sess := s.Session()
	word := sess.List[0].Word

	_, cmd := s.Update(answerKey(t, s, false))
	require.NotNil(t, cmd, "an answer schedules auto-advance")
	assert.Equal(t, []string{word}, sess.WrongWords)
	assert.Equal(t, 0, sess.CorrectCount)
	assert.Equal(t, 0, sess.Index, "index moves only when the timer fires")

	s.Update(autoAdvanceMsg{Generation: sess.Generation - 1, Index: 0})
	assert.Equal(t, 0, sess.Index, "stale generation is ignored")

	s.Update(autoAdvanceMsg{Generation: sess.Generation, Index: 0})
	assert.Equal(t, 1, sess.Index)

	s.Update(autoAdvanceMsg{Generation: sess.Generation, Index: 0})
	assert.Equal(t, 1, sess.Index, "duplicate timer is ignored")
}

func TestQuizScreen_AnsweredQuestionIsLocked(t *testing.T) {
	s := loadedScreen(t, Deps{})
	sess := s.Session()

	s.Update(answerKey(t, s, true))
	s.Update(answerKey(t, s, false))

	assert.Equal(t, 1, sess.CorrectCount)
	assert.Empty(t, sess.WrongWords)
	assert.Len(t, sess.Answered, 1)
}

func TestQuizScreen_WrongFilterWithoutMistakes(t *testing.T) {
	s := loadedScreen(t, Deps{})
	before := s.Session().List

	_, cmd := s.Update(keyPress('w'))

	assert.NotNil(t, cmd, "notice schedules its own dismissal")
	assert.Equal(t, "No wrong answers yet", s.notice)
	assert.Equal(t, before, s.Session().List)
	assert.False(t, s.Session().OnlyWrong)

	s.Update(noticeExpiredMsg{ID: s.noticeID})
	assert.Empty(t, s.notice)
}

func TestQuizScreen_WrongOnlyReviewScenario(t *testing.T) {
	s := loadedScreen(t, Deps{})
	sess := s.Session()
	word := sess.List[0].Word

	s.Update(answerKey(t, s, false))
	s.Update(keyPress('w'))

	require.True(t, sess.OnlyWrong)
	require.Len(t, sess.List, 1)
	assert.Equal(t, word, sess.List[0].Word)
	assert.True(t, s.HeaderInfo().WrongOnly)

	s.Update(answerKey(t, s, true))
	_, cmd := s.Update(specialKey(tea.KeyRight))

	assert.Equal(t, 100, sess.Summary().Accuracy)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok, "finishing opens the summary")
	assert.IsType(t, &summary.SummaryScreen{}, push.Screen)
}

func TestQuizScreen_PrevNextClamp(t *testing.T) {
	s := loadedScreen(t, Deps{})
	sess := s.Session()

	s.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, 0, sess.Index)

	for range 10 {
		s.Update(keyPress('l'))
	}
	assert.Equal(t, len(sess.List), sess.Index)
	assert.Equal(t, session.PhaseFinished, sess.Phase())
	assert.Contains(t, s.View(80, 20), "All done!")

	s.Update(keyPress('h'))
	assert.Equal(t, len(sess.List)-1, sess.Index)
}

func TestQuizScreen_RestartMsgResets(t *testing.T) {
	s := loadedScreen(t, Deps{})
	sess := s.Session()
	s.Update(answerKey(t, s, false))
	gen := sess.Generation

	s.Update(summary.RestartMsg{})

	assert.Empty(t, sess.WrongWords)
	assert.Empty(t, sess.Answered)
	assert.Equal(t, 0, sess.Index)
	assert.Greater(t, sess.Generation, gen)
}

func TestQuizScreen_DaySelection(t *testing.T) {
	s := loadedScreen(t, Deps{})

	_, cmd := s.Update(keyPress('d'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &daypicker.DayPicker{}, push.Screen)

	s.Update(daypicker.SelectedMsg{Day: "day2"})
	assert.Equal(t, "Day2", s.Session().Day)
	assert.Len(t, s.Session().List, 2)
}

func TestQuizScreen_EmptyDay(t *testing.T) {
	s := loadedScreen(t, Deps{})

	s.Update(daypicker.SelectedMsg{Day: "Day3"})

	assert.Empty(t, s.Session().List)
	assert.Contains(t, s.View(80, 20), "No word data")
	assert.Equal(t, 0, s.Session().Summary().Accuracy)
}

func TestQuizScreen_SpeakCurrentWord(t *testing.T) {
	sp := &stubSpeaker{}
	s := loadedScreen(t, Deps{Speaker: sp})
	word := s.Session().List[0].Word

	_, cmd := s.Update(keyPress('s'))
	require.NotNil(t, cmd)
	msg := cmd()

	assert.Equal(t, []string{word}, sp.spoken)
	_, cmd = s.Update(msg)
	assert.Nil(t, cmd, "successful speech shows no notice")
}

func TestQuizScreen_SpeechUnavailableNotice(t *testing.T) {
	s := loadedScreen(t, Deps{Speaker: &stubSpeaker{err: speech.ErrUnavailable}})
	gen := s.Session().Generation

	_, cmd := s.Update(keyPress('s'))
	s.Update(cmd())

	assert.Equal(t, "Speech is not available", s.notice)
	assert.Equal(t, gen, s.Session().Generation, "speech never touches the session")
}

func TestQuizScreen_FlashcardRevealAndExample(t *testing.T) {
	ex := &stubExamples{}
	s := loadedScreen(t, Deps{Examples: ex})
	entry := s.Session().List[0]

	s.Update(keyPress('m'))
	require.Equal(t, session.ModeFlashcard, s.Session().Mode)
	assert.NotContains(t, s.View(80, 20), entry.Meaning)

	s.Update(specialKey(tea.KeySpace))
	assert.Contains(t, s.View(80, 20), entry.Meaning)

	_, cmd := s.Update(keyPress('x'))
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Equal(t, 1, ex.calls)
	assert.Contains(t, s.View(80, 20), "every day.")

	s.Update(keyPress('l'))
	assert.Nil(t, s.example, "moving on clears the example")
	assert.False(t, s.revealed)
}

func TestQuizScreen_ExampleForStaleEntryIgnored(t *testing.T) {
	s := loadedScreen(t, Deps{Examples: &stubExamples{}})
	s.Update(keyPress('m'))
	stale := s.Session().List[0]
	s.Update(keyPress('l'))

	s.Update(exampleReadyMsg{Entry: stale, Example: &examples.Example{Sentence: "old"}})
	assert.Nil(t, s.example)
}

func TestQuizScreen_ExampleDisabledWithoutService(t *testing.T) {
	s := loadedScreen(t, Deps{})
	s.Update(keyPress('m'))

	_, cmd := s.Update(keyPress('x'))
	assert.Nil(t, cmd)
	for _, h := range s.KeyHints() {
		assert.NotEqual(t, "x", h.Key)
	}
}

func TestQuizScreen_InitialDayAndMode(t *testing.T) {
	s := loadedScreen(t, Deps{Day: "day2", Mode: session.ModeFlashcard})

	assert.Equal(t, "Day2", s.Session().Day)
	assert.Equal(t, session.ModeFlashcard, s.Session().Mode)
	assert.Equal(t, "Flashcards", s.Title())
}

func TestQuizScreen_UnknownInitialDayFallsBack(t *testing.T) {
	s := loadedScreen(t, Deps{Day: "Day99"})

	assert.Equal(t, "Day1", s.Session().Day)
	assert.Equal(t, "Day99 not found, showing Day1", s.notice)
}

func TestQuizScreen_VerdictFollowsChoice(t *testing.T) {
	s := loadedScreen(t, Deps{})
	entry, _ := s.Session().Current()

	s.Update(answerKey(t, s, false))
	assert.Contains(t, s.View(80, 20), "Answer: "+entry.Meaning)

	s.Update(keyPress('l'))
	s.Update(answerKey(t, s, true))
	assert.Contains(t, s.View(80, 20), "Correct!")
}

func TestQuizScreen_ViewDoesNotRebuildChoices(t *testing.T) {
	s := loadedScreen(t, Deps{})
	before := s.choiceFor

	s.Session().Index = 2
	s.View(80, 20)
	assert.Equal(t, before, s.choiceFor)
}

func TestQuizScreen_LogsCarrySessionID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := loadedScreen(t, Deps{Logger: zap.New(core)})
	first := s.Session().ID
	require.NotEmpty(t, first)

	loaded := logs.FilterMessage("word data loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, first, loaded[0].ContextMap()["session"])

	s.Update(keyPress('r'))
	second := s.Session().ID
	assert.NotEqual(t, first, second)

	restarted := logs.FilterMessage("restarted").All()
	require.Len(t, restarted, 1)
	assert.Equal(t, second, restarted[0].ContextMap()["session"])
}

func TestQuizScreen_OwnsAsyncResults(t *testing.T) {
	s := loadedScreen(t, Deps{})

	assert.True(t, s.Owns(autoAdvanceMsg{}))
	assert.True(t, s.Owns(noticeExpiredMsg{}))
	assert.True(t, s.Owns(spokenMsg{}))
	assert.True(t, s.Owns(exampleReadyMsg{}))
	assert.False(t, s.Owns(keyPress('1')))
	assert.False(t, s.Owns(daypicker.SelectedMsg{Day: "Day2"}))
}
