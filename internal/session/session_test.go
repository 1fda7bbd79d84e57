package session

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordmax/internal/vocab"
)

func day1() []vocab.WordEntry {
	return []vocab.WordEntry{
		{Word: "water", Meaning: "물"},
		{Word: "fire", Meaning: "불"},
		{Word: "earth", Meaning: "흙"},
		{Word: "air", Meaning: "공기"},
		{Word: "sun", Meaning: "해"},
	}
}

func newTestSession() *QuizSession {
	return New(WithRand(rand.New(rand.NewPCG(1, 2))))
}

func wrongMeaning(s *QuizSession, index int) string {
	for _, c := range s.Choices(index) {
		if c != s.List[index].Meaning {
			return c
		}
	}
	return "nope"
}

func TestNew_IsLoading(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, PhaseLoading, s.Phase())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestStart_ShufflesPermutation(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	assert.Equal(t, PhaseReady, s.Phase())
	assert.ElementsMatch(t, day1(), s.List)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, uint64(1), s.Generation)
	assert.NotEmpty(t, s.ID)
}

func TestStart_DoesNotAliasInput(t *testing.T) {
	entries := day1()
	s := newTestSession()
	s.Start("Day1", entries, false)
	s.List[0].Word = "changed"

	for _, e := range entries {
		assert.NotEqual(t, "changed", e.Word)
	}
}

func TestScenario_WrongThenReview(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	first := s.List[0]
	a, err := s.SubmitAnswer(0, wrongMeaning(s, 0))
	require.NoError(t, err)
	assert.False(t, a.Correct)
	assert.Equal(t, []string{first.Word}, s.WrongWords)
	assert.Equal(t, 0, s.CorrectCount)

	require.NoError(t, s.ToggleWrongFilter())
	assert.True(t, s.OnlyWrong)
	require.Len(t, s.List, 1)
	assert.Equal(t, first, s.List[0])

	a, err = s.SubmitAnswer(0, first.Meaning)
	require.NoError(t, err)
	assert.True(t, a.Correct)
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 100, s.Summary().Accuracy)
}

func TestScenario_EmptyDay(t *testing.T) {
	s := newTestSession()
	s.Start("Day9", nil, false)

	assert.Empty(t, s.List)
	assert.Equal(t, PhaseFinished, s.Phase())
	sum := s.Summary()
	assert.Equal(t, 0, sum.Accuracy)
	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, Progress{}, s.Progress())
}

func TestAdvance_FinishAndClamp(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	s.Index = len(s.List) - 1

	require.NoError(t, s.Advance(1))
	assert.Equal(t, len(s.List), s.Index)
	assert.Equal(t, PhaseFinished, s.Phase())

	require.NoError(t, s.Advance(1))
	assert.Equal(t, len(s.List), s.Index)
}

func TestAdvance_BackClampsAtZero(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	require.NoError(t, s.Advance(-1))
	assert.Equal(t, 0, s.Index)
}

func TestAdvance_InvalidDirection(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	for _, dir := range []int{0, 2, -3} {
		err := s.Advance(dir)
		assert.ErrorIs(t, err, ErrInvalidState)
	}
	assert.Equal(t, 0, s.Index)
}

func TestSubmitAnswer_Idempotent(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	_, err := s.SubmitAnswer(0, s.List[0].Meaning)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(0, wrongMeaning(s, 0))
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, s.CorrectCount)
	assert.Empty(t, s.WrongWords)
	assert.True(t, s.Answered[0].Correct)
}

func TestSubmitAnswer_OutOfRange(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	_, err := s.SubmitAnswer(len(s.List), "물")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = s.SubmitAnswer(-1, "물")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func correctAnswers(s *QuizSession) int {
	n := 0
	for _, a := range s.Answered {
		if a.Correct {
			n++
		}
	}
	return n
}

func TestCorrectCountMatchesAnswered(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	for i := range s.List {
		pick := s.List[i].Meaning
		if i%2 == 1 {
			pick = wrongMeaning(s, i)
		}
		_, err := s.SubmitAnswer(i, pick)
		require.NoError(t, err)
		assert.Equal(t, correctAnswers(s), s.CorrectCount, "after answering %d", i)
		assert.LessOrEqual(t, len(s.Answered), len(s.List))

		_, err = s.SubmitAnswer(i, s.List[i].Meaning)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, correctAnswers(s), s.CorrectCount, "after re-answering %d", i)
	}
	assert.Equal(t, 3, s.CorrectCount)
	assert.Len(t, s.WrongWords, 2)
	assert.Equal(t, 60, s.Summary().Accuracy)
}

func TestIDChangesOnEveryReset(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	seen := map[string]bool{s.ID: true}

	_, err := s.SubmitAnswer(0, "x")
	require.NoError(t, err)
	require.NoError(t, s.ToggleWrongFilter())
	assert.False(t, seen[s.ID], "wrong filter starts a new pass")
	seen[s.ID] = true

	s.Restart()
	assert.False(t, seen[s.ID], "restart starts a new pass")
	seen[s.ID] = true

	s.NewDay("Day2", day1())
	assert.False(t, seen[s.ID], "new day starts a new pass")
}

func TestWrongWords_InsertionOrderNoDuplicates(t *testing.T) {
	entries := []vocab.WordEntry{
		{Word: "run", Meaning: "달리다"},
		{Word: "run", Meaning: "달리다"},
		{Word: "sit", Meaning: "앉다"},
	}
	s := newTestSession()
	s.Start("Day2", entries, false)

	for i := range s.List {
		_, err := s.SubmitAnswer(i, "x")
		require.NoError(t, err)
	}

	var want []string
	seen := map[string]bool{}
	for _, e := range s.List {
		if !seen[e.Word] {
			seen[e.Word] = true
			want = append(want, e.Word)
		}
	}
	assert.Equal(t, want, s.WrongWords)
	assert.Equal(t, 2, s.Progress().Wrong)
}

func TestToggleWrongFilter_EmptyIsPrecondition(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	s.Index = 2
	gen := s.Generation

	err := s.ToggleWrongFilter()
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.False(t, s.OnlyWrong)
	assert.Equal(t, 2, s.Index)
	assert.Equal(t, gen, s.Generation)
}

func TestToggleWrongFilter_BackToAllKeepsWrongWords(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	_, err := s.SubmitAnswer(0, wrongMeaning(s, 0))
	require.NoError(t, err)
	_, err = s.SubmitAnswer(1, s.List[1].Meaning)
	require.NoError(t, err)

	require.NoError(t, s.ToggleWrongFilter())
	for _, e := range s.List {
		assert.Contains(t, s.WrongWords, e.Word)
	}

	require.NoError(t, s.ToggleWrongFilter())
	assert.False(t, s.OnlyWrong)
	assert.Len(t, s.List, 5)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 0, s.CorrectCount)
	assert.Empty(t, s.Answered)
	assert.Len(t, s.WrongWords, 1)
}

func TestNewDay_ClearsEverything(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	_, err := s.SubmitAnswer(0, wrongMeaning(s, 0))
	require.NoError(t, err)
	require.NoError(t, s.ToggleWrongFilter())

	s.NewDay("Day2", []vocab.WordEntry{{Word: "moon", Meaning: "달"}})
	assert.Equal(t, "Day2", s.Day)
	assert.False(t, s.OnlyWrong)
	assert.Empty(t, s.WrongWords)
	assert.Len(t, s.List, 1)
}

func TestRestart_SameDayFreshPass(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	_, err := s.SubmitAnswer(0, wrongMeaning(s, 0))
	require.NoError(t, err)
	require.NoError(t, s.Advance(1))

	s.Restart()
	assert.Equal(t, "Day1", s.Day)
	assert.Len(t, s.List, 5)
	assert.Equal(t, 0, s.Index)
	assert.Empty(t, s.WrongWords)
	assert.Empty(t, s.Answered)
}

func TestChoices_MemoizedUntilReset(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)

	first := s.Choices(0)
	for range 10 {
		assert.Equal(t, first, s.Choices(0))
	}
	assert.Len(t, first, 4)
	assert.Contains(t, first, s.List[0].Meaning)

	_, err := s.SubmitAnswer(0, first[0])
	require.NoError(t, err)
	assert.Equal(t, first, s.Choices(0))

	assert.Nil(t, s.Choices(len(s.List)))
}

func TestAdvanceIfCurrent(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	gen := s.Generation

	assert.True(t, s.AdvanceIfCurrent(gen, 0))
	assert.Equal(t, 1, s.Index)

	// Same callback firing twice.
	assert.False(t, s.AdvanceIfCurrent(gen, 0))
	assert.Equal(t, 1, s.Index)

	s.Restart()
	assert.False(t, s.AdvanceIfCurrent(gen, 0))
	assert.Equal(t, 0, s.Index)
}

func TestAdvanceIfCurrent_Finished(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	s.Index = len(s.List)

	assert.False(t, s.AdvanceIfCurrent(s.Generation, s.Index))
}

func TestSetMode_KeepsProgress(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	_, err := s.SubmitAnswer(0, s.List[0].Meaning)
	require.NoError(t, err)
	require.NoError(t, s.Advance(1))

	s.SetMode(ModeFlashcard)
	assert.Equal(t, ModeFlashcard, s.Mode)
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, 1, s.CorrectCount)

	s.ToggleMode()
	assert.Equal(t, ModeQuiz, s.Mode)
}

func TestProgress(t *testing.T) {
	s := newTestSession()
	s.Start("Day1", day1(), false)
	_, err := s.SubmitAnswer(0, wrongMeaning(s, 0))
	require.NoError(t, err)
	require.NoError(t, s.Advance(1))

	assert.Equal(t, Progress{Current: 2, Total: 5, Correct: 0, Wrong: 1}, s.Progress())

	s.Index = 5
	assert.Equal(t, 5, s.Progress().Current)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "flashcard", ModeFlashcard.String())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeQuiz, "Quiz": ModeQuiz, "flash": ModeFlashcard, "FLASHCARD": ModeFlashcard} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("cards")
	assert.Error(t, err)
}
