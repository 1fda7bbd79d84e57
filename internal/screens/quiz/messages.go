package quiz

import (
	"github.com/abhisek/wordmax/internal/examples"
	"github.com/abhisek/wordmax/internal/vocab"
)

// dataLoadedMsg carries the result of loading the word list.
type dataLoadedMsg struct {
	Data vocab.DayCollection
	Err  error
}

// autoAdvanceMsg fires after an answer. It only moves the session when the
// generation and index it captured are still current.
type autoAdvanceMsg struct {
	Generation uint64
	Index      int
}

// noticeExpiredMsg clears the notice with the matching id.
type noticeExpiredMsg struct {
	ID int
}

// spokenMsg reports the end of an utterance.
type spokenMsg struct {
	Word string
	Err  error
}

// exampleReadyMsg carries a generated example sentence.
type exampleReadyMsg struct {
	Entry   vocab.WordEntry
	Example *examples.Example
	Err     error
}
