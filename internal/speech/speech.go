// Package speech pronounces words through a local text-to-speech command.
package speech

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// DefaultRate is the speaking rate relative to the engine default.
const DefaultRate = 0.95

// ErrUnavailable is returned when no text-to-speech engine can be used.
var ErrUnavailable = errors.New("speech: text-to-speech unavailable")

// Speaker pronounces text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Voice is one voice reported by the engine.
type Voice struct {
	Name string
	Lang string
}

var (
	englishLang = regexp.MustCompile(`(?i)^en([-_]|$)`)
	englishName = regexp.MustCompile(`(?i)english`)
)

// PickVoice returns the first voice with an English language tag, then the
// first whose name mentions English. ok is false when neither exists.
func PickVoice(voices []Voice) (Voice, bool) {
	for _, v := range voices {
		if englishLang.MatchString(v.Lang) {
			return v, true
		}
	}
	for _, v := range voices {
		if englishName.MatchString(v.Name) {
			return v, true
		}
	}
	return Voice{}, false
}

// Disabled is a Speaker that always reports ErrUnavailable.
type Disabled struct{}

func (Disabled) Speak(context.Context, string) error { return ErrUnavailable }

func blank(s string) bool { return strings.TrimSpace(s) == "" }
