package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	paths   map[string]string
	voices  []byte
	runErr  error
	calls   [][]string
	listed  int
	blockOn chan struct{}
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if p, ok := f.paths[file]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (f *fakeRunner) Output(_ context.Context, _ string, _ ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	return f.voices, nil
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	block := f.blockOn
	f.mu.Unlock()
	if block != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
		}
	}
	return f.runErr
}

const espeakVoices = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-gb           --/M      English_(Great_Britain) gmw/en
 2  en-us           --/M      English_(America)  gmw/en-US
`

const sayVoices = `Amelie              fr_CA    # Bonjour, je m’appelle Amelie.
Daniel              en_GB    # Hello, my name is Daniel.
Bad News            en_US    # The light you see at the end of the tunnel.
`

func TestPickVoice(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		want   string
		ok     bool
	}{
		{"lang tag", []Voice{{Name: "a", Lang: "fr"}, {Name: "b", Lang: "en-US"}}, "b", true},
		{"underscore tag", []Voice{{Name: "d", Lang: "en_GB"}}, "d", true},
		{"bare en", []Voice{{Name: "e", Lang: "en"}}, "e", true},
		{"name fallback", []Voice{{Name: "x", Lang: "fr"}, {Name: "Some English", Lang: "zz"}}, "Some English", true},
		{"french only", []Voice{{Name: "Amelie", Lang: "fr_CA"}}, "", false},
		{"ends not prefix", []Voice{{Name: "q", Lang: "ben"}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := PickVoice(tt.voices)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v.Name)
		})
	}
}

func TestParseEspeakVoices(t *testing.T) {
	voices := parseEspeakVoices([]byte(espeakVoices))
	require.Len(t, voices, 3)
	assert.Equal(t, Voice{Lang: "en-gb", Name: "English_(Great_Britain)"}, voices[1])
}

func TestParseSayVoices(t *testing.T) {
	voices := parseSayVoices([]byte(sayVoices))
	require.Len(t, voices, 3)
	assert.Equal(t, Voice{Name: "Bad News", Lang: "en_US"}, voices[2])
}

func TestCommandSpeaker_Espeak(t *testing.T) {
	f := &fakeRunner{paths: map[string]string{"espeak-ng": "/usr/bin/espeak-ng"}, voices: []byte(espeakVoices)}
	s := NewCommandSpeaker("", DefaultRate, nil)
	s.run = f

	require.NoError(t, s.Speak(context.Background(), "water"))
	require.NoError(t, s.Speak(context.Background(), "fire"))

	assert.Equal(t, 1, f.listed)
	require.Len(t, f.calls, 2)
	assert.Equal(t, []string{"/usr/bin/espeak-ng", "-s", "166", "-v", "en-gb", "--", "water"}, f.calls[0])
}

func TestCommandSpeaker_SayFallback(t *testing.T) {
	f := &fakeRunner{paths: map[string]string{"say": "/usr/bin/say"}, voices: []byte(sayVoices)}
	s := NewCommandSpeaker("", DefaultRate, nil)
	s.run = f

	require.NoError(t, s.Speak(context.Background(), "sun"))
	assert.Equal(t, []string{"/usr/bin/say", "-r", "166", "-v", "Daniel", "--", "sun"}, f.calls[0])
}

func TestCommandSpeaker_CustomCommand(t *testing.T) {
	f := &fakeRunner{paths: map[string]string{"/opt/tts": "/opt/tts"}}
	s := NewCommandSpeaker("/opt/tts", DefaultRate, nil)
	s.run = f

	require.NoError(t, s.Speak(context.Background(), "air"))
	assert.Equal(t, 0, f.listed)
	assert.Equal(t, []string{"/opt/tts", "air"}, f.calls[0])
}

func TestCommandSpeaker_Unavailable(t *testing.T) {
	s := NewCommandSpeaker("", DefaultRate, nil)
	s.run = &fakeRunner{}

	err := s.Speak(context.Background(), "earth")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCommandSpeaker_RunFailure(t *testing.T) {
	f := &fakeRunner{paths: map[string]string{"espeak-ng": "espeak-ng"}, runErr: errors.New("exit 1")}
	s := NewCommandSpeaker("", DefaultRate, nil)
	s.run = f

	assert.ErrorIs(t, s.Speak(context.Background(), "earth"), ErrUnavailable)
}

func TestCommandSpeaker_BlankIsNoop(t *testing.T) {
	f := &fakeRunner{}
	s := NewCommandSpeaker("", DefaultRate, nil)
	s.run = f

	assert.NoError(t, s.Speak(context.Background(), "  "))
	assert.Empty(t, f.calls)
}

func TestCommandSpeaker_NewUtteranceCancelsPrevious(t *testing.T) {
	block := make(chan struct{})
	f := &fakeRunner{paths: map[string]string{"espeak-ng": "espeak-ng"}, blockOn: block}
	s := NewCommandSpeaker("", DefaultRate, nil)
	s.run = f

	first := make(chan error, 1)
	go func() { first <- s.Speak(context.Background(), "water") }()

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.calls) == 1
	}, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- s.Speak(context.Background(), "fire") }()

	assert.NoError(t, <-first)
	close(block)
	assert.NoError(t, <-second)
}

func TestDisabled(t *testing.T) {
	assert.ErrorIs(t, Disabled{}.Speak(context.Background(), "x"), ErrUnavailable)
}
