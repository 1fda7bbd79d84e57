package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// runner abstracts process execution.
type runner interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// CommandSpeaker speaks through an external TTS program. A new utterance
// cancels the one still playing.
type CommandSpeaker struct {
	command string
	rate    float64
	logger  *zap.Logger
	run     runner

	resolveOnce sync.Once
	path        string
	backend     backend
	voice       *Voice
	resolveErr  error

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCommandSpeaker creates a speaker. An empty command probes espeak-ng,
// espeak and say in that order.
func NewCommandSpeaker(command string, rate float64, logger *zap.Logger) *CommandSpeaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandSpeaker{command: command, rate: rate, logger: logger, run: execRunner{}}
}

// Speak pronounces text, preferring an English voice. It blocks until the
// utterance ends or is superseded.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	if blank(text) {
		return nil
	}
	s.resolveOnce.Do(func() { s.resolve(ctx) })
	if s.resolveErr != nil {
		return s.resolveErr
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	uctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	err := s.run.Run(uctx, s.path, s.backend.args(s.voice, s.rate, text)...)
	if err != nil {
		if errors.Is(uctx.Err(), context.Canceled) && ctx.Err() == nil {
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, s.backend.name, err)
	}
	return nil
}

func (s *CommandSpeaker) resolve(ctx context.Context) {
	candidates := autoOrder
	if s.command != "" {
		candidates = []string{s.command}
	}

	for _, c := range candidates {
		path, err := s.run.LookPath(c)
		if err != nil {
			continue
		}
		s.path = path
		s.backend = backendFor(c)
		break
	}
	if s.path == "" {
		s.resolveErr = fmt.Errorf("%w: no engine found (tried %v)", ErrUnavailable, candidates)
		return
	}

	if s.backend.parse == nil {
		return
	}
	out, err := s.run.Output(ctx, s.path, s.backend.voicesArgs...)
	if err != nil {
		s.logger.Debug("listing voices failed", zap.String("engine", s.backend.name), zap.Error(err))
		return
	}
	if v, ok := PickVoice(s.backend.parse(out)); ok {
		s.voice = &v
		s.logger.Debug("speech voice selected", zap.String("engine", s.backend.name),
			zap.String("voice", v.Name), zap.String("lang", v.Lang))
	}
}
