// Package examples generates example sentences for vocabulary words.
package examples

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/wordmax/internal/llm"
	"github.com/abhisek/wordmax/internal/vocab"
)

// Example is a generated sentence for one word.
type Example struct {
	Word        string
	Sentence    string
	Translation string
}

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 256, Temperature: 0.7}
}

// Service generates and memoizes example sentences. It is safe for
// concurrent use.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu   sync.Mutex
	memo map[vocab.WordEntry]*Example
}

// NewService creates a Service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg, memo: make(map[vocab.WordEntry]*Example)}
}

// Cached returns a previously generated example for entry.
func (s *Service) Cached(entry vocab.WordEntry) (*Example, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.memo[entry]
	return ex, ok
}

// Generate returns the example for entry, calling the provider only when
// none is memoized. Failures are not memoized.
func (s *Service) Generate(ctx context.Context, entry vocab.WordEntry) (*Example, error) {
	if ex, ok := s.Cached(entry); ok {
		return ex, nil
	}

	ctx = llm.WithPurpose(ctx, "example")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Word: %s\nMeaning: %s", entry.Word, entry.Meaning),
		}},
		Schema:      SentenceSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("example for %q: %w", entry.Word, err)
	}

	var out struct {
		Sentence    string `json:"sentence"`
		Translation string `json:"translation"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse example response: %w", err)
	}

	ex := &Example{
		Word:        entry.Word,
		Sentence:    strings.TrimSpace(out.Sentence),
		Translation: strings.TrimSpace(out.Translation),
	}
	s.mu.Lock()
	s.memo[entry] = ex
	s.mu.Unlock()
	return ex, nil
}
