package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose or model.
type LLMUsageStats struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error)
}

// CacheEntry is one stored response in a cache generation.
type CacheEntry struct {
	Generation  string
	URL         string
	ContentType string
	Body        []byte
	SHA256      string
	StoredAt    time.Time
}

// GenerationInfo summarizes one cache generation.
type GenerationInfo struct {
	Name    string
	Entries int
	Bytes   int64
}

// CacheRepo stores asset cache entries grouped by generation.
type CacheRepo interface {
	// Put inserts or replaces the entry for (generation, url).
	Put(ctx context.Context, e CacheEntry) error

	// Get returns the entry, or nil if it is not cached.
	Get(ctx context.Context, generation, url string) (*CacheEntry, error)

	// DeleteGeneration removes every entry of a generation and reports how
	// many were removed.
	DeleteGeneration(ctx context.Context, generation string) (int64, error)

	// Generations lists stored generations ordered by name.
	Generations(ctx context.Context) ([]GenerationInfo, error)
}
