package vocab

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
)

// Fetcher retrieves a remote resource. The asset cache interceptor
// implements it with its network-first policy for the data resource.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Loader reads the word list from a local file or a remote URL.
type Loader struct {
	source  string
	fetcher Fetcher
}

// NewLoader creates a Loader for source. fetcher may be nil when source is
// a local path.
func NewLoader(source string, fetcher Fetcher) *Loader {
	return &Loader{source: source, fetcher: fetcher}
}

// Source returns the configured location of the word list.
func (l *Loader) Source() string {
	return l.source
}

// Load fetches and parses the word list. Every failure is a *DataLoadError.
func (l *Loader) Load(ctx context.Context) (DayCollection, error) {
	data, err := l.read(ctx)
	if err != nil {
		return nil, &DataLoadError{Source: l.source, Err: err}
	}

	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		if dle, ok := err.(*DataLoadError); ok {
			dle.Source = l.source
		}
		return nil, err
	}
	return c, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.source == "" {
		return nil, fmt.Errorf("no data source configured")
	}
	if IsRemote(l.source) {
		if l.fetcher == nil {
			return nil, fmt.Errorf("no fetcher for remote source")
		}
		return l.fetcher.Get(ctx, l.source)
	}
	return os.ReadFile(l.source)
}

// IsRemote reports whether source is an HTTP(S) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
