// Package assetcache keeps a versioned offline copy of the application's
// assets. The word list is fetched network-first; everything else is served
// cache-first.
package assetcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/wordmax/internal/store"
)

var (
	ErrNotCached = errors.New("assetcache: resource not cached")
	ErrChecksum  = errors.New("assetcache: checksum verification failed")
)

// DefaultDataFile is the name of the word list resource.
const DefaultDataFile = "data.json"

// Resource is a fetched response body.
type Resource struct {
	URL         string
	ContentType string
	Body        []byte
	FromCache   bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient sets the client used for network fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithDataFile changes which resource is treated as the network-first data file.
func WithDataFile(name string) Option {
	return func(c *Cache) { c.dataFile = name }
}

// Cache is the asset cache interceptor.
type Cache struct {
	repo       store.CacheRepo
	generation string
	dataFile   string
	client     *http.Client
	logger     *zap.Logger
}

// New creates a Cache writing to generation.
func New(repo store.CacheRepo, generation string, opts ...Option) *Cache {
	if generation == "" {
		generation = DefaultGeneration
	}
	c := &Cache{
		repo:       repo,
		generation: generation,
		dataFile:   DefaultDataFile,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generation returns the active generation name.
func (c *Cache) Generation() string {
	return c.generation
}

// Install fetches every manifest entry and stores them in the current
// generation. Nothing is written unless every entry fetches and verifies.
func (c *Cache) Install(ctx context.Context, m Manifest) (int, error) {
	var entries []store.CacheEntry
	for _, e := range m.Entries {
		u, err := m.Resolve(e)
		if err != nil {
			return 0, err
		}
		res, err := c.download(ctx, u)
		if err != nil {
			return 0, fmt.Errorf("install %s: %w", e.Path, err)
		}
		if e.SHA256 != "" {
			if err := verifyChecksum(res.Body, e.SHA256); err != nil {
				return 0, fmt.Errorf("install %s: %w", e.Path, err)
			}
		}
		entries = append(entries, c.entry(res))
	}

	for _, e := range entries {
		if err := c.repo.Put(ctx, e); err != nil {
			return 0, err
		}
	}
	c.logger.Info("cache installed",
		zap.String("generation", c.generation),
		zap.Int("entries", len(entries)))
	return len(entries), nil
}

// Activate deletes every generation other than the current one and returns
// the deleted names.
func (c *Cache) Activate(ctx context.Context) ([]string, error) {
	gens, err := c.repo.Generations(ctx)
	if err != nil {
		return nil, err
	}

	var deleted []string
	for _, g := range gens {
		if g.Name == c.generation {
			continue
		}
		if newerThan(g.Name, c.generation) {
			c.logger.Warn("activating an older cache generation",
				zap.String("current", c.generation),
				zap.String("deleting", g.Name))
		}
		if _, err := c.repo.DeleteGeneration(ctx, g.Name); err != nil {
			return deleted, err
		}
		deleted = append(deleted, g.Name)
	}
	if len(deleted) > 0 {
		c.logger.Info("cache activated",
			zap.String("generation", c.generation),
			zap.Strings("deleted", deleted))
	}
	return deleted, nil
}

// Clear drops the current generation.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	return c.repo.DeleteGeneration(ctx, c.generation)
}

// IsData reports whether rawURL names the data resource.
func (c *Cache) IsData(rawURL string) bool {
	return strings.Contains(rawURL, c.dataFile)
}

// Fetch resolves rawURL through the cache policy.
func (c *Cache) Fetch(ctx context.Context, rawURL string) (*Resource, error) {
	if c.IsData(rawURL) {
		return c.networkFirst(ctx, rawURL)
	}
	return c.cacheFirst(ctx, rawURL)
}

// Get returns just the body of Fetch.
func (c *Cache) Get(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

func (c *Cache) networkFirst(ctx context.Context, rawURL string) (*Resource, error) {
	res, netErr := c.download(ctx, rawURL)
	if netErr == nil {
		if err := c.repo.Put(ctx, c.entry(res)); err != nil {
			c.logger.Warn("cache refresh failed", zap.String("url", rawURL), zap.Error(err))
		}
		return res, nil
	}

	cached, err := c.lookup(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return nil, fmt.Errorf("%w: %s (network: %v)", ErrNotCached, rawURL, netErr)
	}
	c.logger.Debug("serving data from cache", zap.String("url", rawURL), zap.Error(netErr))
	return cached, nil
}

func (c *Cache) cacheFirst(ctx context.Context, rawURL string) (*Resource, error) {
	cached, err := c.lookup(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}
	return c.download(ctx, rawURL)
}

func (c *Cache) lookup(ctx context.Context, rawURL string) (*Resource, error) {
	e, err := c.repo.Get(ctx, c.generation, cacheKey(rawURL))
	if err != nil || e == nil {
		return nil, err
	}
	return &Resource{URL: rawURL, ContentType: e.ContentType, Body: e.Body, FromCache: true}, nil
}

func (c *Cache) entry(res *Resource) store.CacheEntry {
	return store.CacheEntry{
		Generation:  c.generation,
		URL:         cacheKey(res.URL),
		ContentType: res.ContentType,
		Body:        res.Body,
		SHA256:      checksum(res.Body),
	}
}

func (c *Cache) download(ctx context.Context, rawURL string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Resource{URL: rawURL, ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

// cacheKey drops the fragment so "a.js#x" and "a.js" share an entry.
func cacheKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	return u.String()
}
