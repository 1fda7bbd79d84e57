package cmd

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordmax/internal/assetcache"
	"github.com/abhisek/wordmax/internal/config"
)

func TestLoadManifest_DefaultsToCoreAssets(t *testing.T) {
	m, err := loadManifest("https://example.com/app", "")
	require.NoError(t, err)
	assert.Len(t, m.Entries, len(assetcache.CoreAssets))
}

func TestLoadManifest_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.txt")
	require.NoError(t, os.WriteFile(path, []byte("# assets\n./index.html\n./data.json\n"), 0o644))

	m, err := loadManifest("https://example.com/app", path)
	require.NoError(t, err)
	assert.Len(t, m.Entries, 2)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := loadManifest("https://example.com", filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg = &config.Config{Cache: config.CacheConfig{Origin: "https://example.com"}}
	t.Cleanup(func() { cfg = nil })

	server := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, server) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
