package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no config or env.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{"WORDMAX_ENV", "WORDMAX_DATA_SOURCE", "WORDMAX_LLM_PROVIDER", "WORDMAX_LLM_API_KEY", "WORDMAX_QUIZ_AUTO_ADVANCE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{SkipDotEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "data.json", cfg.Data.Source)
	assert.Equal(t, "wm5-cache-v1", cfg.Cache.Generation)
	assert.Equal(t, 380*time.Millisecond, cfg.Quiz.AutoAdvance)
	assert.InDelta(t, 0.95, cfg.Speech.Rate, 1e-9)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
data:
  source: words.json
quiz:
  auto_advance: 1s
log:
  level: debug
`), 0o644))
	t.Setenv("WORDMAX_QUIZ_AUTO_ADVANCE", "500ms")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data", "", "")
	require.NoError(t, fs.Parse([]string{"--data", "https://example.com/data.json"}))

	cfg, err := Load(Options{SkipDotEnv: true, Flags: map[string]*pflag.Flag{"data.source": fs.Lookup("data")}})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/data.json", cfg.Data.Source)
	assert.Equal(t, 500*time.Millisecond, cfg.Quiz.AutoAdvance)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("data:\n  source: words.json\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data", "", "")

	cfg, err := Load(Options{SkipDotEnv: true, Flags: map[string]*pflag.Flag{"data.source": fs.Lookup("data")}})
	require.NoError(t, err)
	assert.Equal(t, "words.json", cfg.Data.Source)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WORDMAX_LLM_PROVIDER=mock\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("WORDMAX_LLM_PROVIDER") })

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(Options{SkipDotEnv: true, File: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad level", "log:\n  level: loud\n", "Level"},
		{"bad env", "env: staging\n", "Env"},
		{"bad provider", "llm:\n  provider: llama\n", "Provider"},
		{"key required", "llm:\n  provider: openai\n", "WORDMAX_LLM_API_KEY"},
		{"bad addr", "serve:\n  addr: nowhere\n", "Addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.yaml), 0o644))

			_, err := Load(Options{SkipDotEnv: true})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
