package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/abhisek/wordmax/internal/config"
	"github.com/abhisek/wordmax/internal/logger"
	"github.com/abhisek/wordmax/internal/store"
)

var (
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "wordmax",
	Short:         "Vocabulary quiz and flashcards in the terminal",
	Long:          "WordMax drills a day-by-day word list with four-choice quizzes and flashcards, and keeps an offline cache of its assets.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, playOptions{})
	},
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WORDMAX_DB env var)")
	rootCmd.PersistentFlags().String("data", "", "Word list path or URL (overrides WORDMAX_DATA_SOURCE)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./config.yaml or $XDG_CONFIG_HOME/wordmax/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"db":       "db",
	"data":     "data.source",
	"addr":     "serve.addr",
	"origin":   "cache.origin",
	"manifest": "cache.manifest",
}

// setup loads configuration and builds the logger. The TUI owns the
// terminal, so logs go to a file next to the database unless log.file says
// otherwise.
func setup(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	flags := map[string]*pflag.Flag{}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[key] = f
		}
	}

	c, err := config.Load(config.Options{File: file, Flags: flags})
	if err != nil {
		return err
	}
	cfg = c

	dbPath, err := resolveDBPath()
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "wordmax.log")
	}
	l, err := logger.New(cfg.Env, cfg.Log.Level, logPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l
	return nil
}

// resolveDBPath returns the database path from config (flag, then
// WORDMAX_DB), falling back to the default XDG path.
func resolveDBPath() (string, error) {
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the SQLite store at the resolved path.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
