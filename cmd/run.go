package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/wordmax/internal/app"
	"github.com/abhisek/wordmax/internal/assetcache"
	"github.com/abhisek/wordmax/internal/examples"
	"github.com/abhisek/wordmax/internal/llm"
	"github.com/abhisek/wordmax/internal/screens/quiz"
	"github.com/abhisek/wordmax/internal/session"
	"github.com/abhisek/wordmax/internal/speech"
	"github.com/abhisek/wordmax/internal/store"
	"github.com/abhisek/wordmax/internal/vocab"
)

// playOptions are the per-invocation choices of the play command.
type playOptions struct {
	Day  string
	Mode session.Mode
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, po playOptions) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cache := newCache(st)
	deps := quiz.Deps{
		Data:        vocab.NewLoader(cfg.Data.Source, cache),
		Speaker:     newSpeaker(),
		AutoAdvance: cfg.Quiz.AutoAdvance,
		Day:         po.Day,
		Mode:        po.Mode,
		Logger:      log.Named("quiz"),
	}

	llmCfg := cfg.LLM
	if llmCfg.Discover() {
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log.Named("llm"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Example sentences will be unavailable.")
		} else {
			deps.Examples = examples.NewService(provider, examples.DefaultConfig())
		}
	}

	log.Info("starting",
		zap.String("data", cfg.Data.Source),
		zap.String("cache_generation", cache.Generation()),
		zap.Bool("examples", deps.Examples != nil))

	return app.Run(app.Options{Quiz: deps})
}

func newCache(st *store.Store) *assetcache.Cache {
	return assetcache.New(st.CacheRepo(), cfg.Cache.Generation,
		assetcache.WithLogger(log.Named("cache")),
		assetcache.WithDataFile(cfg.Data.FileName),
	)
}

func newSpeaker() speech.Speaker {
	if !cfg.Speech.Enabled {
		return speech.Disabled{}
	}
	return speech.NewCommandSpeaker(cfg.Speech.Command, cfg.Speech.Rate, log.Named("speech"))
}
