package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an origin's assets through the offline cache",
	Long: `Mirror the web build of WordMax through the local asset cache. The word
list is fetched network-first and refreshed in the cache; every other asset is
served from the cache when present. Point a browser at the address to keep
studying while the origin is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Cache.Origin == "" {
			return errors.New("no origin: pass --origin or set cache.origin (WORDMAX_CACHE_ORIGIN)")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		cache := newCache(st)
		server := &http.Server{
			Addr:              cfg.Serve.Addr,
			Handler:           cache.Handler(cfg.Cache.Origin),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return serve(cmd.Context(), server)
	},
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", server.Addr),
			zap.String("origin", cfg.Cache.Origin))
		fmt.Printf("Serving %s on http://%s\n", cfg.Cache.Origin, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides serve.addr)")
	serveCmd.Flags().String("origin", "", "Origin base URL to mirror (overrides cache.origin)")
}
