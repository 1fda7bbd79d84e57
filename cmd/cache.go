package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordmax/internal/assetcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the offline asset cache",
}

var cacheInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Download the asset manifest into the current cache generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Cache.Origin == "" {
			return errors.New("no origin: pass --origin or set cache.origin (WORDMAX_CACHE_ORIGIN)")
		}

		manifest, err := loadManifest(cfg.Cache.Origin, cfg.Cache.Manifest)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		cache := newCache(st)
		n, err := cache.Install(cmd.Context(), manifest)
		if err != nil {
			return fmt.Errorf("install cache: %w", err)
		}
		fmt.Printf("Installed %d assets into %s\n", n, cache.Generation())

		if activate, _ := cmd.Flags().GetBool("activate"); activate {
			return activateCache(cmd, cache)
		}
		return nil
	},
}

var cacheActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Delete every cache generation except the current one",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		return activateCache(cmd, newCache(st))
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cache generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		gens, err := st.CacheRepo().Generations(cmd.Context())
		if err != nil {
			return fmt.Errorf("list generations: %w", err)
		}
		if len(gens) == 0 {
			fmt.Println("Cache is empty.")
			return nil
		}

		t := newTable([]string{"", "Generation", "Entries", "Bytes"}, 2, 3)
		for _, g := range gens {
			marker := ""
			if g.Name == cfg.Cache.Generation {
				marker = "*"
			}
			t.Row(marker, g.Name, strconv.Itoa(g.Entries), strconv.FormatInt(g.Bytes, 10))
		}
		printTable(t)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every entry of the current cache generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		cache := newCache(st)
		n, err := cache.Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Printf("Removed %d entries from %s\n", n, cache.Generation())
		return nil
	},
}

func activateCache(cmd *cobra.Command, cache *assetcache.Cache) error {
	deleted, err := cache.Activate(cmd.Context())
	if err != nil {
		return fmt.Errorf("activate cache: %w", err)
	}
	if len(deleted) == 0 {
		fmt.Printf("%s is the only generation.\n", cache.Generation())
		return nil
	}
	fmt.Printf("Activated %s, deleted: %s\n", cache.Generation(), strings.Join(deleted, ", "))
	return nil
}

// loadManifest reads the manifest file, or falls back to the core assets.
func loadManifest(base, path string) (assetcache.Manifest, error) {
	if path == "" {
		return assetcache.DefaultManifest(base), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return assetcache.Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := assetcache.ParseManifest(base, f)
	if err != nil {
		return assetcache.Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

func init() {
	cacheInstallCmd.Flags().String("origin", "", "Origin base URL (overrides cache.origin)")
	cacheInstallCmd.Flags().String("manifest", "", "Manifest file of '[sha256]  path' lines (overrides cache.manifest)")
	cacheInstallCmd.Flags().Bool("activate", false, "Delete other generations after a successful install")

	cacheCmd.AddCommand(cacheInstallCmd)
	cacheCmd.AddCommand(cacheActivateCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
