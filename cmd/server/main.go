package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quimicadatos/cuadro-search/internal/api"
	"github.com/quimicadatos/cuadro-search/internal/catalog"
	"github.com/quimicadatos/cuadro-search/internal/config"
	"github.com/quimicadatos/cuadro-search/internal/fetcher"
	"github.com/quimicadatos/cuadro-search/internal/indexer"
	"github.com/quimicadatos/cuadro-search/internal/metrics"
	"github.com/quimicadatos/cuadro-search/internal/politeness"
	"github.com/quimicadatos/cuadro-search/internal/search"
	"github.com/quimicadatos/cuadro-search/internal/storage"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:          "cuadro-search",
		Short:        "Full-text search over the medicines table groups",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.Corpus.BaseURL, "base-url", cfg.Corpus.BaseURL, "fetch group pages over HTTP relative to this URL")
	root.PersistentFlags().StringVar(&cfg.Corpus.Dir, "dir", cfg.Corpus.Dir, "read group pages from this directory when no base URL is set")
	root.PersistentFlags().StringVar(&cfg.Corpus.CatalogFile, "catalog", cfg.Corpus.CatalogFile, "YAML file overriding the built-in group catalogue")
	root.PersistentFlags().StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Index the corpus and run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	serve.Flags().StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Index the corpus and print the results of one query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cfg, joinArgs(args), cmd.OutOrStdout())
		},
	}

	groups := &cobra.Command{
		Use:   "groups",
		Short: "List the group catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadGroups(cfg)
			if err != nil {
				return err
			}
			printGroups(cmd.OutOrStdout(), list)
			return nil
		},
	}

	root.AddCommand(serve, searchCmd, groups)
	root.RunE = serve.RunE
	return root
}

// newLogger sets up logging from config
func newLogger(cfg config.LogConfig) *logrus.Entry {
	logger := logrus.New()
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger.WithField("service", "cuadro-search")
}

func loadGroups(cfg *config.Config) ([]catalog.Group, error) {
	if cfg.Corpus.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.Corpus.CatalogFile)
}

// newSource picks HTTP retrieval when a base URL is configured and the local
// directory otherwise. Only HTTP retrieval is rate limited.
func newSource(cfg *config.Config, log *logrus.Entry) (indexer.Source, indexer.Gate, error) {
	if cfg.Corpus.BaseURL != "" {
		f, err := fetcher.NewFetcher(cfg.Corpus.BaseURL, cfg.Fetch.Timeout, fetcher.Options{
			UserAgent:    cfg.Fetch.UserAgent,
			MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		})
		if err != nil {
			return nil, nil, err
		}
		pm := politeness.NewPolitenessManager(cfg.Politeness, log.WithField("component", "politeness"))
		return f, pm, nil
	}

	fs, err := storage.NewFileStorage(cfg.Corpus.Dir)
	if err != nil {
		return nil, nil, err
	}
	return fs, nil, nil
}

func newIndexer(cfg *config.Config, log *logrus.Entry, eng *search.Engine) (*indexer.Indexer, error) {
	groups, err := loadGroups(cfg)
	if err != nil {
		return nil, err
	}
	src, gate, err := newSource(cfg, log)
	if err != nil {
		return nil, err
	}
	ix := indexer.NewIndexer(cfg, log.WithField("component", "indexer"), src, eng, groups)
	ix.Politeness = gate
	return ix, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	entry := newLogger(cfg.Log)
	entry.Info("Starting cuadro search service")

	eng := search.NewEngine(entry.WithField("component", "search"))
	ix, err := newIndexer(cfg, entry, eng)
	if err != nil {
		entry.WithError(err).Error("Failed to initialize indexer")
		return err
	}
	m := metrics.New()
	ix.Metrics = m

	if cfg.Corpus.IndexOnStartup {
		if err := ix.Start(); err != nil {
			return err
		}
	}

	server := api.NewServer(eng, ix, m, entry.WithField("component", "api"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		ix.Stop()
		return err
	case <-ctx.Done():
	}

	entry.Info("Shutting down")
	ix.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func runSearch(ctx context.Context, cfg *config.Config, query string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	entry := newLogger(cfg.Log)

	eng := search.NewEngine(entry.WithField("component", "search"))
	ix, err := newIndexer(cfg, entry, eng)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := ix.Build(ctx); err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	entry.WithField("took", time.Since(start).String()).Debug("Index ready")

	printResults(out, eng.Search(query))
	return nil
}
