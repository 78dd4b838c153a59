// Package indexer builds the search index from the group catalogue.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quimicadatos/cuadro-search/internal/catalog"
	"github.com/quimicadatos/cuadro-search/internal/config"
	"github.com/quimicadatos/cuadro-search/internal/fetcher"
	"github.com/quimicadatos/cuadro-search/internal/metrics"
	"github.com/quimicadatos/cuadro-search/internal/search"
)

// ErrAlreadyIndexing is returned when a build is requested while one runs.
var ErrAlreadyIndexing = errors.New("indexing already in progress")

// Source retrieves a group page by its catalogue reference.
type Source interface {
	Fetch(ctx context.Context, ref string) (*fetcher.Page, error)
}

// Resolver is implemented by sources that address pages by URL. Only those
// go through the politeness gate.
type Resolver interface {
	Resolve(ref string) (string, error)
}

// Gate decides when, and whether, a URL may be requested.
type Gate interface {
	Acquire(ctx context.Context, rawURL string) error
}

// Indexer feeds every catalogue group into the search engine
type Indexer struct {
	Config     *config.Config
	Logger     *logrus.Entry
	Groups     []catalog.Group
	Source     Source
	Politeness Gate
	Search     *search.Engine
	Metrics    *metrics.Metrics

	mu     sync.RWMutex
	cancel context.CancelFunc
	done   chan struct{}
	stats  Stats
}

// Stats describes the last or current build
type Stats struct {
	Indexing   bool      `json:"indexing"`
	Groups     int       `json:"groups"`
	Documents  int       `json:"documents"`
	Failed     int       `json:"failed"`
	StartTime  time.Time `json:"started_at"`
	FinishTime time.Time `json:"finished_at"`
	LastError  string    `json:"last_error,omitempty"`
}

func NewIndexer(cfg *config.Config, logger *logrus.Entry, src Source, eng *search.Engine, groups []catalog.Group) *Indexer {
	if logger == nil {
		logger = logrus.WithField("component", "indexer")
	}
	return &Indexer{
		Config: cfg,
		Logger: logger,
		Groups: groups,
		Source: src,
		Search: eng,
	}
}

// Build rebuilds the index synchronously. Groups that fail are logged and
// skipped; only cancellation of ctx aborts the build.
func (ix *Indexer) Build(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := ix.begin(cancel, nil); err != nil {
		return err
	}
	defer ix.finish()
	return ix.run(ctx)
}

// Start rebuilds the index in the background. Queries issued meanwhile see
// the documents indexed so far.
func (ix *Indexer) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	if err := ix.begin(cancel, done); err != nil {
		cancel()
		return err
	}

	go func() {
		defer close(done)
		defer ix.finish()
		defer cancel()
		if err := ix.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			ix.Logger.WithError(err).Error("Index build aborted")
		}
	}()
	return nil
}

// Stop cancels a running build and waits for a background one to return.
func (ix *Indexer) Stop() {
	ix.mu.RLock()
	cancel, done := ix.cancel, ix.done
	ix.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until a background build started with Start finishes.
func (ix *Indexer) Wait() {
	ix.mu.RLock()
	done := ix.done
	ix.mu.RUnlock()
	if done != nil {
		<-done
	}
}

func (ix *Indexer) IsIndexing() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.stats.Indexing
}

func (ix *Indexer) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.stats
}

// SourceRef is the link shown to users for a group.
func (ix *Indexer) SourceRef(g catalog.Group) string {
	if ix.Config == nil {
		return g.Href
	}
	return ix.Config.Corpus.LinkBase + g.Href
}

func (ix *Indexer) begin(cancel context.CancelFunc, done chan struct{}) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.stats.Indexing {
		return ErrAlreadyIndexing
	}
	ix.cancel = cancel
	ix.done = done
	ix.stats = Stats{
		Indexing:  true,
		Groups:    len(ix.Groups),
		StartTime: time.Now(),
	}
	ix.Metrics.IndexingStarted()
	return nil
}

func (ix *Indexer) finish() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.stats.Indexing = false
	ix.stats.FinishTime = time.Now()
	ix.cancel = nil
	ix.Metrics.IndexingFinished()
}

func (ix *Indexer) run(ctx context.Context) error {
	ix.Search.Reset()
	ix.Logger.WithField("groups", len(ix.Groups)).Info("Index build started")

	for _, g := range ix.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := ix.indexGroup(ctx, g); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			ix.Logger.WithError(err).WithFields(logrus.Fields{
				"group": g.Number,
				"href":  g.Href,
			}).Warn("Search indexing failed for group")

			ix.mu.Lock()
			ix.stats.Failed++
			ix.stats.LastError = err.Error()
			ix.mu.Unlock()
			continue
		}

		ix.mu.Lock()
		ix.stats.Documents++
		ix.mu.Unlock()
		ix.Metrics.DocumentIndexed(ix.Search.Len())
	}

	stats := ix.Stats()
	ix.Logger.WithFields(logrus.Fields{
		"documents": stats.Documents,
		"failed":    stats.Failed,
		"took":      time.Since(stats.StartTime).String(),
	}).Info("Index build finished")
	return nil
}

func (ix *Indexer) indexGroup(ctx context.Context, g catalog.Group) error {
	if ix.Politeness != nil {
		if r, ok := ix.Source.(Resolver); ok {
			target, err := r.Resolve(g.Href)
			if err != nil {
				ix.Metrics.IngestFailed("resolve")
				return err
			}
			if err := ix.Politeness.Acquire(ctx, target); err != nil {
				ix.Metrics.IngestFailed("politeness")
				return err
			}
		}
	}

	page, err := ix.Source.Fetch(ctx, g.Href)
	if err != nil {
		ix.Metrics.IngestFailed("fetch")
		return fmt.Errorf("group %d: %w", g.Number, err)
	}
	if page == nil {
		ix.Metrics.IngestFailed("empty")
		return fmt.Errorf("group %d: no content", g.Number)
	}

	ix.Search.Index(g.ID(), g.Name, ix.SourceRef(g), page.Chunks(g.Name)...)
	return nil
}
