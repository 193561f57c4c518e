package app

import (
	"context"
	"fmt"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/config"
	"github.com/siddhixshah/News-Analysis/internal/domain"
	"github.com/siddhixshah/News-Analysis/internal/logger"
	"github.com/siddhixshah/News-Analysis/internal/tickers"
	"github.com/siddhixshah/News-Analysis/pkg/publishers"
)

// Watcher re-fetches news for every configured ticker on an interval and
// fans out articles not yet seen in this process to the configured
// publishers. Tickers are fetched strictly in sequence.
type Watcher struct {
	explorer *Explorer
	fanout   *publishers.Fanout
	interval time.Duration
	seen     map[string]bool
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	explorer, err := NewExplorer(cfg)
	if err != nil {
		return nil, err
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled")
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, logAdapter{})
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubs)

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	logger.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return &Watcher{
		explorer: explorer,
		fanout:   fanout,
		interval: cfg.WatchDuration,
		seen:     make(map[string]bool),
	}, nil
}

// Close releases the underlying explorer resources.
func (w *Watcher) Close() {
	if w == nil {
		return
	}
	w.explorer.Close()
}

// Run starts the watch loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.explorer == nil {
		return fmt.Errorf("watcher is not initialized")
	}

	universe := w.explorer.registry.All()
	if len(universe) == 0 {
		logger.WarnObj("no tickers configured; watcher idle", "tickers_file", w.explorer.cfg.TickersFile)
		<-ctx.Done()
		return ctx.Err()
	}

	logger.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"tickers_count":    len(universe),
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.interval.String(),
	})

	if err := w.runOnce(ctx, universe); err != nil {
		logger.ErrorObj("initial watch pass failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx, universe); err != nil {
				logger.ErrorObj("scheduled watch pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single pass across all tickers.
func (w *Watcher) runOnce(ctx context.Context, universe []tickers.Ticker) error {
	start := time.Now()
	published := 0

	for _, tk := range universe {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := w.watchTicker(ctx, tk)
		if err != nil {
			logger.ErrorObj("ticker watch failed", "ticker_error", map[string]any{
				"ticker": tk.Symbol,
				"error":  err.Error(),
			})
			continue
		}
		published += n
	}

	logger.InfoObj("watch pass completed", "watch_meta", map[string]any{
		"tickers_count": len(universe),
		"published":     published,
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// watchTicker fetches for one ticker and publishes fresh articles.
func (w *Watcher) watchTicker(ctx context.Context, tk tickers.Ticker) (int, error) {
	annotated, err := w.explorer.fetchAnnotated(ctx, tk)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, art := range annotated {
		key := articleKey(tk.Symbol, art.Article)
		if w.seen[key] {
			continue
		}

		evt := publishers.NewEvent(tk.Symbol, tk.Company, tk.Query(), art)
		if _, err := w.fanout.Publish(ctx, evt); err != nil {
			logger.WarnObj("event publish incomplete", "publish_error", map[string]any{
				"ticker": tk.Symbol,
				"url":    art.URL,
				"error":  err.Error(),
			})
		}
		w.seen[key] = true
		published++
	}
	return published, nil
}

// articleKey identifies an article within a ticker stream for in-process
// dedup; the URL is the stable handle, the title a fallback.
func articleKey(symbol string, art domain.Article) string {
	if art.URL != "" {
		return symbol + "|" + art.URL
	}
	return symbol + "|" + art.Title + "|" + art.PublishedAt
}

// logAdapter bridges the package-level logger to the publishers.Logger surface.
type logAdapter struct{}

func (logAdapter) InfoObj(msg, key string, obj interface{})  { logger.InfoObj(msg, key, obj) }
func (logAdapter) DebugObj(msg, key string, obj interface{}) { logger.DebugObj(msg, key, obj) }
func (logAdapter) WarnObj(msg, key string, obj interface{})  { logger.WarnObj(msg, key, obj) }
func (logAdapter) ErrorObj(msg, key string, obj interface{}) { logger.ErrorObj(msg, key, obj) }
