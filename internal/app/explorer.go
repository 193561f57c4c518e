package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/cache"
	"github.com/siddhixshah/News-Analysis/internal/config"
	"github.com/siddhixshah/News-Analysis/internal/domain"
	"github.com/siddhixshah/News-Analysis/internal/enrich"
	"github.com/siddhixshah/News-Analysis/internal/export"
	"github.com/siddhixshah/News-Analysis/internal/logger"
	"github.com/siddhixshah/News-Analysis/internal/sentiment"
	"github.com/siddhixshah/News-Analysis/internal/tickers"
	"github.com/siddhixshah/News-Analysis/pkg/gnews"
	"github.com/siddhixshah/News-Analysis/pkg/httpclient"
)

// Explorer runs one cached news fetch for a ticker, annotates sentiment, and
// renders the result through the logger with optional CSV output.
type Explorer struct {
	cfg      *config.Config
	registry *tickers.Registry
	fetcher  *cache.CachedFetcher
	enricher *enrich.Enricher
	store    cache.Store
}

// NewExplorer wires the fetch pipeline from config.
func NewExplorer(cfg *config.Config) (*Explorer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	registry := loadTickers(cfg)

	store, err := cache.NewStore(cfg.CacheType, cfg.BBoltPath, cache.Options{TTL: cfg.CacheTTL})
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	fetcher := gnews.NewFetcher(client, credentials(cfg))
	fetcher.SetBaseURL(cfg.GNewsBaseURL)

	var enricher *enrich.Enricher
	if cfg.EnrichArticles {
		enricher = enrich.New(client, time.Duration(cfg.EnrichDelayMs)*time.Millisecond)
	}

	return &Explorer{
		cfg:      cfg,
		registry: registry,
		fetcher:  cache.NewCachedFetcher(fetcher.Fetch, store),
		enricher: enricher,
		store:    store,
	}, nil
}

// Close releases the cache backend.
func (e *Explorer) Close() {
	if e == nil || e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		logger.ErrorObj("cache close failed", "error", err)
	}
}

// Run fetches, annotates, and renders news for the given ticker symbol,
// writing a CSV file when csvPath is non-empty.
func (e *Explorer) Run(ctx context.Context, symbol, csvPath string) error {
	if e == nil || e.fetcher == nil {
		return fmt.Errorf("explorer is not initialized")
	}

	tk, ok := e.registry.BySymbol(symbol)
	if !ok {
		return fmt.Errorf("unknown ticker %q (known: %v)", symbol, symbols(e.registry))
	}

	annotated, err := e.fetchAnnotated(ctx, tk)
	if err != nil {
		return err
	}

	logger.InfoObj("news fetched", "fetch_result", map[string]any{
		"ticker":   tk.Symbol,
		"company":  tk.Company,
		"articles": len(annotated),
	})

	for _, art := range annotated {
		logger.InfoObj("article", "article", map[string]any{
			"title":     art.Title,
			"source":    art.Source,
			"published": art.PublishedAt,
			"url":       art.URL,
			"sentiment": string(art.Sentiment),
		})
	}

	if csvPath != "" {
		if err := export.WriteCSVFile(csvPath, annotated); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.InfoObj("csv written", "csv_path", csvPath)
	}

	return nil
}

// fetchAnnotated runs the cached fetch for the ticker over the configured
// date range and returns the sentiment-annotated articles, newest first.
func (e *Explorer) fetchAnnotated(ctx context.Context, tk tickers.Ticker) ([]domain.AnnotatedArticle, error) {
	now := time.Now().UTC()
	q := gnews.Query{
		Text:     tk.Query(),
		From:     now.AddDate(0, 0, -e.cfg.RangeDays),
		To:       now,
		MaxPages: e.cfg.MaxPages,
		PageSize: e.cfg.PageSize,
	}

	articles, err := e.fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", tk.Symbol, err)
	}

	if e.enricher != nil {
		articles = e.enricher.Enrich(ctx, articles)
	}

	annotated := sentiment.Annotate(articles)
	sortByPublishedDesc(annotated)
	return annotated, nil
}

// sortByPublishedDesc orders newest first; articles without a parseable
// timestamp sort last, keeping their relative order.
func sortByPublishedDesc(articles []domain.AnnotatedArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].Published, articles[j].Published
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
}

// loadTickers reads the configured registry, falling back to the built-in
// universe when no file is configured or loading fails.
func loadTickers(cfg *config.Config) *tickers.Registry {
	if cfg.TickersFile == "" {
		return tickers.Builtin()
	}
	registry, err := tickers.Load(cfg.TickersFile)
	if err != nil {
		logger.WarnObj("tickers file not usable, using built-in list", "tickers_error", map[string]any{
			"path":  cfg.TickersFile,
			"error": err.Error(),
		})
		return tickers.Builtin()
	}
	return registry
}

func symbols(registry *tickers.Registry) []string {
	all := registry.All()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.Symbol)
	}
	return out
}

// credentials prefers the configured key and falls back to the environment
// lookup on each fetch.
func credentials(cfg *config.Config) gnews.Credentials {
	if cfg.GNewsAPIKey != "" {
		return gnews.StaticCredentials(cfg.GNewsAPIKey)
	}
	return gnews.EnvCredentials()
}
