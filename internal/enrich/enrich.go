package enrich

// Package enrich fills gaps in fetched articles by scraping OG meta tags from
// the article pages. It is best-effort and optional: a failed scrape leaves
// the article as fetched.

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/siddhixshah/News-Analysis/internal/domain"
	"github.com/siddhixshah/News-Analysis/internal/logger"
	"github.com/siddhixshah/News-Analysis/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultDelay     = 500 * time.Millisecond
	defaultTimeout   = 15 * time.Second
)

// Enricher fetches article pages and merges OG metadata into articles that
// are missing a description or image.
type Enricher struct {
	client httpclient.Client
	delay  time.Duration
}

// New constructs an enricher with the provided HTTP client (or default) and
// per-request delay (or the default throttle).
func New(client httpclient.Client, delay time.Duration) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	if delay < 0 {
		delay = defaultDelay
	}
	return &Enricher{client: client, delay: delay}
}

// Enrich iterates articles, fetching each page (with throttling) and merging
// OG metadata. Articles that already carry a description and image are left
// untouched without a request. Cancellation aborts with what has been done.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)

	for i, art := range articles {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		if art.URL == "" || (art.Description != "" && art.ImageURL != "") {
			continue
		}

		enriched, err := e.fetchAndMerge(ctx, art)
		if err != nil {
			logger.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
		} else {
			out[i] = enriched
		}

		if e.delay > 0 && i < len(articles)-1 {
			timer := time.NewTimer(e.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
	}

	return out
}

func (e *Enricher) fetchAndMerge(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, art.URL, nil, nil)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if updated.Description == "" && meta.Description != "" {
		updated.Description = meta.Description
	}
	if updated.ImageURL == "" && meta.ImageURL != "" {
		updated.ImageURL = meta.ImageURL
	}
	if updated.Title == "" && meta.Title != "" {
		updated.Title = meta.Title
	}
	return updated, nil
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm := pageMeta{}
	pm.Title = firstNonEmpty(
		extract(`meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	pm.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)
	pm.ImageURL = extract(`meta[property="og:image"]`)

	return pm, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
