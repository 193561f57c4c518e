package gnews

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/domain"
	"github.com/siddhixshah/News-Analysis/internal/logger"
	"github.com/siddhixshah/News-Analysis/pkg/httpclient"
)

// ErrMissingAPIKey indicates the API credential was absent; the fetch fails
// before any network I/O and is never retried.
var ErrMissingAPIKey = errors.New("gnews api key is not configured")

const (
	defaultMaxRetries  = 3
	defaultHTTPTimeout = 15 * time.Second
)

// Fetcher pages through GNews search results for a query, retrying transient
// failures with exponential backoff. Every failure mode other than a missing
// credential degrades to returning whatever articles were accumulated.
type Fetcher struct {
	client      httpclient.Client
	creds       Credentials
	baseURL     string
	maxRetries  int
	backoffUnit time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewFetcher builds a fetcher with the provided HTTP client (or the resty
// default) and credentials (or the environment lookup).
func NewFetcher(client httpclient.Client, creds Credentials) *Fetcher {
	if client == nil {
		client = httpclient.NewRestyClient(defaultHTTPTimeout)
	}
	if creds == nil {
		creds = EnvCredentials()
	}
	return &Fetcher{
		client:      client,
		creds:       creds,
		baseURL:     DefaultBaseURL,
		maxRetries:  defaultMaxRetries,
		backoffUnit: time.Second,
		sleep:       contextSleep,
	}
}

// SetBaseURL overrides the search endpoint, falling back to the default for
// blank values.
func (f *Fetcher) SetBaseURL(u string) {
	u = strings.TrimSpace(u)
	if u == "" {
		u = DefaultBaseURL
	}
	f.baseURL = u
}

// Fetch returns the ordered concatenation of all article records across pages,
// preserving provider order within each page and page order overall. The
// returned slice may be empty; pagination and rate-limit failures never
// surface as errors.
func (f *Fetcher) Fetch(ctx context.Context, q Query) ([]domain.Article, error) {
	apiKey := strings.TrimSpace(f.creds())
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q = q.normalized()
	all := []domain.Article{}

	for page := 1; page <= q.MaxPages; page++ {
		articles, done := f.fetchPage(ctx, apiKey, q, page)
		all = append(all, articles...)
		if done {
			return all, nil
		}
	}
	return all, nil
}

// fetchPage performs the request for one page, retrying transient failures in
// place. done reports that pagination must stop: an empty or short page, a
// terminal status, exhausted retries, or a malformed body.
func (f *Fetcher) fetchPage(ctx context.Context, apiKey string, q Query, page int) (articles []domain.Article, done bool) {
	params := searchParams(apiKey, q, page)

	attempt := 0
	for {
		resp, err := f.client.Get(ctx, f.baseURL, params, nil)
		if err != nil {
			// network-level failure: timeout, connection error
			attempt++
			if !f.backoff(ctx, q, page, attempt, err.Error()) {
				return nil, true
			}
			continue
		}

		status := resp.StatusCode()
		switch {
		case status == http.StatusOK:
			parsed, err := decodeArticles(resp.Body())
			if err != nil {
				// malformed articles field: treated as an empty page
				logger.WarnObj("gnews response body not decodable", "fetch_decode", map[string]any{
					"query": q.Text,
					"page":  page,
					"error": err.Error(),
				})
				return nil, true
			}
			if len(parsed) == 0 {
				return nil, true
			}
			// short page: no further pages exist
			return parsed, len(parsed) < q.PageSize

		case transientStatus(status):
			attempt++
			if !f.backoff(ctx, q, page, attempt, http.StatusText(status)) {
				return nil, true
			}

		default:
			// terminal for this fetch, no retry
			logger.WarnObj("gnews returned terminal status", "fetch_terminal", map[string]any{
				"query":  q.Text,
				"page":   page,
				"status": status,
			})
			return nil, true
		}
	}
}

// backoff sleeps 2^attempt backoff units before a retry of the same page.
// It returns false once the retry ceiling is exceeded or the wait is
// interrupted, meaning the fetch should stop with what it has.
func (f *Fetcher) backoff(ctx context.Context, q Query, page, attempt int, cause string) bool {
	if attempt > f.maxRetries {
		logger.WarnObj("gnews retries exhausted", "fetch_retries", map[string]any{
			"query":    q.Text,
			"page":     page,
			"attempts": attempt,
			"cause":    cause,
		})
		return false
	}

	wait := f.backoffUnit * time.Duration(1<<attempt)
	logger.DebugObj("gnews transient failure, backing off", "fetch_backoff", map[string]any{
		"query":   q.Text,
		"page":    page,
		"attempt": attempt,
		"wait":    wait.String(),
		"cause":   cause,
	})
	return f.sleep(ctx, wait) == nil
}

// transientStatus reports whether the status is worth retrying: rate limits
// and server-side availability errors only, never client errors.
func transientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// contextSleep waits for d or until the context is cancelled.
func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
