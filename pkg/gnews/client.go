package gnews

// Package gnews implements the GNews search API client: request building,
// response decoding, and normalization into domain articles.

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/domain"
)

// DefaultBaseURL is the GNews v4 search endpoint.
const DefaultBaseURL = "https://gnews.io/api/v4/search"

// APIKeyEnvVar is the environment variable the default credentials read.
const APIKeyEnvVar = "GOOGLE_NEWS_API_KEY"

// Credentials supplies the API key at call time so tests can substitute
// fixed values without mutating the process environment.
type Credentials func() string

// EnvCredentials reads the API key from the environment on each fetch.
func EnvCredentials() Credentials {
	return func() string { return os.Getenv(APIKeyEnvVar) }
}

// StaticCredentials always returns the given key.
func StaticCredentials(key string) Credentials {
	return func() string { return key }
}

// Query describes one search: the query text, the inclusive date window,
// and the pagination limits.
type Query struct {
	Text     string
	From     time.Time
	To       time.Time
	MaxPages int
	PageSize int
}

const (
	defaultMaxPages = 3
	defaultPageSize = 50
)

// normalized fills pagination defaults for zero or negative limits.
func (q Query) normalized() Query {
	if q.MaxPages <= 0 {
		q.MaxPages = defaultMaxPages
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	return q
}

// Key returns the cache identity of the query: two queries with equal keys
// may share a cached result.
func (q Query) Key() string {
	q = q.normalized()
	parts := []string{
		strings.TrimSpace(q.Text),
		isoTimestamp(q.From),
		isoTimestamp(q.To),
		strconv.Itoa(q.MaxPages),
		strconv.Itoa(q.PageSize),
	}
	return strings.Join(parts, "|")
}

// isoTimestamp renders the ISO-8601 form the API expects, with a trailing Z.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// searchParams builds the query parameters for one page request.
func searchParams(apiKey string, q Query, page int) map[string]string {
	return map[string]string{
		"apikey": apiKey,
		"q":      q.Text,
		"from":   isoTimestamp(q.From),
		"to":     isoTimestamp(q.To),
		"lang":   "en",
		"max":    strconv.Itoa(q.PageSize),
		"page":   strconv.Itoa(page),
	}
}

// searchResponse mirrors the GNews search response body.
type searchResponse struct {
	TotalArticles int              `json:"totalArticles"`
	Articles      []articlePayload `json:"articles"`
}

type articlePayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	URL         string        `json:"url"`
	Image       string        `json:"image"`
	PublishedAt string        `json:"publishedAt"`
	Source      sourcePayload `json:"source"`
}

type sourcePayload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// decodeArticles parses a 200 response body into normalized articles.
// A body that cannot be decoded is reported so callers can treat it as
// an empty page.
func decodeArticles(body []byte) ([]domain.Article, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(resp.Articles))
	for _, p := range resp.Articles {
		articles = append(articles, p.normalize())
	}
	return articles, nil
}

// normalize maps the provider payload onto the domain article, keeping the
// raw publishedAt string and parsing it best-effort. An unparseable
// timestamp leaves the parsed time zero; the record is kept.
func (p articlePayload) normalize() domain.Article {
	art := domain.Article{
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Content:     p.Content,
		URL:         strings.TrimSpace(p.URL),
		ImageURL:    strings.TrimSpace(p.Image),
		Source:      strings.TrimSpace(p.Source.Name),
		PublishedAt: strings.TrimSpace(p.PublishedAt),
	}
	if art.PublishedAt != "" {
		if ts, err := time.Parse(time.RFC3339, art.PublishedAt); err == nil {
			art.Published = ts
		}
	}
	return art
}
