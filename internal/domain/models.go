package domain

import "time"

// Domain contains core models shared across packages.

// Article is a normalized news record as returned by the search API.
// Every field is optional; an absent value stays empty rather than
// failing the fetch. Articles are immutable once constructed.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image,omitempty"`
	Source      string    `json:"source"`
	PublishedAt string    `json:"publishedAt"`
	Published   time.Time `json:"published"`
}

// Sentiment is a coarse sentiment label assigned to an article after
// the fetch; the fetcher itself never sets it.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// AnnotatedArticle pairs an article with its derived sentiment label.
type AnnotatedArticle struct {
	Article
	Sentiment Sentiment `json:"sentiment"`
}
