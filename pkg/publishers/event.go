package publishers

import (
	"time"

	"github.com/siddhixshah/News-Analysis/internal/domain"
)

// Event represents one annotated article payload published downstream.
type Event struct {
	Ticker      string                  `json:"ticker"`
	Company     string                  `json:"company,omitempty"`
	Query       string                  `json:"query"`
	Article     domain.AnnotatedArticle `json:"article"`
	CollectedAt time.Time               `json:"collected_at"`
}

// NewEvent constructs an Event for the given ticker + article.
func NewEvent(ticker, company, query string, article domain.AnnotatedArticle) Event {
	return Event{
		Ticker:      ticker,
		Company:     company,
		Query:       query,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}
