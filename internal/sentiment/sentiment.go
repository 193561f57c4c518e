package sentiment

// Package sentiment assigns a coarse sentiment label to article text using a
// small financial-news lexicon. It is a pure function over the input text and
// runs after the fetch; the fetcher never touches it.

import (
	"strings"

	"github.com/siddhixshah/News-Analysis/internal/domain"
)

var positiveWords = []string{
	"good", "up", "gain", "positive", "beat", "outperform", "buy",
	"profit", "growth", "record", "surge", "rise", "benefit", "upgrade",
}

var negativeWords = []string{
	"loss", "down", "drop", "decline", "miss", "warn", "sell",
	"fall", "slump", "delay", "cut",
}

// Classify labels text as positive, negative, or neutral by counting lexicon
// hits as substrings of the lowercased input. Empty text is neutral.
func Classify(text string) domain.Sentiment {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return domain.SentimentNeutral
	}

	pos := countHits(text, positiveWords)
	neg := countHits(text, negativeWords)

	switch {
	case pos > neg:
		return domain.SentimentPositive
	case neg > pos:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func countHits(text string, words []string) int {
	hits := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			hits++
		}
	}
	return hits
}

// Annotate labels each article from its title and description.
func Annotate(articles []domain.Article) []domain.AnnotatedArticle {
	out := make([]domain.AnnotatedArticle, 0, len(articles))
	for _, art := range articles {
		out = append(out, domain.AnnotatedArticle{
			Article:   art,
			Sentiment: Classify(art.Title + ". " + art.Description),
		})
	}
	return out
}
