package sentiment

import (
	"testing"

	"github.com/siddhixshah/News-Analysis/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		text string
		want domain.Sentiment
	}{
		{"empty is neutral", "", domain.SentimentNeutral},
		{"whitespace is neutral", "   ", domain.SentimentNeutral},
		{"positive outweighs", "Shares surge on record profit growth", domain.SentimentPositive},
		{"negative outweighs", "Shares slump after warning of delivery delay", domain.SentimentNegative},
		{"tie is neutral", "Profit hit by delay", domain.SentimentNeutral},
		{"no lexicon hits", "Board meeting scheduled for March", domain.SentimentNeutral},
		{"case insensitive", "RECORD SURGE IN PROFIT", domain.SentimentPositive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.text); got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestAnnotateUsesTitleAndDescription(t *testing.T) {
	articles := []domain.Article{
		{Title: "Quarterly results", Description: "profit surge beats estimates"},
		{Title: "Plant shutdown", Description: "output cut amid demand slump"},
	}

	annotated := Annotate(articles)
	if len(annotated) != 2 {
		t.Fatalf("expected 2 annotated articles, got %d", len(annotated))
	}
	if annotated[0].Sentiment != domain.SentimentPositive {
		t.Errorf("expected positive, got %q", annotated[0].Sentiment)
	}
	if annotated[1].Sentiment != domain.SentimentNegative {
		t.Errorf("expected negative, got %q", annotated[1].Sentiment)
	}
	if annotated[0].Title != "Quarterly results" {
		t.Errorf("annotation must not mutate the article, got %q", annotated[0].Title)
	}
}
