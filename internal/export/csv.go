package export

// Package export serializes annotated articles for offline use.

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/siddhixshah/News-Analysis/internal/domain"
)

var csvHeader = []string{"title", "description", "content", "url", "image", "source", "publishedAt", "sentiment"}

// WriteCSV writes articles as CSV with a header row.
func WriteCSV(w io.Writer, articles []domain.AnnotatedArticle) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, a := range articles {
		row := []string{
			a.Title,
			a.Description,
			a.Content,
			a.URL,
			a.ImageURL,
			a.Source,
			a.PublishedAt,
			string(a.Sentiment),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes articles to the named file, creating or truncating it.
func WriteCSVFile(path string, articles []domain.AnnotatedArticle) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	if err := WriteCSV(file, articles); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
