package tickers

// Package tickers holds the (ticker, company name) universe the explorer can
// fetch news for, loaded from a YAML/JSON/CSV file with a built-in fallback.

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ticker pairs an exchange symbol with its company name.
type Ticker struct {
	Symbol  string `json:"ticker" yaml:"ticker"`
	Company string `json:"company_name" yaml:"company_name"`
}

// Query builds the search expression for the ticker: both the symbol and the
// company name, each quoted.
func (t Ticker) Query() string {
	return fmt.Sprintf("%q OR %q", t.Symbol, t.Company)
}

type registryFile struct {
	Tickers []Ticker `json:"tickers" yaml:"tickers"`
}

// Registry is an immutable, ordered ticker universe.
type Registry struct {
	tickers []Ticker
	idx     map[string]Ticker
}

// Builtin returns the default small-cap universe used when no file is
// configured or a configured file cannot be read.
func Builtin() *Registry {
	reg, _ := newRegistry([]Ticker{
		{Symbol: "PNB", Company: "Punjab National Bank"},
		{Symbol: "IDFCFIRSTB", Company: "IDFC First Bank"},
		{Symbol: "TVSMOTOR", Company: "TVS Motor Company"},
		{Symbol: "MSTCLTD", Company: "MSTC Limited"},
		{Symbol: "TATACHEM", Company: "Tata Chemicals"},
	})
	return reg
}

// Load reads a ticker registry from a YAML, JSON, or two-column CSV file.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("tickers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tickers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read tickers file: %w", err)
	}

	list, err := parseTickers(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return newRegistry(list)
}

func parseTickers(data []byte, ext string) ([]Ticker, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	switch ext {
	case ".csv":
		return parseCSV(data)
	case ".yaml", ".yml":
		return parseStructured("yaml", data, yaml.Unmarshal)
	case ".json":
		return parseStructured("json", data, json.Unmarshal)
	}

	// no recognizable extension: try each decoder in turn
	if list, err := parseStructured("yaml", data, yaml.Unmarshal); err == nil {
		return list, nil
	}
	if list, err := parseStructured("json", data, json.Unmarshal); err == nil {
		return list, nil
	}
	if list, err := parseCSV(data); err == nil {
		return list, nil
	}
	return nil, errors.New("tickers file format not recognized (expected YAML, JSON, or CSV)")
}

func parseStructured(name string, data []byte, fn func([]byte, any) error) ([]Ticker, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return nil, fmt.Errorf("decode %s tickers: %w", name, err)
	}
	if len(reg.Tickers) == 0 {
		return nil, fmt.Errorf("%s tickers file contains no entries", name)
	}
	return reg.Tickers, nil
}

// parseCSV decodes the two-column ticker,company_name format. A first row
// that looks like a header is skipped.
func parseCSV(data []byte) ([]Ticker, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv tickers: %w", err)
	}

	var list []Ticker
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("csv tickers row %d: expected 2 columns, got %d", i+1, len(rec))
		}
		symbol := strings.TrimSpace(rec[0])
		company := strings.TrimSpace(rec[1])
		if i == 0 && strings.EqualFold(symbol, "ticker") {
			continue
		}
		list = append(list, Ticker{Symbol: symbol, Company: company})
	}
	if len(list) == 0 {
		return nil, errors.New("csv tickers file contains no entries")
	}
	return list, nil
}

func newRegistry(list []Ticker) (*Registry, error) {
	reg := &Registry{
		tickers: make([]Ticker, 0, len(list)),
		idx:     make(map[string]Ticker, len(list)),
	}

	for i, t := range list {
		t.Symbol = strings.TrimSpace(t.Symbol)
		t.Company = strings.TrimSpace(t.Company)
		if t.Symbol == "" {
			return nil, fmt.Errorf("ticker[%d]: symbol is required", i)
		}
		if t.Company == "" {
			return nil, fmt.Errorf("ticker[%d]: company name is required for %q", i, t.Symbol)
		}
		key := strings.ToUpper(t.Symbol)
		if _, exists := reg.idx[key]; exists {
			return nil, fmt.Errorf("duplicate ticker %q", t.Symbol)
		}
		reg.tickers = append(reg.tickers, t)
		reg.idx[key] = t
	}
	return reg, nil
}

// All returns a copy of the registered tickers in file order.
func (r *Registry) All() []Ticker {
	if r == nil || len(r.tickers) == 0 {
		return nil
	}
	out := make([]Ticker, len(r.tickers))
	copy(out, r.tickers)
	return out
}

// BySymbol returns the ticker entry for the given symbol, case-insensitively.
func (r *Registry) BySymbol(symbol string) (Ticker, bool) {
	symbol = strings.TrimSpace(symbol)
	if r == nil || symbol == "" {
		return Ticker{}, false
	}
	t, ok := r.idx[strings.ToUpper(symbol)]
	return t, ok
}
