package tickers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "tickers.yaml", `
tickers:
  - ticker: PNB
    company_name: Punjab National Bank
  - ticker: TATACHEM
    company_name: Tata Chemicals
`)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 tickers, got %d", len(reg.All()))
	}

	tk, ok := reg.BySymbol("tatachem")
	if !ok {
		t.Fatalf("BySymbol lookup must be case-insensitive")
	}
	if tk.Company != "Tata Chemicals" {
		t.Fatalf("unexpected company %q", tk.Company)
	}
}

func TestLoadCSVSkipsHeader(t *testing.T) {
	path := writeFile(t, "tickers.csv", "ticker,company_name\nPNB,Punjab National Bank\nTVSMOTOR,TVS Motor Company\n")

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 tickers, got %d", len(all))
	}
	if all[0].Symbol != "PNB" {
		t.Fatalf("expected header row skipped, first symbol %q", all[0].Symbol)
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "tickers.csv", "PNB,Punjab National Bank\npnb,Punjab National Bank\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate symbol error")
	}
}

func TestLoadRejectsMissingCompany(t *testing.T) {
	path := writeFile(t, "tickers.json", `{"tickers":[{"ticker":"PNB","company_name":""}]}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected missing company error")
	}
}

func TestBuiltinUniverseAndQuery(t *testing.T) {
	reg := Builtin()
	if len(reg.All()) != 5 {
		t.Fatalf("expected 5 builtin tickers, got %d", len(reg.All()))
	}

	tk, ok := reg.BySymbol("PNB")
	if !ok {
		t.Fatalf("builtin registry missing PNB")
	}
	if got := tk.Query(); got != `"PNB" OR "Punjab National Bank"` {
		t.Fatalf("unexpected query %q", got)
	}
}
