package gnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/siddhixshah/News-Analysis/pkg/httpclient"
)

type fakeResponse struct {
	body   []byte
	status int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.status }

// scriptedClient replays a fixed sequence of responses/errors and records
// the query params of every request it saw.
type scriptedClient struct {
	steps []step
	calls []map[string]string
}

type step struct {
	resp fakeResponse
	err  error
}

func (c *scriptedClient) Get(_ context.Context, _ string, query map[string]string, _ map[string]string) (httpclient.Response, error) {
	c.calls = append(c.calls, query)
	if len(c.steps) == 0 {
		return nil, errors.New("scripted client: no steps left")
	}
	s := c.steps[0]
	c.steps = c.steps[1:]
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// pageBody builds a 200 response body with n articles.
func pageBody(t *testing.T, n int, prefix string) []byte {
	t.Helper()
	resp := searchResponse{TotalArticles: n}
	for i := 0; i < n; i++ {
		resp.Articles = append(resp.Articles, articlePayload{
			Title:       fmt.Sprintf("%s-%d", prefix, i),
			URL:         fmt.Sprintf("https://example.com/%s/%d", prefix, i),
			PublishedAt: "2025-01-02T15:04:05Z",
			Source:      sourcePayload{Name: "Example Wire"},
		})
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal page body: %v", err)
	}
	return raw
}

func ok(body []byte) step { return step{resp: fakeResponse{body: body, status: 200}} }

func status(code int) step { return step{resp: fakeResponse{status: code, body: []byte("nope")}} }

func netErr(msg string) step { return step{err: errors.New(msg)} }

func testQuery(pages, size int) Query {
	return Query{
		Text:     `"ACME" OR "Acme Industries"`,
		From:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		MaxPages: pages,
		PageSize: size,
	}
}

// newTestFetcher wires a fetcher with the scripted client, a fixed key, and
// a recording sleep so tests observe backoff without real delays.
func newTestFetcher(client *scriptedClient) (*Fetcher, *[]time.Duration) {
	f := NewFetcher(client, StaticCredentials("test-key"))
	waits := &[]time.Duration{}
	f.sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return f, waits
}

func TestFetchConcatenatesFullPagesThenStopsOnEmpty(t *testing.T) {
	client := &scriptedClient{steps: []step{
		ok(pageBody(t, 2, "p1")),
		ok(pageBody(t, 2, "p2")),
		ok(pageBody(t, 0, "p3")),
	}}
	f, _ := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(5, 2))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 4 {
		t.Fatalf("expected 4 articles, got %d", len(articles))
	}
	if articles[0].Title != "p1-0" || articles[3].Title != "p2-1" {
		t.Fatalf("page order not preserved: %q ... %q", articles[0].Title, articles[3].Title)
	}
	if len(client.calls) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(client.calls))
	}
	if client.calls[2]["page"] != "3" {
		t.Fatalf("expected third request for page 3, got %q", client.calls[2]["page"])
	}
}

func TestFetchEmptyFirstPageIssuesOneRequest(t *testing.T) {
	client := &scriptedClient{steps: []step{ok(pageBody(t, 0, "p1"))}}
	f, _ := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(5, 50))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected empty result, got %d articles", len(articles))
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected exactly 1 request, got %d", len(client.calls))
	}
}

func TestFetchShortPageStopsBeforeMaxPages(t *testing.T) {
	client := &scriptedClient{steps: []step{ok(pageBody(t, 37, "p1"))}}
	f, _ := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(5, 100))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 37 {
		t.Fatalf("expected 37 articles, got %d", len(articles))
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected 1 request despite max_pages=5, got %d", len(client.calls))
	}
}

func TestFetchRespectsMaxPagesBound(t *testing.T) {
	client := &scriptedClient{steps: []step{
		ok(pageBody(t, 2, "p1")),
		ok(pageBody(t, 2, "p2")),
		ok(pageBody(t, 2, "p3")),
	}}
	f, _ := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(3, 2))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 6 {
		t.Fatalf("expected 6 articles, got %d", len(articles))
	}
	if len(client.calls) != 3 {
		t.Fatalf("expected exactly max_pages requests, got %d", len(client.calls))
	}
}

func TestFetchBacksOffExponentiallyAndDegradesToPartial(t *testing.T) {
	client := &scriptedClient{steps: []step{
		ok(pageBody(t, 2, "p1")),
		status(503), status(503), status(503), status(503),
	}}
	f, waits := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(5, 2))
	if err != nil {
		t.Fatalf("expected graceful degradation, got error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected the 2 articles from page 1, got %d", len(articles))
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*waits) != len(want) {
		t.Fatalf("expected %d backoff waits, got %v", len(want), *waits)
	}
	for i, w := range want {
		if (*waits)[i] != w {
			t.Fatalf("wait %d: expected %v, got %v", i, w, (*waits)[i])
		}
	}
}

func TestFetchRetriesNetworkErrorThenSucceeds(t *testing.T) {
	client := &scriptedClient{steps: []step{
		netErr("connection reset"),
		ok(pageBody(t, 1, "p1")),
	}}
	f, waits := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(1, 50))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article after retry, got %d", len(articles))
	}
	if len(*waits) != 1 || (*waits)[0] != 2*time.Second {
		t.Fatalf("expected single 2s backoff, got %v", *waits)
	}
}

func TestFetchTerminalStatusStopsWithoutRetry(t *testing.T) {
	client := &scriptedClient{steps: []step{
		ok(pageBody(t, 2, "p1")),
		status(403),
	}}
	f, waits := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(5, 2))
	if err != nil {
		t.Fatalf("expected graceful degradation, got error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected accumulated articles from page 1, got %d", len(articles))
	}
	if len(*waits) != 0 {
		t.Fatalf("terminal status must not back off, got waits %v", *waits)
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(client.calls))
	}
}

func TestFetchMissingCredentialFailsBeforeIO(t *testing.T) {
	client := &scriptedClient{}
	f := NewFetcher(client, StaticCredentials("  "))

	_, err := f.Fetch(context.Background(), testQuery(1, 10))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected zero network requests, got %d", len(client.calls))
	}
}

func TestFetchMalformedBodyTreatedAsEmptyPage(t *testing.T) {
	client := &scriptedClient{steps: []step{
		ok(pageBody(t, 2, "p1")),
		ok([]byte("<html>rate limited</html>")),
	}}
	f, _ := newTestFetcher(client)

	articles, err := f.Fetch(context.Background(), testQuery(5, 2))
	if err != nil {
		t.Fatalf("expected graceful degradation, got error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected articles from page 1 only, got %d", len(articles))
	}
}

func TestFetchSendsExpectedQueryParams(t *testing.T) {
	client := &scriptedClient{steps: []step{ok(pageBody(t, 0, "p1"))}}
	f, _ := newTestFetcher(client)

	q := testQuery(2, 25)
	if _, err := f.Fetch(context.Background(), q); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	params := client.calls[0]
	expect := map[string]string{
		"apikey": "test-key",
		"q":      q.Text,
		"from":   "2025-01-01T00:00:00Z",
		"to":     "2025-01-08T00:00:00Z",
		"lang":   "en",
		"max":    "25",
		"page":   "1",
	}
	for k, v := range expect {
		if params[k] != v {
			t.Errorf("param %s: expected %q, got %q", k, v, params[k])
		}
	}
}

func TestNormalizeKeepsRecordWithUnparseableTimestamp(t *testing.T) {
	p := articlePayload{
		Title:       "Weird date",
		PublishedAt: "yesterdayish",
		Source:      sourcePayload{Name: "Example Wire"},
	}
	art := p.normalize()
	if art.PublishedAt != "yesterdayish" {
		t.Fatalf("raw timestamp must be preserved, got %q", art.PublishedAt)
	}
	if !art.Published.IsZero() {
		t.Fatalf("unparseable timestamp must leave parsed time zero, got %v", art.Published)
	}
}

func TestQueryKeyIsStableAcrossEquivalentQueries(t *testing.T) {
	a := testQuery(3, 50)
	b := testQuery(3, 50)
	if a.Key() != b.Key() {
		t.Fatalf("equal queries must share a key: %q vs %q", a.Key(), b.Key())
	}
	c := testQuery(3, 20)
	if a.Key() == c.Key() {
		t.Fatalf("different page sizes must not share a key")
	}
}
