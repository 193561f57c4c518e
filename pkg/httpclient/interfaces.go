package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Query parameters are passed separately so transports can encode them safely.
type Client interface {
	Get(ctx context.Context, url string, query map[string]string, headers map[string]string) (Response, error)
}
