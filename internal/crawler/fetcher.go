package crawler

import (
	"context"
	"net/http"
	"time"

	"sjsage522/usedcarworker/helpers"
	"sjsage522/usedcarworker/internal/document"
	"sjsage522/usedcarworker/logger"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"
)

// HTTPFetcher fetches pages over HTTP and parses them into documents
type HTTPFetcher struct {
	client  *http.Client
	parser  document.Parser
	headers map[string]string
}

// NewHTTPFetcher creates a fetcher. A nil parser defaults to goquery.
func NewHTTPFetcher(client *http.Client, parser document.Parser, headers map[string]string) *HTTPFetcher {
	if parser == nil {
		parser = document.ParseGoquery
	}
	return &HTTPFetcher{
		client:  client,
		parser:  parser,
		headers: headers,
	}
}

// Fetch downloads url and parses the UTF-8 body
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (document.Document, error) {
	body, err := helpers.FetchWithRandomHeaders(ctx, url, helpers.RequestOptions{
		Headers: f.headers,
		Timeout: timeout,
		Client:  f.client,
	})
	if err != nil {
		return nil, err
	}

	doc, err := f.parser(body)
	if err != nil {
		return nil, crawlerrors.NewParsing(url, "failed to parse HTML", err)
	}
	return doc, nil
}

// InstrumentFetcher wraps next so every fetch is logged with its duration
func InstrumentFetcher(next Fetcher) Fetcher {
	return FetcherFunc(func(ctx context.Context, url string, timeout time.Duration) (document.Document, error) {
		done := logger.Track("fetcher", url)
		doc, err := next.Fetch(ctx, url, timeout)
		done(err)
		return doc, err
	})
}
