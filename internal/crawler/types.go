package crawler

import (
	"context"
	"time"

	"sjsage522/usedcarworker/internal/document"
)

// Fetcher retrieves and parses a single page
type Fetcher interface {
	// Fetch issues one GET for url. A zero timeout keeps the client default.
	Fetch(ctx context.Context, url string, timeout time.Duration) (document.Document, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string, timeout time.Duration) (document.Document, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, url string, timeout time.Duration) (document.Document, error) {
	return f(ctx, url, timeout)
}

// SeenSet reports links that are already persisted
type SeenSet interface {
	Has(link string) bool
}

// Mode selects the pagination strategy
type Mode string

const (
	// ModeBounded crawls a fixed page count per brand
	ModeBounded Mode = "bounded"
	// ModeUnbounded pages until a page yields no new items
	ModeUnbounded Mode = "unbounded"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeBounded || m == ModeUnbounded
}

// Options tunes the crawl driver
type Options struct {
	Mode Mode
	// MaxPages caps unbounded pagination per brand, and bounded pagination
	// for brands without a page count
	MaxPages      int
	EnrichDetails bool

	DetailDelayMin time.Duration
	DetailDelayMax time.Duration
	ErrorPause     time.Duration
	// ListRate is the list-page request rate per second; <= 0 disables pacing
	ListRate float64

	ListTimeout   time.Duration
	DetailTimeout time.Duration
}

const defaultMaxPages = 50

// DefaultOptions returns the pacing used against the live site
func DefaultOptions() Options {
	return Options{
		Mode:           ModeBounded,
		MaxPages:       defaultMaxPages,
		EnrichDetails:  true,
		DetailDelayMin: 700 * time.Millisecond,
		DetailDelayMax: 1200 * time.Millisecond,
		ErrorPause:     5 * time.Second,
		ListRate:       1,
		ListTimeout:    10 * time.Second,
		DetailTimeout:  5 * time.Second,
	}
}

// ListingStats counts what the listing extractor saw on one page
type ListingStats struct {
	Elements      int
	MissingAnchor int
	MissingPrice  int
	Pattern       string
}

// Skipped is the number of elements dropped from the page
func (s ListingStats) Skipped() int {
	return s.MissingAnchor + s.MissingPrice
}

// Stats summarises one crawl
type Stats struct {
	Brands         int
	Pages          int
	PageFailures   int
	Items          int
	Known          int
	Skipped        int
	DetailFailures int
	Duplicates     int
	Collected      int
}
