package crawler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"sjsage522/usedcarworker/internal/document"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"
)

// mockSite serves canned pages by URL and records every request
type mockSite struct {
	mu       sync.Mutex
	pages    map[string]string
	failures map[string]error
	calls    []string
}

func newMockSite() *mockSite {
	return &mockSite{
		pages:    make(map[string]string),
		failures: make(map[string]error),
	}
}

func (m *mockSite) Fetch(ctx context.Context, url string, timeout time.Duration) (document.Document, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()

	if err, ok := m.failures[url]; ok {
		return nil, err
	}
	html, ok := m.pages[url]
	if !ok {
		return nil, crawlerrors.NewFetch(url, "unexpected status code: 404", nil)
	}
	return document.ParseGoquery(strings.NewReader(html))
}

// callsTo counts requests whose URL contains fragment
func (m *mockSite) callsTo(fragment string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.Contains(c, fragment) {
			n++
		}
	}
	return n
}

type mockSeen map[string]bool

func (m mockSeen) Has(link string) bool {
	return m[link]
}

type mockErrorLog struct {
	errors []string
}

func (m *mockErrorLog) LogError(scope string, err error) {
	m.errors = append(m.errors, scope+": "+err.Error())
}

func (m *mockErrorLog) LogInfo(format string, args ...interface{}) {}

// sleepRecorder replaces real sleeps in tests
type sleepRecorder struct {
	slept []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return ctx.Err()
}

var errBlocked = errors.New("connection reset by peer")
