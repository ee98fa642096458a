package worker

import (
	"context"
	"fmt"
	"time"

	"sjsage522/usedcarworker/helpers"
	"sjsage522/usedcarworker/internal/crawler"
	"sjsage522/usedcarworker/internal/models"
	"sjsage522/usedcarworker/internal/store"
	"sjsage522/usedcarworker/logger"
	"sjsage522/usedcarworker/services/publisher"
)

// Crawler collects makers and listings from the site
type Crawler interface {
	Crawl(ctx context.Context, brands []models.BrandConfig) ([]models.ListingRecord, crawler.Stats)
	CrawlMakers(ctx context.Context, origin models.Origin) ([]models.MakerCategory, error)
}

// Store merges a batch into a table on disk
type Store interface {
	MergeAndSave(batch *store.Table, dest string, keys []string) (*store.Result, error)
}

// SeenCache tracks persisted listing links across runs
type SeenCache interface {
	Preload(links ...string)
	Add(links ...string) error
}

// Settings selects what a run crawls and where it saves
type Settings struct {
	ListingPath string
	MakerPath   string
	CrawlMakers bool
	// Brands to crawl; ignored when AllBrands derives them from the maker table
	Brands    []models.BrandConfig
	AllBrands bool
	MaxPages  int
	// Interval between runs; 0 runs once
	Interval time.Duration
}

// Summary reports one run
type Summary struct {
	Makers    int
	Crawl     crawler.Stats
	Added     int
	Rows      int
	Published int
	Elapsed   time.Duration
}

// Worker handles the crawl, merge and publish cycle
type Worker struct {
	crawler   Crawler
	store     Store
	seen      SeenCache
	publisher publisher.Publisher
	logger    helpers.LoggerInterface
	settings  Settings
	log       *logger.Logger
}

// NewWorker creates a new worker. pub may be nil to skip publishing.
func NewWorker(
	c Crawler,
	st Store,
	seen SeenCache,
	pub publisher.Publisher,
	errLog helpers.LoggerInterface,
	settings Settings,
) *Worker {
	return &Worker{
		crawler:   c,
		store:     st,
		seen:      seen,
		publisher: pub,
		logger:    errLog,
		settings:  settings,
		log:       logger.ForWorker(),
	}
}

// Start runs the cycle once, or repeatedly at the configured interval until
// ctx is done. In repeat mode failed runs are logged and retried next time.
func (w *Worker) Start(ctx context.Context) error {
	if w.settings.Interval <= 0 {
		_, err := w.RunOnce(ctx)
		return err
	}

	ticker := time.NewTicker(w.settings.Interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.LogError("worker", err)
			w.log.Error().Err(err).Msg("Run failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs one full crawl. Maker page failures and table schema
// errors abort the run; page and item failures only reduce what is saved.
func (w *Worker) RunOnce(ctx context.Context) (Summary, error) {
	var summary Summary
	start := time.Now()

	var makers []models.MakerCategory
	if w.settings.CrawlMakers {
		var err error
		makers, err = w.crawlMakers(ctx)
		if err != nil {
			return summary, err
		}
		summary.Makers = len(makers)
	}

	brands := w.settings.Brands
	if w.settings.AllBrands {
		brands = crawler.BrandsFromMakers(makers, w.settings.MaxPages)
	}
	if len(brands) == 0 {
		w.log.Warn().Msg("No brands to crawl")
		return summary, nil
	}

	done := logger.Track("worker", "load seen links")
	links, err := store.LoadKeys(w.settings.ListingPath, "link")
	done(err)
	if err != nil {
		return summary, err
	}
	w.seen.Preload(links...)

	done = logger.Track("worker", fmt.Sprintf("crawl %d brands", len(brands)))
	records, stats := w.crawler.Crawl(ctx, brands)
	done(nil)
	summary.Crawl = stats

	if len(records) == 0 {
		w.log.Warn().
			Int("pages", stats.Pages).
			Int("page_failures", stats.PageFailures).
			Int("known", stats.Known).
			Msg("No new listings collected")
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	done = logger.Track("worker", "save listings")
	res, err := w.store.MergeAndSave(store.ListingTable(records), w.settings.ListingPath, store.ListingKeys)
	done(err)
	if err != nil {
		return summary, err
	}

	var added []models.ListingRecord
	if res != nil {
		summary.Rows = res.Rows
		added = addedRecords(records, res.AddedKeys)
		summary.Added = len(added)
	}

	if len(added) > 0 {
		links := make([]string, len(added))
		for i, r := range added {
			links[i] = r.Link
		}
		if err := w.seen.Add(links...); err != nil {
			w.log.Warn().Err(err).Msg("Failed to record seen links")
		}
		summary.Published = w.publish(ctx, added)
	}

	summary.Elapsed = time.Since(start)
	w.log.Info().
		Int("makers", summary.Makers).
		Int("pages", stats.Pages).
		Int("collected", stats.Collected).
		Int("skipped", stats.Skipped).
		Int("added", summary.Added).
		Int("rows", summary.Rows).
		Int("published", summary.Published).
		Dur("elapsed", summary.Elapsed).
		Msg("Run finished")
	w.logger.LogInfo("크롤링 소요 시간: %s (신규 %d건)", summary.Elapsed, summary.Added)

	return summary, nil
}

func (w *Worker) crawlMakers(ctx context.Context) ([]models.MakerCategory, error) {
	var makers []models.MakerCategory
	for _, origin := range []models.Origin{models.OriginDomestic, models.OriginImported} {
		done := logger.Track("worker", "crawl makers "+string(origin))
		found, err := w.crawler.CrawlMakers(ctx, origin)
		done(err)
		if err != nil {
			return nil, err
		}
		makers = append(makers, found...)
	}

	done := logger.Track("worker", "save makers")
	_, err := w.store.MergeAndSave(store.MakerTable(makers), w.settings.MakerPath, store.MakerKeys)
	done(err)
	if err != nil {
		return nil, err
	}
	return makers, nil
}

// publish sends newly added listings and trims the streams. Failures are
// logged; the table is already saved.
func (w *Worker) publish(ctx context.Context, added []models.ListingRecord) int {
	if w.publisher == nil {
		return 0
	}

	n, err := publisher.PublishListings(ctx, w.publisher, added)
	if err != nil {
		w.logger.LogError("publisher", err)
		w.log.Error().Err(err).Int("published", n).Msg("Failed to publish listings")
	}

	// Trim all streams after publishing
	if err := w.publisher.TrimStreams(ctx); err != nil {
		w.logger.LogError("StreamTrimming", err)
	}
	return n
}

func addedRecords(records []models.ListingRecord, keys []string) []models.ListingRecord {
	byLink := make(map[string]models.ListingRecord, len(records))
	for _, r := range records {
		byLink[r.Link] = r
	}

	added := make([]models.ListingRecord, 0, len(keys))
	for _, key := range keys {
		if r, ok := byLink[key]; ok {
			added = append(added, r)
		}
	}
	return added
}
