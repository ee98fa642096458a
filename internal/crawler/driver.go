package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"sjsage522/usedcarworker/helpers"
	"sjsage522/usedcarworker/internal/models"
	"sjsage522/usedcarworker/logger"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"

	"golang.org/x/time/rate"
)

// Crawler walks brand search pages, optionally enriching every listing from
// its detail page. Requests are issued one at a time.
type Crawler struct {
	profile SiteProfile
	fetcher Fetcher
	opts    Options
	seen    SeenSet
	errLog  helpers.LoggerInterface

	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
	rnd     *rand.Rand
	log     *logger.Logger
}

// New creates a crawler. seen and errLog may be nil.
func New(profile SiteProfile, fetcher Fetcher, opts Options, seen SeenSet, errLog helpers.LoggerInterface) *Crawler {
	limit := rate.Inf
	if opts.ListRate > 0 {
		limit = rate.Limit(opts.ListRate)
	}
	if !opts.Mode.Valid() {
		opts.Mode = ModeBounded
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}

	return &Crawler{
		profile: profile,
		fetcher: fetcher,
		opts:    opts,
		seen:    seen,
		errLog:  errLog,
		limiter: rate.NewLimiter(limit, 1),
		sleep:   sleepContext,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     logger.ForCrawler(profile.Name),
	}
}

// Crawl visits every brand in order and returns the collected listings.
// Page and item failures are logged and skipped, so Crawl never fails; an
// empty result is for the caller to report.
func (c *Crawler) Crawl(ctx context.Context, brands []models.BrandConfig) ([]models.ListingRecord, Stats) {
	var stats Stats
	b := newBatch()

	for _, brand := range brands {
		if ctx.Err() != nil {
			break
		}
		stats.Brands++
		c.crawlBrand(ctx, brand, b, &stats)
	}

	stats.Collected = len(b.records)
	return b.records, stats
}

func (c *Crawler) crawlBrand(ctx context.Context, brand models.BrandConfig, b *batch, stats *Stats) {
	last := brand.Pages
	if c.opts.Mode == ModeUnbounded || last <= 0 {
		last = c.opts.MaxPages
	}
	log := c.log.WithFields(logger.Fields{"brand": brand.Name, "maker_no": brand.MakerCode})

	for page := 1; page <= last; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		url := c.profile.ListURL(brand.Origin, brand.MakerCode, page)
		doc, err := c.fetcher.Fetch(ctx, url, c.opts.ListTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			stats.PageFailures++
			log.Warn().Err(err).Int("page", page).Msg("Failed to fetch listing page")
			c.logError(fmt.Sprintf("%s page %d", brand.Name, page), err)

			if c.sleep(ctx, c.opts.ErrorPause) != nil {
				return
			}
			if c.opts.Mode == ModeUnbounded {
				return
			}
			continue
		}
		stats.Pages++

		records, ls := ExtractListings(doc, c.profile, brand.Name)
		stats.Items += len(records)
		stats.Skipped += ls.Skipped()

		fresh := 0
		for _, record := range records {
			if c.seen != nil && c.seen.Has(record.Link) {
				stats.Known++
				continue
			}
			if !b.has(record.Link) {
				fresh++
			}

			if c.opts.EnrichDetails && !c.enrich(ctx, &record, stats) {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if b.put(record) {
				stats.Duplicates++
			}
		}

		log.Info().
			Int("page", page).
			Int("items", len(records)).
			Int("new", fresh).
			Int("skipped", ls.Skipped()).
			Int("collected", len(b.records)).
			Msg("Listing page processed")

		if fresh == 0 {
			log.Debug().Int("page", page).Msg("No new items, stopping brand")
			return
		}
	}
}

// enrich overlays the detail page onto record. It reports false when the
// item should be skipped.
func (c *Crawler) enrich(ctx context.Context, record *models.ListingRecord, stats *Stats) bool {
	if err := c.sleep(ctx, c.jitter()); err != nil {
		return false
	}

	doc, err := c.fetcher.Fetch(ctx, record.Link, c.opts.DetailTimeout)
	if err == nil {
		var detail *models.ListingRecord
		detail, err = ExtractDetail(doc, c.profile, record.Brand, record.Link)
		if err == nil {
			record.Enrich(detail)
			return true
		}
	}

	if ctx.Err() == nil {
		stats.DetailFailures++
		c.log.Debug().Err(err).Str("link", record.Link).Msg("Skipping listing")
		c.logError("detail", err)
	}
	return false
}

// CrawlMakers fetches the maker table for one origin. Any failure is
// returned to the caller.
func (c *Crawler) CrawlMakers(ctx context.Context, origin models.Origin) ([]models.MakerCategory, error) {
	if !origin.Valid() {
		return nil, crawlerrors.NewConfiguration(fmt.Sprintf("unknown origin %q", origin), nil)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	doc, err := c.fetcher.Fetch(ctx, c.profile.MakerURL(origin), c.opts.ListTimeout)
	if err != nil {
		return nil, err
	}
	return ExtractMakers(doc, c.profile, origin)
}

func (c *Crawler) jitter() time.Duration {
	lo, hi := c.opts.DetailDelayMin, c.opts.DetailDelayMax
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(c.rnd.Int63n(int64(hi-lo)+1))
}

func (c *Crawler) logError(scope string, err error) {
	if c.errLog != nil {
		c.errLog.LogError(scope, err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// batch keeps listings in first-seen order; a repeated link replaces the
// earlier record in place.
type batch struct {
	index   map[string]int
	records []models.ListingRecord
}

func newBatch() *batch {
	return &batch{index: make(map[string]int)}
}

func (b *batch) has(link string) bool {
	_, ok := b.index[link]
	return ok
}

func (b *batch) put(r models.ListingRecord) bool {
	if i, ok := b.index[r.Link]; ok {
		b.records[i] = r
		return true
	}
	b.index[r.Link] = len(b.records)
	b.records = append(b.records, r)
	return false
}
