package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sjsage522/usedcarworker/internal/crawler"
	"sjsage522/usedcarworker/internal/document"
	"sjsage522/usedcarworker/internal/models"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Environment
	Environment string

	// Site
	BaseURL  string
	ProxyURL string
	// Parser selects the HTML backend: goquery or html (cascadia over x/net/html)
	Parser string

	// Storage
	DataDir     string
	ListingFile string
	MakerFile   string

	// Crawl
	CrawlMode     crawler.Mode
	Brands        []models.BrandConfig
	AllBrands     bool
	MaxPages      int
	EnrichDetails bool
	CrawlMakers   bool

	// Pacing
	DetailDelayMin time.Duration
	DetailDelayMax time.Duration
	ErrorPause     time.Duration
	ListRate       float64
	ListTimeout    time.Duration
	DetailTimeout  time.Duration

	// Memcache configuration; empty keeps the seen cache in memory
	MemcacheAddr string

	// Redis configuration; empty disables publishing
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Worker
	CrawlInterval time.Duration
	ErrorLogFile  string

	brandsErr error
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	cfg := &Config{
		Environment:          getEnv("USEDCAR_ENVIRONMENT", "development"),
		BaseURL:              strings.TrimRight(getEnv("BASE_URL", "https://www.bobaedream.co.kr"), "/"),
		ProxyURL:             getEnv("PROXY_URL", ""),
		Parser:               strings.ToLower(getEnv("PARSER", document.BackendGoquery)),
		DataDir:              getEnv("DATA_DIR", "data"),
		ListingFile:          getEnv("LISTING_FILE", "used_cars.csv"),
		MakerFile:            getEnv("MAKER_FILE", "makers.csv"),
		CrawlMode:            crawler.Mode(strings.ToLower(getEnv("CRAWL_MODE", string(crawler.ModeBounded)))),
		MaxPages:             getEnvInt("MAX_PAGES", 50),
		EnrichDetails:        getEnvBool("ENRICH_DETAILS", true),
		CrawlMakers:          getEnvBool("CRAWL_MAKERS", true),
		DetailDelayMin:       time.Duration(getEnvInt("DETAIL_DELAY_MIN_MS", 700)) * time.Millisecond,
		DetailDelayMax:       time.Duration(getEnvInt("DETAIL_DELAY_MAX_MS", 1200)) * time.Millisecond,
		ErrorPause:           time.Duration(getEnvInt("ERROR_PAUSE_SECONDS", 5)) * time.Second,
		ListRate:             getEnvFloat("LIST_RATE_PER_SECOND", 1),
		ListTimeout:          time.Duration(getEnvInt("LIST_TIMEOUT_SECONDS", 10)) * time.Second,
		DetailTimeout:        time.Duration(getEnvInt("DETAIL_TIMEOUT_SECONDS", 5)) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "usedcars"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 1000),
		CrawlInterval:        time.Duration(getEnvInt("CRAWL_INTERVAL_SECONDS", 0)) * time.Second,
		ErrorLogFile:         getEnv("ERROR_LOG_FILE", "error.log"),
	}

	brands := strings.TrimSpace(getEnv("BRANDS", ""))
	if strings.EqualFold(brands, "all") {
		cfg.AllBrands = true
	} else if brands != "" {
		cfg.Brands, cfg.brandsErr = ParseBrands(brands, cfg.MaxPages)
	}

	return cfg
}

// ParseBrands parses "name:code:origin[:pages]" entries separated by commas,
// e.g. "현대:3:K:20,BMW:6:I". Missing page counts use defaultPages.
func ParseBrands(spec string, defaultPages int) ([]models.BrandConfig, error) {
	var brands []models.BrandConfig
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("brand %q: want name:code:origin[:pages]", entry)
		}

		code, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || code <= 0 {
			return nil, fmt.Errorf("brand %q: invalid maker code", entry)
		}

		origin := models.Origin(strings.ToUpper(strings.TrimSpace(parts[2])))
		if !origin.Valid() {
			return nil, fmt.Errorf("brand %q: origin must be K or I", entry)
		}

		pages := defaultPages
		if len(parts) == 4 {
			pages, err = strconv.Atoi(strings.TrimSpace(parts[3]))
			if err != nil || pages <= 0 {
				return nil, fmt.Errorf("brand %q: invalid page count", entry)
			}
		}

		brands = append(brands, models.BrandConfig{
			Name:      strings.TrimSpace(parts[0]),
			MakerCode: code,
			Origin:    origin,
			Pages:     pages,
		})
	}
	return brands, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.brandsErr != nil {
		return crawlerrors.NewConfiguration("invalid BRANDS", c.brandsErr)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return crawlerrors.NewConfiguration(fmt.Sprintf("invalid BASE_URL %q", c.BaseURL), err)
	}

	if _, ok := document.ParserByName(c.Parser); !ok {
		return crawlerrors.NewConfiguration(fmt.Sprintf("PARSER must be %q or %q, got %q", document.BackendGoquery, document.BackendHTML, c.Parser), nil)
	}

	switch {
	case !c.CrawlMode.Valid():
		return crawlerrors.NewConfiguration(fmt.Sprintf("CRAWL_MODE must be %q or %q, got %q", crawler.ModeBounded, crawler.ModeUnbounded, c.CrawlMode), nil)
	case c.MaxPages <= 0:
		return crawlerrors.NewConfiguration("MAX_PAGES must be positive", nil)
	case c.DetailDelayMin < 0 || c.DetailDelayMax < c.DetailDelayMin:
		return crawlerrors.NewConfiguration("DETAIL_DELAY_MAX_MS must not be less than DETAIL_DELAY_MIN_MS", nil)
	case c.ErrorPause < 0:
		return crawlerrors.NewConfiguration("ERROR_PAUSE_SECONDS must not be negative", nil)
	case c.ListRate < 0:
		return crawlerrors.NewConfiguration("LIST_RATE_PER_SECOND must not be negative", nil)
	case c.ListTimeout <= 0 || c.DetailTimeout <= 0:
		return crawlerrors.NewConfiguration("timeouts must be positive", nil)
	case c.ListingFile == "" || c.MakerFile == "":
		return crawlerrors.NewConfiguration("LISTING_FILE and MAKER_FILE are required", nil)
	case c.RedisStreamCount < 1:
		return crawlerrors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	case c.AllBrands && !c.CrawlMakers:
		return crawlerrors.NewConfiguration("BRANDS=all requires CRAWL_MAKERS", nil)
	case c.CrawlInterval < 0:
		return crawlerrors.NewConfiguration("CRAWL_INTERVAL_SECONDS must not be negative", nil)
	}
	return nil
}

// CrawlerOptions maps the configuration onto the crawl driver's options
func (c *Config) CrawlerOptions() crawler.Options {
	return crawler.Options{
		Mode:           c.CrawlMode,
		MaxPages:       c.MaxPages,
		EnrichDetails:  c.EnrichDetails,
		DetailDelayMin: c.DetailDelayMin,
		DetailDelayMax: c.DetailDelayMax,
		ErrorPause:     c.ErrorPause,
		ListRate:       c.ListRate,
		ListTimeout:    c.ListTimeout,
		DetailTimeout:  c.DetailTimeout,
	}
}

// HTMLParser returns the configured parser backend, falling back to goquery
// for an unknown name
func (c *Config) HTMLParser() document.Parser {
	if parse, ok := document.ParserByName(c.Parser); ok {
		return parse
	}
	return document.ParseGoquery
}

// ListingPath is the listing table location
func (c *Config) ListingPath() string {
	return c.dataPath(c.ListingFile)
}

// MakerPath is the maker table location
func (c *Config) MakerPath() string {
	return c.dataPath(c.MakerFile)
}

func (c *Config) dataPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.DataDir, file)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
