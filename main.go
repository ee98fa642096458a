package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/usedcarworker/config"
	"sjsage522/usedcarworker/helpers"
	"sjsage522/usedcarworker/internal/crawler"
	"sjsage522/usedcarworker/internal/store"
	"sjsage522/usedcarworker/logger"
	"sjsage522/usedcarworker/services/cache"
	"sjsage522/usedcarworker/services/publisher"
	"sjsage522/usedcarworker/services/worker"

	"github.com/joho/godotenv"
)

// seenTTL is how long memcached remembers a saved listing link
const seenTTL = 30 * 24 * time.Hour

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("mode", string(cfg.CrawlMode)).
		Str("parser", cfg.Parser).
		Str("listing_file", cfg.ListingPath()).
		Dur("crawl_interval", cfg.CrawlInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	w := buildWorker(cfg, services)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting used car worker")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			services.Cleanup()
			log.Fatal().Err(err).Msg("Worker exited with error")
		}
		log.Info().Msg("Worker exited normally")
	}

	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Fetcher   crawler.Fetcher
	Cache     cache.CacheService
	Publisher publisher.Publisher
	ErrorLog  helpers.LoggerInterface
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
		s.Publisher = nil
	}
}

// initializeServices initializes all required services. Memcached and Redis
// are optional: without them the seen cache stays in memory and nothing is
// published.
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{
		ErrorLog: helpers.NewLogger(cfg.ErrorLogFile),
	}

	client, err := helpers.NewClient(cfg.ListTimeout, cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	profile := siteProfile(cfg)
	services.Fetcher = crawler.InstrumentFetcher(
		crawler.NewHTTPFetcher(client, cfg.HTMLParser(), profile.Headers),
	)

	// Initialize cache service
	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := mc.Ping(); err != nil {
			logger.Warn("Memcache unavailable at %s, using in-memory seen cache: %v", cfg.MemcacheAddr, err)
		} else {
			services.Cache = mc
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	}

	// Initialize publisher
	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(ctx); err != nil {
			redisPublisher.Close()
			return nil, err
		}
		services.Publisher = redisPublisher

		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}

func siteProfile(cfg *config.Config) crawler.SiteProfile {
	profile := crawler.DefaultProfile()
	if cfg.BaseURL != profile.BaseURL {
		profile = profile.WithBaseURL(cfg.BaseURL)
	}
	return profile
}

// buildWorker wires the crawler, store and services into a worker
func buildWorker(cfg *config.Config, services *Services) *worker.Worker {
	profile := siteProfile(cfg)
	seen := cache.NewSeenCache(services.Cache, seenTTL)

	c := crawler.New(profile, services.Fetcher, cfg.CrawlerOptions(), seen, services.ErrorLog)

	brands := cfg.Brands
	if len(brands) == 0 {
		brands = profile.Brands
	}

	return worker.NewWorker(c, store.New(true), seen, services.Publisher, services.ErrorLog, worker.Settings{
		ListingPath: cfg.ListingPath(),
		MakerPath:   cfg.MakerPath(),
		CrawlMakers: cfg.CrawlMakers,
		Brands:      brands,
		AllBrands:   cfg.AllBrands,
		MaxPages:    cfg.MaxPages,
		Interval:    cfg.CrawlInterval,
	})
}
