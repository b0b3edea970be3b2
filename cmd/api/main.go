// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"trendlens/internal/adapter/artifact"
	"trendlens/internal/adapter/cache"
	"trendlens/internal/adapter/events"
	"trendlens/internal/config"
	"trendlens/internal/logger"
	"trendlens/internal/metrics"
	"trendlens/internal/scheduler"
	"trendlens/internal/server"
	"trendlens/internal/service/generator"
	"trendlens/internal/service/resolve"
	"trendlens/internal/service/scoring"
	"trendlens/internal/service/sentiment"
	"trendlens/internal/service/synthetic"
)

func main() {
	// Local overrides; absence is not an error
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Environment == "development")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Metrics registry backing /metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// NATS is optional: without it resolution events are dropped and the
	// websocket stream degrades to heartbeats.
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS, zl)
		if err != nil {
			zl.Warn("continuing without NATS", zap.Error(err))
		} else {
			defer natsConn.Close()
		}
	}

	var publisher *events.Publisher
	if natsConn != nil {
		publisher = events.NewPublisher(natsConn, cfg.NATS.Subject, zl)
	}

	// Result cache is optional as well.
	var resultCache cache.Cache = cache.Noop{}
	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, zl)
		if err != nil {
			zl.Warn("continuing without result cache", zap.Error(err))
		} else {
			resultCache = redisCache
		}
	}

	// Sentiment lexicons: built-in unless a config file is given.
	lexicons := sentiment.DefaultConfig()
	if cfg.Sentiment.LexiconPath != "" {
		lexicons, err = sentiment.LoadConfig(cfg.Sentiment.LexiconPath)
		if err != nil {
			zl.Fatal("loading sentiment lexicons", zap.Error(err))
		}
	}
	classifier := sentiment.NewClassifier(lexicons)

	scorer := scoring.ForStrategy(cfg.Scoring.Strategy)

	// Resolution tiers: artifacts, then the external generator when one is
	// configured, then the synthetic floor.
	store := artifact.NewStore(cfg.Artifacts.Dir, zl)

	var invoker *generator.Invoker
	if cfg.Generator.Script != "" {
		invoker = generator.NewInvoker(generator.Config{
			Bin:           cfg.Generator.Bin,
			Script:        cfg.Generator.Script,
			MaxConcurrent: cfg.Generator.MaxConcurrent,
		}, zl)
	}

	synth := synthetic.NewGenerator(scorer)

	tiers := resolve.NewTierSet(store, invoker, synth,
		resolve.ArtifactOrder{
			MassTopics:       cfg.Artifacts.MassTopics,
			LegacyTopics:     cfg.Artifacts.LegacyTopics,
			KeywordAnalysis:  cfg.Artifacts.KeywordAnalysis,
			TrendingKeywords: cfg.Artifacts.TrendingKeywords,
		},
		resolve.Timeouts{
			Topics: cfg.Generator.TopicsTimeout,
			Stats:  cfg.Generator.StatsTimeout,
		},
		m,
	)

	resolver := resolve.NewResolver(tiers, scorer, classifier, resultCache,
		publisher, m, zl, resolve.Config{CacheTTL: cfg.Cache.TTL})

	// Scheduled artifact refresh, off unless enabled.
	if cfg.Refresh.Enabled {
		refresher := scheduler.NewRefresher(invoker, cfg.Artifacts.Dir,
			cfg.Artifacts.MassTopics, cfg.Generator.TopicsTimeout, zl)
		if err := refresher.Start(cfg.Refresh.CronSpec); err != nil {
			zl.Fatal("starting artifact refresh", zap.Error(err))
		}
		defer refresher.Stop()
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		resolver,
		classifier,
		natsConn,
		cfg.NATS.Subject,
		registry,
		zl,
	)

	// Start HTTP server
	go func() {
		zl.Info("starting HTTP server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	zl.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn("HTTP server shutdown error", zap.Error(err))
	}

	zl.Info("shutdown complete")
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, zl *zap.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			zl.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			zl.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			zl.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
