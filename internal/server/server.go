// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trendlens/internal/config"
	"trendlens/internal/domain/topic"
	"trendlens/internal/server/handlers"
	"trendlens/internal/service/sentiment"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	resolver topic.Resolver,
	classifier *sentiment.Classifier,
	natsConn *nats.Conn,
	natsSubject string,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	topicHandler := handlers.NewTopicHandler(resolver)
	analysisHandler := handlers.NewAnalysisHandler(resolver)
	sentimentHandler := handlers.NewSentimentHandler(classifier)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// Topics API
		r.Route("/topics", func(r chi.Router) {
			r.Get("/hot", topicHandler.GetHotTopics)
			r.Post("/search", topicHandler.SearchTopics)
		})

		r.Get("/keywords/trending", topicHandler.GetTrendingKeywords)
		r.Get("/stats/platform", topicHandler.GetPlatformStats)

		// Analysis API
		r.Route("/analysis", func(r chi.Router) {
			r.Get("/user-profile", analysisHandler.GetUserProfile)
			r.Get("/trends", analysisHandler.GetTrends)
		})

		r.Post("/ai/sentiment", sentimentHandler.Classify)
	})

	// WebSocket endpoint for the live resolution stream
	router.Get("/ws/trends", handlers.TrendsWebSocketHandler(natsConn, natsSubject, logger))

	// Prometheus metrics
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Router exposes the chi mux, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
