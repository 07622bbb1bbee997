package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/odnar/internal/api/handlers"
	mw "github.com/Harshitk-cp/odnar/internal/api/middleware"
	"github.com/Harshitk-cp/odnar/internal/buildconfig"
	"github.com/Harshitk-cp/odnar/internal/config"
	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/llm"
	"github.com/Harshitk-cp/odnar/internal/service"
	"github.com/Harshitk-cp/odnar/internal/store"
	"github.com/Harshitk-cp/odnar/internal/store/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage is the persistence backend the app runs on.
type Storage struct {
	Driver string
	Memos  domain.MemoStore
	Cards  domain.CardStore
	Ping   func(ctx context.Context) error
}

func PostgresStorage(pool *pgxpool.Pool) Storage {
	return Storage{
		Driver: config.StoragePostgres,
		Memos:  store.NewMemoStore(pool),
		Cards:  store.NewCardStore(pool),
		Ping:   pool.Ping,
	}
}

func SQLiteStorage(db *sql.DB) Storage {
	return Storage{
		Driver: config.StorageSQLite,
		Memos:  sqlite.NewMemoStore(db),
		Cards:  sqlite.NewCardStore(db),
		Ping:   db.PingContext,
	}
}

// App holds the router and the analyzer for lifecycle management.
type App struct {
	Router           *chi.Mux
	Analyzer         *service.ContradictionAnalyzer
	storage          Storage
	llmProvider      string
	startTime        time.Time
	requestCount     atomic.Int64
	errorCount       atomic.Int64
	serverErrorCount atomic.Int64
}

func NewApp(storage Storage, logger *zap.Logger) *App {
	// LLM client via provider factory; without a credential the analyzer stays inert.
	var llmClient domain.LLMClient
	llmProvider := config.LLMProvider()
	if config.AnalyzerEnabled() {
		var err error
		llmClient, err = llm.NewClient(llmProvider, config.LLMAPIKey(), config.LLMModel())
		if err != nil {
			logger.Warn("LLM client initialization failed", zap.String("provider", llmProvider), zap.Error(err))
		} else {
			logger.Info("LLM client initialized", zap.String("provider", llmProvider), zap.String("model", llmClient.Model()))
		}
	} else {
		logger.Info("no LLM credential configured, contradiction analysis disabled", zap.String("provider", llmProvider))
	}

	// Services
	analyzer := service.NewContradictionAnalyzer(storage.Memos, storage.Cards, llmClient, logger)
	analyzer.SetTimeout(config.AnalyzerTimeout())
	analyzer.SetBackground(config.AnalyzerMode() == config.AnalyzerBackground)
	memoSvc := service.NewMemoService(storage.Memos, storage.Cards, analyzer, logger)
	cardSvc := service.NewCardService(storage.Cards)

	// Handlers
	memoHandler := handlers.NewMemoHandler(memoSvc)
	cardHandler := handlers.NewCardHandler(cardSvc)

	r := chi.NewRouter()

	app := &App{
		Router:      r,
		Analyzer:    analyzer,
		storage:     storage,
		llmProvider: llmProvider,
		startTime:   time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, &app.serverErrorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	if origins := config.CORSAllowedOrigins(); len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
			ExposedHeaders: []string{mw.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(storage))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Route("/memos", func(r chi.Router) {
			r.Post("/", memoHandler.Create)
			r.Get("/", memoHandler.List)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.List)
			r.Get("/{id}", cardHandler.GetByID)
		})
	})

	return app
}

func healthHandler(storage Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := storage.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "storage": storage.Driver})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"server_errors":  app.serverErrorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"analyzer": map[string]any{
				"enabled":  app.Analyzer.Enabled(),
				"provider": app.llmProvider,
				"mode":     config.AnalyzerMode(),
			},
			"storage":    app.storage.Driver,
			"build":      buildconfig.VersionInfo(),
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.MemoStore = (*store.MemoStore)(nil)
	_ domain.CardStore = (*store.CardStore)(nil)
	_ domain.MemoStore = (*sqlite.MemoStore)(nil)
	_ domain.CardStore = (*sqlite.CardStore)(nil)
	_ domain.LLMClient = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient = (*llm.GeminiClient)(nil)
	_ domain.LLMClient = (*llm.CerebrasClient)(nil)
	_ domain.LLMClient = (*llm.MockClient)(nil)
)
