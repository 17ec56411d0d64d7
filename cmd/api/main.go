package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/expense-insights/internal/api/handlers"
	"github.com/dvloznov/expense-insights/internal/api/middleware"
	"github.com/dvloznov/expense-insights/internal/auth"
	"github.com/dvloznov/expense-insights/internal/cache"
	"github.com/dvloznov/expense-insights/internal/config"
	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/events"
	eventsInmem "github.com/dvloznov/expense-insights/internal/events/inmemory"
	"github.com/dvloznov/expense-insights/internal/insight"
	"github.com/dvloznov/expense-insights/internal/logger"
	"github.com/dvloznov/expense-insights/internal/records"
	"github.com/dvloznov/expense-insights/internal/store/factory"
)

func main() {
	// Initialize logger
	log := logger.New("api")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	// Initialize the record store
	recordStore, err := factory.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create record store")
	}
	defer recordStore.Close()

	// Record cache, keyed by user ID, flushed by change notifications
	recordCache := cache.NewTTLCache[[]*domain.ExpenseRecord](cfg.RecordCacheTTL)

	// Change notification bus: each successful create invalidates the
	// creator's cached record list.
	bus := eventsInmem.NewBus(100)

	busCtx, cancelBus := context.WithCancel(ctx)
	defer cancelBus()

	go func() {
		log.Info().Msg("Starting notification consumer")
		err := bus.Start(busCtx, func(ctx context.Context, ev events.RecordsChanged) {
			recordCache.Delete(ev.UserID)
			log.Debug().Str("user_id", ev.UserID).Msg("Record cache invalidated")
		})
		if err != nil {
			log.Error().Err(err).Msg("Notification consumer stopped with error")
		}
	}()

	// Identity: JWT middleware puts the user ID on the context, the
	// resolver reads it back inside the services.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
	identity := auth.NewContextResolver()

	// Insight pipeline
	backend, err := insight.NewGeminiGenerator(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create insight backend")
	}

	window := insight.NewWindowSelector(recordStore, nil)
	orchestrator := insight.NewOrchestrator(identity, window, backend, cfg.InsightTimeout, log)

	// Records service
	recordService := records.NewService(recordStore, identity, bus, nil, log)

	// Initialize handlers
	recordsHandler := handlers.NewRecordsHandler(recordService, recordCache, log)
	insightsHandler := handlers.NewInsightsHandler(orchestrator, log)

	// Create router
	mux := http.NewServeMux()

	// Records endpoints
	mux.HandleFunc("/api/records", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			recordsHandler.CreateRecord(w, r)
		case http.MethodGet:
			recordsHandler.ListRecords(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/records/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			recordsHandler.GetSummary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Insights endpoints
	mux.HandleFunc("/api/insights", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			insightsHandler.GetInsights(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/insights/answer", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			insightsHandler.AnswerQuestion(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(jwtManager, log)(mux),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelBus()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Drain remaining notifications, then close the bus
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping notification bus")
	}
	if err := bus.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close notification bus")
	}

	log.Info().Msg("Server exited")
}
