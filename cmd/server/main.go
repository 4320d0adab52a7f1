package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/quizplayer/backend/internal/api"
	"github.com/quizplayer/backend/internal/catalog"
	practicesession "github.com/quizplayer/backend/internal/domain/practice_session"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/infrastructure/config"
	"github.com/quizplayer/backend/internal/service"
	"github.com/quizplayer/backend/internal/store"

	_ "github.com/quizplayer/backend/docs" // generated swagger docs
)

// @title           Quiz Player API
// @version         1.0
// @description     Browse a folder of plain-text quizzes, take them with shuffled questions and answers, and get graded.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.Open(context.Background(), store.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Error("failed to open validation cache", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bounds := questionbank.Bounds{Min: cfg.MinConsecutiveLines, Max: cfg.MaxConsecutiveLines}

	quizzes := catalog.New(os.DirFS(cfg.QuizDirectory), db, catalog.Config{
		Bounds:  bounds,
		Workers: cfg.ValidationWorkers,
	}, logger)

	sessionCfg := practicesession.DefaultConfig()
	sessionCfg.DefaultCount = cfg.DefaultQuestionCount
	sessionCfg.LiveScoring = cfg.DefaultLiveMode
	sessionCfg.Bounds = bounds

	players := service.NewPlayerService(quizzes, sessionCfg, logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go players.SweepIdle(sweepCtx, cfg.PlayerSweepInterval, cfg.PlayerIdleTTL)
	handler := api.NewHandler(quizzes, players, cfg.ImageDirectory, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → Recover → CORS → mux ────────────
	logged := api.Logging(logger)(api.Recover(api.CORS(cfg.CORSOrigins)(mux)))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"quiz_directory", cfg.QuizDirectory,
		"db_driver", cfg.DBDriver,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
