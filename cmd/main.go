// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"go_nocontact_keep/internal/config"
	"go_nocontact_keep/internal/handlers"
	"go_nocontact_keep/internal/middleware"
	"go_nocontact_keep/internal/migration"
	"go_nocontact_keep/internal/notify"
	"go_nocontact_keep/internal/progression"
	"go_nocontact_keep/internal/repository"
	"go_nocontact_keep/internal/scheduler"
	"go_nocontact_keep/internal/service"
	"go_nocontact_keep/internal/webutil"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	//　設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log, tempLogger)
	log.Println("Log Config Loaded...")
	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	// 1. Database
	db, err := repository.NewDB(cfg.Database, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 2. Dependency Injection
	clock := service.SystemClock()
	recordRepo := repository.NewGormRecordRepository()
	entryRepo := repository.NewGormEntryRepository()
	migrator := migration.NewMigrator(recordRepo, logger)
	progressService := service.NewReconciliationService(db, recordRepo, entryRepo, migrator, progression.NewEngine(), clock, cfg)

	// 起動時の読み込み。失敗してもメモリ上の既定状態で動き続ける
	bootCtx := middleware.WithLogger(context.Background(), logger)
	report, err := progressService.Bootstrap(bootCtx, service.BootstrapOptions{
		SeedNewUser:   cfg.App.SeedNewUser,
		ExPartnerName: cfg.App.ExPartnerName,
	})
	if err != nil {
		slog.Warn("Bootstrap failed, continuing with in-memory defaults", slog.Any("error", err))
	} else {
		slog.Info("Bootstrap completed",
			slog.Int("migrated", report.Migrated),
			slog.Int("records_removed", report.RecordsRemoved),
			slog.Bool("record_created", report.RecordCreated),
			slog.Bool("level_advanced", report.LevelAdvanced),
		)
	}

	validator, err := webutil.NewValidator()
	if err != nil {
		slog.Error("Error initializing validator", slog.Any("error", err))
		os.Exit(1)
	}
	progressHandler := handlers.NewProgressHandler(progressService, validator, clock, logger)

	// 3. Scheduler
	var notifier scheduler.Notifier = scheduler.NewLogNotifier(logger)
	if cfg.Notify.To != "" {
		mailer, err := notify.NewMailer(bootCtx, cfg.Notify)
		if err != nil {
			slog.Error("Error initializing mailer", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = notify.NewMailNotifier(mailer, cfg.Notify.To)
	}
	jobs := scheduler.New(progressService, notifier, clock, logger, scheduler.Options{
		IntegrityInterval: cfg.App.IntegrityCheckInterval,
		MilestoneInterval: cfg.App.MilestoneCheckInterval,
	})
	if err := jobs.Start(); err != nil {
		slog.Error("Error starting scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer jobs.Stop()

	// 4. Router
	r := newRouter(cfg, logger, db, progressHandler)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1) // Listen失敗は致命的
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	// 終了前に最後の状態を書き戻す
	if err := progressService.Save(middleware.WithLogger(ctx, logger)); err != nil {
		slog.Error("Final save failed", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は設定に従って slog ロガーを作ります。APP_ENV=dev か log.format=text なら tint を使います
func newLogger(cfg config.LogConfig, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(cfg.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo) // 不明な場合はInfo
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" || strings.ToLower(cfg.Format) == "text" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}

func newRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, progressHandler *handlers.ProgressHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", progressHandler.Routes)

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
