package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql (goose)
	"github.com/pressly/goose/v3"

	"github.com/tastemap/tastemap-backend/internal/adapter/postgres"
	hashtagrepo "github.com/tastemap/tastemap-backend/internal/adapter/postgres/hashtag"
	matchrepo "github.com/tastemap/tastemap-backend/internal/adapter/postgres/match"
	resourcerepo "github.com/tastemap/tastemap-backend/internal/adapter/postgres/resource"
	"github.com/tastemap/tastemap-backend/internal/auth"
	"github.com/tastemap/tastemap-backend/internal/config"
	"github.com/tastemap/tastemap-backend/internal/service/bulk"
	"github.com/tastemap/tastemap-backend/internal/service/cleanup"
	"github.com/tastemap/tastemap-backend/internal/service/resource"
	"github.com/tastemap/tastemap-backend/internal/transport/middleware"
	"github.com/tastemap/tastemap-backend/internal/transport/rest"
	"github.com/tastemap/tastemap-backend/migrations"
)

// adminRequestsPerMinute caps request throughput per client IP. Bulk
// batches are heavy; the API is for back-office tooling, not end users.
const adminRequestsPerMinute = 300

// Run wires the application together and serves HTTP until ctx is
// cancelled: configuration, logger, database pool, optional migrations,
// repositories, services and the admin REST API.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := runMigrations(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	// Repositories.
	resources := resourcerepo.New(pool)
	matcher := matchrepo.New(pool)
	hashtags := hashtagrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	// Services.
	resourceSvc := resource.NewService(logger, resources)
	bulkSvc := bulk.NewService(logger, resources, matcher, hashtags, txManager, cfg.Bulk)
	cleanupSvc := cleanup.NewService(logger, resources, txManager)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	// Routes.
	mux := http.NewServeMux()

	health := rest.NewHealthHandler(pool, BuildVersion())
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /health/live", health.Live)
	mux.HandleFunc("GET /health/ready", health.Ready)

	rest.NewAdminHandler(resourceSvc, bulkSvc, cleanupSvc, logger).Register(mux)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(adminRequestsPerMinute),
		middleware.Auth(jwtManager),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// runMigrations applies the embedded goose migrations. goose requires a
// *sql.DB, so a short-lived stdlib connection is opened alongside the pool.
func runMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
