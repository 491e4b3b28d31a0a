package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sbateeni/legal-analysis-nextjs/internal/application"
	appanalysis "github.com/sbateeni/legal-analysis-nextjs/internal/application/analysis"
	appcases "github.com/sbateeni/legal-analysis-nextjs/internal/application/cases"
	appcreds "github.com/sbateeni/legal-analysis-nextjs/internal/application/credentials"
	"github.com/sbateeni/legal-analysis-nextjs/internal/config"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/ai/gemini"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/ai/openai"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/db/memory"
	mysqlp "github.com/sbateeni/legal-analysis-nextjs/internal/infra/db/mysql"
	postgresp "github.com/sbateeni/legal-analysis-nextjs/internal/infra/db/postgres"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/httpserver"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/session"
	minioStore "github.com/sbateeni/legal-analysis-nextjs/internal/infra/storage"
	"github.com/sbateeni/legal-analysis-nextjs/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

func newProvider(cfg *config.Config) ai.Provider {
	p := cfg.Provider
	if p.Name == config.ProviderOpenAI {
		return openai.NewClient(p.Model, p.BaseURL, p.MaxOutputTokens)
	}
	return gemini.NewClient(p.Model, p.BaseURL, p.MaxOutputTokens)
}

func newValidator(cfg *config.Config, provider ai.Provider, log *zap.Logger) *appcreds.Validator {
	return appcreds.NewValidator(provider, appcreds.Options{
		Prefix:       cfg.Credentials.KeyPrefix,
		MinLength:    cfg.Credentials.MinLength,
		CacheTTL:     cfg.Credentials.ValidationCacheTTL,
		CheckTimeout: cfg.Provider.RequestTimeout,
	}, application.SystemClock{}, log)
}

func newRunner(cfg *config.Config, provider ai.Provider, metrics *middleware.Metrics, log *zap.Logger) *appanalysis.Runner {
	policy := appanalysis.DefaultRetryPolicy(cfg.Analysis.HighLatency)
	if cfg.Analysis.Backoff > 0 {
		policy.Backoff = cfg.Analysis.Backoff
	}
	r := &appanalysis.Runner{
		Provider:    provider,
		Policy:      policy,
		Clock:       application.SystemClock{},
		Log:         log,
		Metrics:     metrics,
		Verify:      cfg.Analysis.Verify,
		CallTimeout: cfg.Provider.RequestTimeout,
	}
	if cfg.Analysis.ReclaimMemory {
		r.Reclaim = appanalysis.ReclaimMemory
	}
	return r
}

// openRepository returns the case repository for the configured driver.
// The returned db is nil for the memory driver.
func openRepository(ctx context.Context, cfg *config.Config) (cases.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQL())
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect error: %w", err)
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("mysql migrate error: %w", err)
		}
		return mysqlp.NewCaseRepository(db), db, nil
	case config.DriverPostgres:
		db, err := postgresp.Connect(ctx, cfg.Postgres())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect error: %w", err)
		}
		if err := postgresp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("postgres migrate error: %w", err)
		}
		return postgresp.NewCaseRepository(db), db, nil
	default:
		return memory.NewCaseRepository(), nil, nil
	}
}

func serve(parent context.Context, path string) error {
	cfg, log, err := loadConfig(path)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := map[string]middleware.HealthChecker{}

	// init repo
	repo, db, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		health["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	svc := &appcases.Service{Repo: repo, Clock: application.SystemClock{}}

	// init minio
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:      cfg.Minio.Endpoint,
			Region:        cfg.Minio.Region,
			Bucket:        cfg.Minio.BucketName,
			AccessKey:     cfg.Minio.AccessKey,
			SecretKey:     cfg.Minio.SecretKey,
			UseSSL:        cfg.Minio.UseSSL,
			PresignExpiry: cfg.Minio.PresignExpiry,
		})
		if err != nil {
			return fmt.Errorf("minio init error: %w", err)
		}
		svc.Artifacts = store
		health["storage"] = middleware.CheckerFunc(store.Check)
	}

	metrics := middleware.NewMetrics()
	provider := newProvider(cfg)

	sessions := session.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval)
	defer sessions.Close()
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	defer limiter.Close()

	// init router
	handler := httpserver.NewRouter(httpserver.Deps{
		Runner:    newRunner(cfg, provider, metrics, log),
		Validator: newValidator(cfg, provider, log),
		Cases:     svc,
		Sessions:  sessions,
		SessionOptions: middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
		},
		Metrics:     metrics,
		Limiter:     limiter,
		Health:      health,
		Provider:    cfg.Provider.Name,
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", addr),
			zap.String("provider", cfg.Provider.Name),
			zap.String("database", cfg.Database.Driver),
			zap.Bool("high_latency", cfg.Analysis.HighLatency))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// graceful shutdown
	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
		return err
	}
	return nil
}
