package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
)

const checkTimeout = 5 * time.Second

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// DatabaseHealthChecker pings the case store.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// HealthOptions is what /health and /readyz report on.
type HealthOptions struct {
	// Checkers are the external dependencies (case store, report storage).
	Checkers map[string]HealthChecker
	// Provider names the configured AI provider.
	Provider string
	// Sessions returns the number of live sessions. Optional.
	Sessions func() int
}

// HealthReport is the /health body.
type HealthReport struct {
	Status         string                 `json:"status"`
	Timestamp      time.Time              `json:"timestamp"`
	Provider       string                 `json:"provider,omitempty"`
	Stages         int                    `json:"stages"`
	ActiveSessions int                    `json:"active_sessions"`
	Checks         map[string]CheckStatus `json:"checks"`
}

// CheckStatus is the outcome of one dependency check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// runChecks runs every checker concurrently and reports whether all passed.
func (o HealthOptions) runChecks(ctx context.Context) (map[string]CheckStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		g      errgroup.Group
		checks = make(map[string]CheckStatus, len(o.Checkers))
		ok     = true
	)
	for name, checker := range o.Checkers {
		g.Go(func() error {
			st := CheckStatus{Status: "healthy"}
			if err := checker.Check(ctx); err != nil {
				st = CheckStatus{Status: "unhealthy", Message: err.Error()}
			}
			mu.Lock()
			checks[name] = st
			if st.Status != "healthy" {
				ok = false
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return checks, ok
}

// HealthHandler reports service state and dependency checks; 503 when any
// dependency is down.
func HealthHandler(opts HealthOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks, ok := opts.runChecks(r.Context())
		report := HealthReport{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Provider:  opts.Provider,
			Stages:    stages.Count,
			Checks:    checks,
		}
		if opts.Sessions != nil {
			report.ActiveSessions = opts.Sessions()
		}
		code := http.StatusOK
		if !ok {
			report.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, report)
	}
}

// ReadinessHandler is ready once every dependency check passes; the failing
// ones are listed otherwise.
func ReadinessHandler(opts HealthOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks, ok := opts.runChecks(r.Context())
		if ok {
			writeHealth(w, http.StatusOK, map[string]any{
				"status":    "ready",
				"timestamp": time.Now().UTC(),
			})
			return
		}
		failing := make([]string, 0, len(checks))
		for name, st := range checks {
			if st.Status != "healthy" {
				failing = append(failing, name)
			}
		}
		sort.Strings(failing)
		writeHealth(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "not_ready",
			"timestamp": time.Now().UTC(),
			"failing":   failing,
		})
	}
}

// LivenessHandler answers as long as the process serves requests.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeHealth(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
