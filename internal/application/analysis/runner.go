package analysis

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sbateeni/legal-analysis-nextjs/internal/application"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/analysis"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/ai/prompt"
)

// Request is one stage analysis.
type Request struct {
	Text       string
	StageIndex int
	Credential credentials.Credential
}

// Runner analyses a single stage per call.
// Runner is safe for concurrent use; all per-call state is local.
type Runner struct {
	Provider ai.Provider
	Policy   RetryPolicy
	Clock    application.Clock
	Log      *zap.Logger
	Metrics  Recorder

	// Verify enables the second refinement pass.
	Verify bool
	// CallTimeout bounds each provider call; zero means no extra deadline.
	CallTimeout time.Duration
	// Reclaim runs after every invocation. Nil disables it.
	Reclaim func()
}

// ReclaimMemory forces a collection and returns freed memory to the OS.
func ReclaimMemory() {
	runtime.GC()
	debug.FreeOSMemory()
}

// Run analyses req.Text for one stage. Provider failures never surface as
// errors: the returned Result carries StatusError instead. The only error
// is an out-of-range stage, rejected before any provider call.
func (r *Runner) Run(ctx context.Context, req Request) (domain.Result, error) {
	stage, err := stages.ByIndex(req.StageIndex)
	if err != nil {
		return domain.Result{}, err
	}
	defer r.reclaim()

	log := r.logger().With(
		zap.Int("stage_index", stage.Index),
		zap.String("key", req.Credential.Redacted()))
	log.Info("stage analysis started",
		zap.String("stage", stage.Name),
		zap.Int("text_runes", len([]rune(req.Text))))

	draft, lastErr := r.attempt(ctx, log, req.Credential, stage.Prompt(req.Text))
	if draft == "" {
		log.Warn("all analysis attempts failed", zap.Error(lastErr))
		res := domain.NewResult(stage, domain.StatusError, domain.NoAnalysisText)
		if lastErr != nil {
			res.Error = lastErr.Error()
		}
		r.recorder().ObserveAnalysis(domain.StatusError)
		return res, nil
	}

	final := draft
	if r.Verify {
		final = r.verify(ctx, log, req.Credential, stage, req.Text, draft)
	}
	log.Info("stage analysis completed", zap.Int("analysis_runes", len([]rune(final))))
	r.recorder().ObserveAnalysis(domain.StatusCompleted)
	return domain.NewResult(stage, domain.StatusCompleted, final), nil
}

func (r *Runner) attempt(ctx context.Context, log *zap.Logger, cred credentials.Credential, p string) (string, error) {
	attempts := r.Policy.attempts()
	var lastErr error
	for i := 1; i <= attempts; i++ {
		text, err := r.call(ctx, cred, p)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ai.ErrEmptyResponse
		}
		r.recorder().ObserveAttempt(err == nil)
		if err == nil {
			return text, nil
		}
		lastErr = fmt.Errorf("attempt %d/%d: %w", i, attempts, err)
		log.Warn("analysis attempt failed",
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
			zap.String("kind", string(ai.Classify(err))),
			zap.Error(err))

		if i == attempts {
			break
		}
		if err := r.clock().Sleep(ctx, r.Policy.Backoff); err != nil {
			return "", fmt.Errorf("retry wait: %w", err)
		}
	}
	return "", lastErr
}

// verify asks the model to refine the draft. Any failure falls back to the
// draft unchanged.
// TODO: product review whether a failed refinement should be reported to the client instead of masked.
func (r *Runner) verify(ctx context.Context, log *zap.Logger, cred credentials.Credential, stage stages.Stage, text, draft string) string {
	refined, err := r.call(ctx, cred, prompt.Verification(stage.Name, text, draft))
	if err == nil && strings.TrimSpace(refined) == "" {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		log.Warn("verification failed, keeping first-pass analysis", zap.Error(err))
		r.recorder().ObserveVerificationFallback()
		return draft
	}
	return refined
}

func (r *Runner) call(ctx context.Context, cred credentials.Credential, p string) (string, error) {
	if r.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.CallTimeout)
		defer cancel()
	}
	return r.Provider.Generate(ctx, cred.Key(), p)
}

func (r *Runner) reclaim() {
	if r.Reclaim != nil {
		r.Reclaim()
	}
}

func (r *Runner) clock() application.Clock {
	if r.Clock == nil {
		return application.SystemClock{}
	}
	return r.Clock
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) recorder() Recorder {
	if r.Metrics == nil {
		return nopRecorder{}
	}
	return r.Metrics
}
