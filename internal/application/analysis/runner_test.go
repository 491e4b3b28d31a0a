package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/analysis"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
	"github.com/sbateeni/legal-analysis-nextjs/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingRecorder struct {
	mu        sync.Mutex
	attempts  []bool
	fallbacks int
	statuses  []domain.Status
}

func (c *countingRecorder) ObserveAttempt(ok bool) {
	c.mu.Lock()
	c.attempts = append(c.attempts, ok)
	c.mu.Unlock()
}

func (c *countingRecorder) ObserveVerificationFallback() {
	c.mu.Lock()
	c.fallbacks++
	c.mu.Unlock()
}

func (c *countingRecorder) ObserveAnalysis(s domain.Status) {
	c.mu.Lock()
	c.statuses = append(c.statuses, s)
	c.mu.Unlock()
}

func newRunner(p *testutil.MockProvider, policy RetryPolicy, verify bool) (*Runner, *testutil.FakeClock, *countingRecorder) {
	clock := testutil.NewFakeClock(time.Unix(0, 0))
	rec := &countingRecorder{}
	return &Runner{
		Provider: p,
		Policy:   policy,
		Clock:    clock,
		Metrics:  rec,
		Verify:   verify,
	}, clock, rec
}

func request(stage int) Request {
	return Request{
		Text:       "عقد بيع عقاري بين طرفين...",
		StageIndex: stage,
		Credential: credentials.New("AIzaSyD-0123456789abcdef"),
	}
}

func TestRunCompletedExample(t *testing.T) {
	p := &testutil.MockProvider{Default: testutil.Step{Text: "تحليل"}}
	r, _, rec := newRunner(p, RetryPolicy{MaxAttempts: 1}, false)

	res, err := r.Run(context.Background(), request(0))
	require.NoError(t, err)

	assert.Equal(t, stages.Names()[0], res.Stage)
	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.Equal(t, 0, res.StageIndex)
	assert.Equal(t, 12, res.TotalStages)
	assert.Equal(t, "تحليل", res.Analysis)
	assert.NotEmpty(t, res.Description)
	assert.NotEmpty(t, res.KeyPoints)
	assert.Equal(t, []domain.Status{domain.StatusCompleted}, rec.statuses)

	prompts := p.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "عقد بيع عقاري بين طرفين...")
	assert.Equal(t, []string{"AIzaSyD-0123456789abcdef"}, p.Keys())
}

func TestRunRetriesUntilSuccess(t *testing.T) {
	p := &testutil.MockProvider{Steps: []testutil.Step{
		{Err: errors.New("503 unavailable")},
		{Text: ""},
		{Text: "third attempt content"},
	}}
	r, clock, rec := newRunner(p, RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}, false)

	res, err := r.Run(context.Background(), request(4))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.Equal(t, "third attempt content", res.Analysis)
	assert.Equal(t, 3, p.Calls())
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, clock.Sleeps())
	assert.Equal(t, []bool{false, false, true}, rec.attempts)
}

func TestRunSingleAttemptPolicy(t *testing.T) {
	p := &testutil.MockProvider{Steps: []testutil.Step{
		{Err: errors.New("boom")},
		{Err: errors.New("boom")},
		{Text: "never reached"},
	}}
	r, clock, rec := newRunner(p, RetryPolicy{MaxAttempts: 1, Backoff: 2 * time.Second}, true)

	res, err := r.Run(context.Background(), request(4))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusError, res.Status)
	assert.Equal(t, domain.NoAnalysisText, res.Analysis)
	assert.Contains(t, res.Error, "boom")
	assert.Equal(t, 4, res.StageIndex)
	assert.Equal(t, 12, res.TotalStages)
	assert.Equal(t, 1, p.Calls())
	assert.Empty(t, clock.Sleeps())
	assert.Equal(t, []domain.Status{domain.StatusError}, rec.statuses)
}

func TestRunExhaustedEmptyResponses(t *testing.T) {
	p := &testutil.MockProvider{Default: testutil.Step{Text: "  "}}
	r, clock, _ := newRunner(p, RetryPolicy{MaxAttempts: 3, Backoff: time.Second}, true)

	res, err := r.Run(context.Background(), request(1))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, res.Status)
	assert.Equal(t, 3, p.Calls())
	assert.Len(t, clock.Sleeps(), 2)
}

func TestRunVerificationRefines(t *testing.T) {
	p := &testutil.MockProvider{Steps: []testutil.Step{
		{Text: "draft"},
		{Text: "refined"},
	}}
	r, _, _ := newRunner(p, RetryPolicy{MaxAttempts: 1}, true)

	res, err := r.Run(context.Background(), request(2))
	require.NoError(t, err)
	assert.Equal(t, "refined", res.Analysis)

	prompts := p.Prompts()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[1], "draft")
	assert.Contains(t, prompts[1], stages.Names()[2])
}

func TestRunVerificationFailureFallsBack(t *testing.T) {
	p := &testutil.MockProvider{Steps: []testutil.Step{
		{Text: "first pass"},
		{Err: errors.New("verification exploded")},
	}}
	r, _, rec := newRunner(p, RetryPolicy{MaxAttempts: 3}, true)

	res, err := r.Run(context.Background(), request(7))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.Equal(t, "first pass", res.Analysis)
	assert.Empty(t, res.Error)
	assert.Equal(t, 1, rec.fallbacks)
	assert.Equal(t, 2, p.Calls())
}

func TestRunVerificationEmptyFallsBack(t *testing.T) {
	p := &testutil.MockProvider{Steps: []testutil.Step{
		{Text: "first pass"},
		{Text: ""},
	}}
	r, _, _ := newRunner(p, RetryPolicy{MaxAttempts: 1}, true)

	res, err := r.Run(context.Background(), request(7))
	require.NoError(t, err)
	assert.Equal(t, "first pass", res.Analysis)
}

func TestRunOutOfRangeMakesNoCall(t *testing.T) {
	p := &testutil.MockProvider{Default: testutil.Step{Text: "x"}}
	reclaimed := 0
	r, _, _ := newRunner(p, RetryPolicy{MaxAttempts: 3}, true)
	r.Reclaim = func() { reclaimed++ }

	for _, idx := range []int{-1, 12} {
		_, err := r.Run(context.Background(), request(idx))
		assert.ErrorIs(t, err, stages.ErrStageOutOfRange)
	}
	assert.Equal(t, 0, p.Calls())
	assert.Equal(t, 0, reclaimed)
}

func TestRunReclaimsOnEveryOutcome(t *testing.T) {
	reclaimed := 0
	ok := &testutil.MockProvider{Default: testutil.Step{Text: "x"}}
	r, _, _ := newRunner(ok, RetryPolicy{MaxAttempts: 1}, false)
	r.Reclaim = func() { reclaimed++ }
	_, _ = r.Run(context.Background(), request(0))

	r.Provider = &testutil.MockProvider{Default: testutil.Step{Err: errors.New("x")}}
	_, _ = r.Run(context.Background(), request(0))

	assert.Equal(t, 2, reclaimed)
}

func TestRunCancelledDuringBackoff(t *testing.T) {
	p := &testutil.MockProvider{Default: testutil.Step{Err: errors.New("down")}}
	r, _, _ := newRunner(p, RetryPolicy{MaxAttempts: 3, Backoff: time.Second}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := r.Run(ctx, request(0))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, res.Status)
	assert.Equal(t, 1, p.Calls())
	assert.True(t, strings.Contains(res.Error, "context canceled"))
}

func TestRunAppliesCallTimeout(t *testing.T) {
	p := &testutil.MockProvider{Func: func(ctx context.Context, _, _ string) (string, error) {
		dl, ok := ctx.Deadline()
		if !ok {
			return "", errors.New("no deadline")
		}
		if time.Until(dl) > time.Minute {
			return "", errors.New("deadline too far")
		}
		return "bounded", nil
	}}
	r, _, _ := newRunner(p, RetryPolicy{MaxAttempts: 1}, false)
	r.CallTimeout = 30 * time.Second

	res, err := r.Run(context.Background(), request(0))
	require.NoError(t, err)
	assert.Equal(t, "bounded", res.Analysis)
}

func TestDefaultRetryPolicy(t *testing.T) {
	assert.Equal(t, RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}, DefaultRetryPolicy(true))
	assert.Equal(t, RetryPolicy{MaxAttempts: 1, Backoff: 2 * time.Second}, DefaultRetryPolicy(false))
	assert.Equal(t, 1, RetryPolicy{}.attempts())
}
