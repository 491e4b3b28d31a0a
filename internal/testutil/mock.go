// Package testutil provides fakes for the AI provider and the clock.
package testutil

import (
	"context"
	"sync"
	"time"
)

// Step is one scripted provider reply.
type Step struct {
	Text string
	Err  error
}

// MockProvider is a thread-safe scripted ai.Provider.
//
// Usage:
//
//	// fail twice, then answer
//	p := &MockProvider{Steps: []Step{
//	    {Err: errors.New("boom")},
//	    {Text: ""},
//	    {Text: "analysis"},
//	}}
//
// Once Steps are used up, Default is returned.
type MockProvider struct {
	mu      sync.Mutex
	Steps   []Step
	Default Step
	// Func, when set, replaces Steps and Default.
	Func func(ctx context.Context, apiKey, prompt string) (string, error)

	calls   int
	prompts []string
	keys    []string
}

// Generate implements ai.Provider.
func (m *MockProvider) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	m.mu.Lock()
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.keys = append(m.keys, apiKey)
	fn := m.Func
	step := m.Default
	if i < len(m.Steps) {
		step = m.Steps[i]
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, apiKey, prompt)
	}
	return step.Text, step.Err
}

// Calls returns how many times Generate ran.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns every prompt received, in order.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Keys returns every api key received, in order.
func (m *MockProvider) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keys...)
}

// FakeClock never blocks; Sleep advances Now and records the duration.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	return nil
}

// Advance moves Now forward without recording a sleep.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Sleeps returns every duration passed to Sleep.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
