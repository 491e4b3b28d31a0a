package analysis

import "time"

// DefaultBackoff is the pause between failed attempts.
const DefaultBackoff = 2 * time.Second

// RetryPolicy bounds the attempts made for the main analysis call.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy returns 3 attempts for high-latency deployments and 1 otherwise.
func DefaultRetryPolicy(highLatency bool) RetryPolicy {
	p := RetryPolicy{MaxAttempts: 1, Backoff: DefaultBackoff}
	if highLatency {
		p.MaxAttempts = 3
	}
	return p
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
