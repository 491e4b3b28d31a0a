package analysis

import domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/analysis"

// Recorder observes runner outcomes.
type Recorder interface {
	ObserveAttempt(ok bool)
	ObserveVerificationFallback()
	ObserveAnalysis(status domain.Status)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAttempt(bool) {}
func (nopRecorder) ObserveVerificationFallback() {}
func (nopRecorder) ObserveAnalysis(domain.Status) {}
