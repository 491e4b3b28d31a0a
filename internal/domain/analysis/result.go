package analysis

import "github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"

// Status of a stage analysis.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// NoAnalysisText is reported when every attempt failed.
const NoAnalysisText = "لم يتم الحصول على تحليل لهذه المرحلة بعد عدة محاولات"

// Result is the single record emitted for one stage invocation.
type Result struct {
	Stage       string   `json:"stage"`
	Description string   `json:"description"`
	KeyPoints   []string `json:"key_points"`
	Analysis    string   `json:"analysis"`
	Status      Status   `json:"status"`
	StageIndex  int      `json:"stage_index"`
	TotalStages int      `json:"total_stages"`
	Error       string   `json:"error,omitempty"`
}

// NewResult fills the stage metadata of a result.
func NewResult(s stages.Stage, status Status, text string) Result {
	return Result{
		Stage:       s.Name,
		Description: s.Description,
		KeyPoints:   s.KeyPoints,
		Analysis:    text,
		Status:      status,
		StageIndex:  s.Index,
		TotalStages: stages.Count,
	}
}

// Progress is the envelope sent around a result on the stream.
type Progress struct {
	Status      string `json:"status"`
	StageIndex  int    `json:"stage_index"`
	TotalStages int    `json:"total_stages"`
}
