package cases

import "time"

// CaseID identifier type
type CaseID string

// Case is a named, session-owned collection of analysed stages.
type Case struct {
	ID        CaseID        `json:"id"`
	Owner     string        `json:"-"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Stages    []StageRecord `json:"stages"`
}

// StageRecord is one analysed stage stored in a case.
type StageRecord struct {
	ID         string    `json:"id"`
	CaseID     CaseID    `json:"case_id"`
	StageIndex int       `json:"stage_index"`
	Stage      string    `json:"stage"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
