package cases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sbateeni/legal-analysis-nextjs/internal/application"
	domainanalysis "github.com/sbateeni/legal-analysis-nextjs/internal/domain/analysis"
	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
)

// maxNameLength bounds case names.
const maxNameLength = 200

// ErrInvalidName is returned for an empty or oversized case name.
var ErrInvalidName = errors.New("case name must be 1-200 characters")

// ErrExportDisabled is returned when no artifact store is configured.
var ErrExportDisabled = errors.New("case export is not configured")

// Service implements use-cases untuk Case
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo      domain.Repository
	Artifacts domain.ArtifactStore
	Clock     application.Clock
}

// Create opens a new empty case for the owner.
func (s *Service) Create(ctx context.Context, owner, name string) (*domain.Case, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLength {
		return nil, ErrInvalidName
	}
	c := &domain.Case{
		ID:        domain.CaseID(uuid.New().String()),
		Owner:     owner,
		Name:      name,
		CreatedAt: s.Clock.Now().UTC(),
		Stages:    []domain.StageRecord{},
	}
	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save case: %w", err)
	}
	return c, nil
}

// List pages through the owner's cases, newest first.
func (s *Service) List(ctx context.Context, owner string, page, pageSize int) ([]*domain.Case, error) {
	return s.Repo.Paginate(ctx, owner, page, pageSize)
}

// Get returns one case with its stage records.
func (s *Service) Get(ctx context.Context, owner string, id domain.CaseID) (*domain.Case, error) {
	return s.Repo.Get(ctx, owner, id)
}

// Delete removes a case and its stage records.
func (s *Service) Delete(ctx context.Context, owner string, id domain.CaseID) error {
	return s.Repo.Delete(ctx, owner, id)
}

// Record appends an analysed stage to an existing case.
func (s *Service) Record(ctx context.Context, owner string, id domain.CaseID, input string, res domainanalysis.Result) (*domain.StageRecord, error) {
	rec := &domain.StageRecord{
		ID:         uuid.New().String(),
		CaseID:     id,
		StageIndex: res.StageIndex,
		Stage:      res.Stage,
		Input:      input,
		Output:     res.Analysis,
		Status:     string(res.Status),
		CreatedAt:  s.Clock.Now().UTC(),
	}
	if err := s.Repo.AddStage(ctx, owner, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Report is the exported form of a case.
type Report struct {
	Case        *domain.Case `json:"case"`
	TotalStages int          `json:"total_stages"`
	Covered     []int        `json:"covered_stages"`
	ExportedAt  time.Time    `json:"exported_at"`
}

// Export uploads a JSON report of the case and returns its URL.
func (s *Service) Export(ctx context.Context, owner string, id domain.CaseID) (string, error) {
	if s.Artifacts == nil {
		return "", ErrExportDisabled
	}
	c, err := s.Repo.Get(ctx, owner, id)
	if err != nil {
		return "", err
	}
	now := s.Clock.Now().UTC()
	body, err := json.MarshalIndent(Report{
		Case:        c,
		TotalStages: stages.Count,
		Covered:     covered(c),
		ExportedAt:  now,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	key := fmt.Sprintf("cases/%s/%s-%d.json", c.ID, "report", now.Unix())
	return s.Artifacts.Upload(ctx, key, body, "application/json")
}

func covered(c *domain.Case) []int {
	seen := make([]bool, stages.Count)
	for _, r := range c.Stages {
		if r.Status == string(domainanalysis.StatusCompleted) && r.StageIndex >= 0 && r.StageIndex < stages.Count {
			seen[r.StageIndex] = true
		}
	}
	out := []int{}
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
