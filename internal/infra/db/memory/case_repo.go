package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
)

// CaseRepository keeps cases in process memory. Used when no database is configured.
type CaseRepository struct {
	mu    sync.RWMutex
	cases map[domain.CaseID]*domain.Case
}

func NewCaseRepository() *CaseRepository {
	return &CaseRepository{cases: make(map[domain.CaseID]*domain.Case)}
}

func (r *CaseRepository) Save(ctx context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	if existing, ok := r.cases[c.ID]; ok {
		cp.Stages = existing.Stages
	} else {
		cp.Stages = append([]domain.StageRecord(nil), c.Stages...)
	}
	r.cases[c.ID] = &cp
	return nil
}

func (r *CaseRepository) Get(ctx context.Context, owner string, id domain.CaseID) (*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases[id]
	if !ok || c.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return clone(c), nil
}

// Paginate returns a page of the owner's cases ordered by created_at desc
func (r *CaseRepository) Paginate(ctx context.Context, owner string, page, pageSize int) ([]*domain.Case, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	r.mu.RLock()
	var all []*domain.Case
	for _, c := range r.cases {
		if c.Owner == owner {
			all = append(all, clone(c))
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	offset := (page - 1) * pageSize
	if offset >= len(all) {
		return []*domain.Case{}, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *CaseRepository) Delete(ctx context.Context, owner string, id domain.CaseID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok || c.Owner != owner {
		return domain.ErrNotFound
	}
	delete(r.cases, id)
	return nil
}

func (r *CaseRepository) AddStage(ctx context.Context, owner string, rec *domain.StageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[rec.CaseID]
	if !ok || c.Owner != owner {
		return domain.ErrNotFound
	}
	c.Stages = append(c.Stages, *rec)
	return nil
}

func clone(c *domain.Case) *domain.Case {
	cp := *c
	cp.Stages = append([]domain.StageRecord{}, c.Stages...)
	return &cp
}
