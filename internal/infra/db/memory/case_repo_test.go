package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
)

func TestCaseRepositoryOwnership(t *testing.T) {
	ctx := context.Background()
	r := NewCaseRepository()
	require.NoError(t, r.Save(ctx, &domain.Case{ID: "c1", Owner: "alice", Name: "عقد"}))

	_, err := r.Get(ctx, "bob", "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "bob", "c1"), domain.ErrNotFound)
	assert.ErrorIs(t, r.AddStage(ctx, "bob", &domain.StageRecord{CaseID: "c1"}), domain.ErrNotFound)

	require.NoError(t, r.AddStage(ctx, "alice", &domain.StageRecord{ID: "s1", CaseID: "c1", StageIndex: 2}))
	c, err := r.Get(ctx, "alice", "c1")
	require.NoError(t, err)
	require.Len(t, c.Stages, 1)
	assert.Equal(t, 2, c.Stages[0].StageIndex)

	require.NoError(t, r.Delete(ctx, "alice", "c1"))
	_, err = r.Get(ctx, "alice", "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCaseRepositorySaveKeepsStages(t *testing.T) {
	ctx := context.Background()
	r := NewCaseRepository()
	require.NoError(t, r.Save(ctx, &domain.Case{ID: "c1", Owner: "o", Name: "a"}))
	require.NoError(t, r.AddStage(ctx, "o", &domain.StageRecord{ID: "s1", CaseID: "c1"}))
	require.NoError(t, r.Save(ctx, &domain.Case{ID: "c1", Owner: "o", Name: "renamed"}))

	c, err := r.Get(ctx, "o", "c1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", c.Name)
	assert.Len(t, c.Stages, 1)
}

func TestCaseRepositoryPaginate(t *testing.T) {
	ctx := context.Background()
	r := NewCaseRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []domain.CaseID{"a", "b", "c"} {
		require.NoError(t, r.Save(ctx, &domain.Case{ID: id, Owner: "o", CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	require.NoError(t, r.Save(ctx, &domain.Case{ID: "x", Owner: "other", CreatedAt: base}))

	first, err := r.Paginate(ctx, "o", 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, domain.CaseID("c"), first[0].ID)
	assert.Equal(t, domain.CaseID("b"), first[1].ID)

	second, err := r.Paginate(ctx, "o", 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, domain.CaseID("a"), second[0].ID)

	empty, err := r.Paginate(ctx, "o", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
