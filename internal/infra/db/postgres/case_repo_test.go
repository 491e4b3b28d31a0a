package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
)

var (
	caseCols  = []string{"id", "owner", "name", "created_at"}
	stageCols = []string{"id", "case_id", "stage_index", "stage", "input_text", "output_text", "status", "created_at"}
)

func newRepo(t *testing.T) (*CaseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewCaseRepository(db), mock
}

func sqlLike(q string) string { return regexp.QuoteMeta(q) }

func TestSaveUpsertsAndDefaultsOwner(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(sqlLike("ON CONFLICT (id) DO UPDATE")).
		WithArgs("c1", "sess", "Lease dispute", created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), &domain.Case{ID: "c1", Owner: "sess", Name: "Lease dispute", CreatedAt: created}))

	mock.ExpectExec(sqlLike("INSERT INTO legal_cases")).
		WithArgs("c2", "-", "Unowned", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), &domain.Case{ID: "c2", Owner: "  ", Name: "Unowned"}))
}

func TestGetLoadsStagesInOrder(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(sqlLike("FROM legal_cases")).
		WithArgs("c1", "sess").
		WillReturnRows(sqlmock.NewRows(caseCols).AddRow("c1", "sess", "Lease dispute", created))
	mock.ExpectQuery(sqlLike("FROM legal_case_stages")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(stageCols).
			AddRow("s1", "c1", 1, "Facts", "text", "out 1", "completed", created).
			AddRow("s2", "c1", 2, "Issues", "text", "out 2", "completed", created.Add(time.Second)))

	c, err := repo.Get(context.Background(), "sess", "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CaseID("c1"), c.ID)
	assert.Equal(t, "Lease dispute", c.Name)
	require.Len(t, c.Stages, 2)
	assert.Equal(t, "s1", c.Stages[0].ID)
	assert.Equal(t, 2, c.Stages[1].StageIndex)
	assert.Equal(t, "out 2", c.Stages[1].Output)
}

func TestGetScopesToOwner(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(sqlLike("FROM legal_cases")).
		WithArgs("c1", "other").
		WillReturnRows(sqlmock.NewRows(caseCols))

	_, err := repo.Get(context.Background(), "other", "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetEmptyStagesIsNotNil(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(sqlLike("FROM legal_cases")).
		WillReturnRows(sqlmock.NewRows(caseCols).AddRow("c1", "sess", "n", time.Now()))
	mock.ExpectQuery(sqlLike("FROM legal_case_stages")).
		WillReturnRows(sqlmock.NewRows(stageCols))

	c, err := repo.Get(context.Background(), "sess", "c1")
	require.NoError(t, err)
	assert.NotNil(t, c.Stages)
	assert.Empty(t, c.Stages)
}

func TestPaginateLimitOffset(t *testing.T) {
	tests := []struct {
		name          string
		page, size    int
		limit, offset int
	}{
		{"defaults", 0, 0, 20, 0},
		{"third page", 3, 10, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			mock.ExpectQuery(sqlLike("LIMIT $2 OFFSET $3")).
				WithArgs("sess", tt.limit, tt.offset).
				WillReturnRows(sqlmock.NewRows(caseCols).
					AddRow("c2", "sess", "newer", time.Now()).
					AddRow("c1", "sess", "older", time.Now().Add(-time.Hour)))

			got, err := repo.Paginate(context.Background(), "sess", tt.page, tt.size)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, domain.CaseID("c2"), got[0].ID)
			assert.NotNil(t, got[1].Stages)
		})
	}
}

func TestDeleteRequiresAffectedRow(t *testing.T) {
	repo, mock := newRepo(t)
	q := sqlLike("DELETE FROM legal_cases WHERE id=$1 AND owner=$2")

	mock.ExpectExec(q).WithArgs("c1", "sess").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "sess", "c1"))

	mock.ExpectExec(q).WithArgs("c1", "other").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "other", "c1"), domain.ErrNotFound)
}

func TestAddStageOwnerScoped(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := &domain.StageRecord{
		ID: "s1", CaseID: "c1", StageIndex: 4, Stage: "Evidence",
		Input: "text", Output: "out", Status: "completed", CreatedAt: created,
	}
	q := sqlLike("INSERT INTO legal_case_stages")

	mock.ExpectExec(q).
		WithArgs("s1", "c1", 4, "Evidence", "text", "out", "completed", created, "c1", "sess").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.AddStage(context.Background(), "sess", rec))

	mock.ExpectExec(q).
		WithArgs("s1", "c1", 4, "Evidence", "text", "out", "completed", created, "c1", "other").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.AddStage(context.Background(), "other", rec), domain.ErrNotFound)
}

func TestDriverErrorsPropagate(t *testing.T) {
	repo, mock := newRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectExec(sqlLike("INSERT INTO legal_cases")).WillReturnError(boom)
	assert.ErrorIs(t, repo.Save(context.Background(), &domain.Case{ID: "c1", Name: "n"}), boom)

	mock.ExpectQuery(sqlLike("FROM legal_cases")).WillReturnError(boom)
	_, err := repo.Paginate(context.Background(), "sess", 1, 10)
	assert.ErrorIs(t, err, boom)
}
