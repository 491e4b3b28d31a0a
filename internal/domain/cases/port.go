package cases

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a case does not exist for the owner.
var ErrNotFound = errors.New("case not found")

// Repository port for persisting cases and their stage records
type Repository interface {
	Save(ctx context.Context, c *Case) error
	Get(ctx context.Context, owner string, id CaseID) (*Case, error)
	Paginate(ctx context.Context, owner string, page, pageSize int) ([]*Case, error)
	Delete(ctx context.Context, owner string, id CaseID) error
	AddStage(ctx context.Context, owner string, rec *StageRecord) error
}

// ArtifactStore port for exported case reports
type ArtifactStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
