package repo

import (
	"context"
	"errors"

	"github.com/hamed0406/pagegrader/internal/domain"
)

var ErrNotFound = errors.New("run not found")

// RunStore keeps grading runs for the API.
type RunStore interface {
	Add(ctx context.Context, r *domain.Run) error
	Get(ctx context.Context, id domain.RunID) (*domain.Run, error)
	// List returns runs newest first.
	List(ctx context.Context) ([]domain.Run, error)
}
