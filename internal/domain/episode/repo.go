package episode

import (
	"context"

	"github.com/google/uuid"

	"github.com/harborview/clinic/internal/platform/auth"
)

// Repository is the storage contract for care episodes.
type Repository interface {
	Create(ctx context.Context, ep *Episode) error
	GetByID(ctx context.Context, id uuid.UUID) (*Episode, error)
	Update(ctx context.Context, ep *Episode) error
	// List returns episodes newest first, scoped to the caller's patients.
	List(ctx context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Episode, int, error)
}
