package crisis

import (
	"context"

	"github.com/google/uuid"

	"github.com/harborview/clinic/internal/platform/auth"
)

// Repository is the storage contract for crisis events.
type Repository interface {
	Create(ctx context.Context, ev *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, ev *Event) error
	// ListActive returns unresolved events newest first, scoped to the
	// caller's patients.
	ListActive(ctx context.Context, scope auth.Scope, limit, offset int) ([]*Event, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error)
}
