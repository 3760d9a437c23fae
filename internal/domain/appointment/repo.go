package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harborview/clinic/internal/platform/auth"
)

// Repository is the storage contract for appointments.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	// ListByDay returns appointments whose scheduled time falls on the given
	// UTC day, earliest first, scoped to the caller's patients.
	ListByDay(ctx context.Context, scope auth.Scope, day time.Time, limit, offset int) ([]*Appointment, int, error)
}
