package assessment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract for assessments.
type Repository interface {
	Create(ctx context.Context, a *Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error)
	// ListByPatient returns a patient's assessments newest first, optionally
	// restricted to one instrument.
	ListByPatient(ctx context.Context, patientID uuid.UUID, instrumentID string, limit, offset int) ([]*Assessment, int, error)
}
