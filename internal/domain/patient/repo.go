package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/harborview/clinic/internal/domain/risk"
	"github.com/harborview/clinic/internal/platform/auth"
)

// Repository is the storage contract for patients. List applies the caller's
// scope so providers only see their own panel.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Patient, int, error)
	SetRiskLevel(ctx context.Context, id uuid.UUID, level risk.Level) error
}
