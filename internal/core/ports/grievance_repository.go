package ports

import (
	"context"
	"time"

	"github.com/trinetra110/civix/internal/core/domain"
)

// ListGrievancesFilter carries query parameters for listing grievances.
// UserID is enforced by the service layer: empty means no owner filter
// (admin), non-empty scopes the result to that owner.
type ListGrievancesFilter struct {
	UserID string
}

// GrievanceRepository defines persistence operations for grievances.
// The store exposes no delete; grievances are never removed by this system.
type GrievanceRepository interface {
	Create(ctx context.Context, g *domain.Grievance) error
	FindByID(ctx context.Context, id string) (*domain.Grievance, error)
	// List returns grievances matching filter in backend-default order.
	// Callers must not assume chronological ordering.
	List(ctx context.Context, filter ListGrievancesFilter) ([]*domain.Grievance, error)
	// UpdateStatus partially updates exactly the mutable fields: status,
	// last_updated, and the monotonic version counter. All other fields are
	// immutable after creation and must not be touched.
	UpdateStatus(ctx context.Context, id string, status domain.GrievanceStatus, updatedAt time.Time) error
}
