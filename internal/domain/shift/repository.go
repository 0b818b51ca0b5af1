package shift

import (
	"context"
	"time"

	"github.com/jget-crm/backoffice/internal/domain/authz"
)

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, scope authz.Scope) ([]Shift, error)
	// ListOverlapping returns shifts of a branch intersecting
	// [from, to], for the calendar matrix.
	ListOverlapping(ctx context.Context, branchID string, from, to time.Time) ([]Shift, error)
	Update(ctx context.Context, s Shift) error
	Delete(ctx context.Context, id string) error
}

type SquadRepository interface {
	Create(ctx context.Context, s Squad) (Squad, error)
	GetByID(ctx context.Context, id string) (Squad, error)
	ListByShift(ctx context.Context, shiftID string) ([]Squad, error)
	List(ctx context.Context, scope authz.Scope) ([]Squad, error)
	Update(ctx context.Context, s Squad) error
	Delete(ctx context.Context, id string) error
}
