package employee

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/authz"
)

// EmployeeRepository is the staff registry. Branch resolution for scope
// checks goes through the employee's own branch or, failing that, the
// branch of the shift the employee is assigned to.
type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, scope authz.Scope, branchID *string) ([]Employee, error)
	ListByShift(ctx context.Context, shiftID string) ([]Employee, error)
	// ListAvailableForShift returns employees not currently assigned
	// to the given shift.
	ListAvailableForShift(ctx context.Context, shiftID string) ([]Employee, error)
	Update(ctx context.Context, e Employee) error
	SetShift(ctx context.Context, employeeID string, shiftID *string) error
	Delete(ctx context.Context, id string) error
	// ResolveScope returns the branch and city the employee belongs
	// to, directly or via their shift. Nil values mean unscoped.
	ResolveScope(ctx context.Context, id string) (branchID, cityID *string, err error)
}

type PositionRepository interface {
	Create(ctx context.Context, p Position) (Position, error)
	GetByID(ctx context.Context, id string) (Position, error)
	List(ctx context.Context) ([]Position, error)
	Update(ctx context.Context, p Position) error
	Delete(ctx context.Context, id string) error
	CountEmployees(ctx context.Context, positionID string) (int, error)
}
