package student

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/shopspring/decimal"
)

type StudentRepository interface {
	Create(ctx context.Context, s Student) (Student, error)
	GetByID(ctx context.Context, id string) (Student, error)
	List(ctx context.Context, scope authz.Scope) ([]Student, error)
	ListByShift(ctx context.Context, shiftID string) ([]Student, error)
	ListAvailableForShift(ctx context.Context, shiftID string) ([]Student, error)
	Update(ctx context.Context, s Student) error
	SetShift(ctx context.Context, studentID string, shiftID *string) error
	SetSquad(ctx context.Context, studentID string, squadID *string) error
	Delete(ctx context.Context, id string) error
	ResolveScope(ctx context.Context, id string) (branchID, cityID *string, err error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	ListByStudent(ctx context.Context, studentID string, shiftID *string) ([]Payment, error)
	// GetForShift returns the student's first payment for the shift,
	// nil when none exists.
	GetForShift(ctx context.Context, studentID, shiftID string) (*Payment, error)
	TotalForShift(ctx context.Context, studentID, shiftID string) (decimal.Decimal, error)
	TotalByShift(ctx context.Context, shiftID string) (decimal.Decimal, error)
	Update(ctx context.Context, p Payment) error
	Delete(ctx context.Context, id string) error
	DeleteByStudentAndShift(ctx context.Context, studentID, shiftID string) (decimal.Decimal, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}

type BalanceRepository interface {
	Create(ctx context.Context, e BalanceEntry) (BalanceEntry, error)
	// ListByStudent returns entries newest first, limited when
	// limit > 0.
	ListByStudent(ctx context.Context, studentID string, limit int) ([]BalanceEntry, error)
	// CurrentBalance sums the full ledger in the store.
	CurrentBalance(ctx context.Context, studentID string) (decimal.Decimal, error)
}
