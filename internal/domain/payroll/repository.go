package payroll

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/shopspring/decimal"
)

type SalaryRepository interface {
	Create(ctx context.Context, s Salary) (Salary, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	// List applies the scope via shift -> branch -> city; unpaidOnly
	// narrows to rows not yet marked paid.
	List(ctx context.Context, scope authz.Scope, unpaidOnly bool) ([]Salary, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Salary, error)
	Update(ctx context.Context, s Salary) error
	Delete(ctx context.Context, id string) error
}

type ExpenseRepository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context, scope authz.Scope) ([]Expense, error)
	ListByShift(ctx context.Context, shiftID string) ([]Expense, error)
	TotalByShift(ctx context.Context, shiftID string) (decimal.Decimal, error)
	Update(ctx context.Context, e Expense) error
	Delete(ctx context.Context, id string) error
}
