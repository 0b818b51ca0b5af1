// Package stats backs the network dashboard: one read model across
// every city, branch and shift the acting user can see.
package stats

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/shopspring/decimal"
)

type NetworkStatistics struct {
	CityCount     int             `json:"city_count"`
	BranchCount   int             `json:"branch_count"`
	ShiftCount    int             `json:"shift_count"`
	ActiveShifts  int             `json:"active_shifts"`
	EmployeeCount int             `json:"employee_count"`
	StudentCount  int             `json:"student_count"`
	LeadCount     int             `json:"lead_count"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalSalaries decimal.Decimal `json:"total_salaries"`
}

type Repository interface {
	// GetNetworkStatistics aggregates within the given row filter.
	GetNetworkStatistics(ctx context.Context, scope authz.Scope) (NetworkStatistics, error)
}
