package org

import (
	"time"

	"github.com/shopspring/decimal"
)

type City struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Branch struct {
	ID        string
	Name      string
	Address   string
	CityID    *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	CityName *string
}

// BranchStatistics is the read-only aggregate behind the branch detail
// screen: row counts plus money totals across everything tied to the
// branch directly or through its shifts.
type BranchStatistics struct {
	ShiftCount    int
	EmployeeCount int
	StudentCount  int
	TotalExpenses decimal.Decimal
	TotalSalaries decimal.Decimal
}
