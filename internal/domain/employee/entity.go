package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Position struct {
	ID               string
	Name             string
	Responsibilities string
}

type Employee struct {
	ID         string
	FullName   string
	PositionID *string
	BranchID   *string
	ShiftID    *string
	RatePerDay decimal.Decimal
	IsLeader   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	PositionName *string
	BranchName   *string
	ShiftName    *string
}
