package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	// PaymentFixed pays the daily rate per day worked.
	PaymentFixed PaymentType = "fixed"
	// PaymentPercent pays PercentRate taken as an absolute amount the
	// operator computed by hand; no revenue share is derived here.
	PaymentPercent PaymentType = "percent"
	// PaymentCombined sums both.
	PaymentCombined PaymentType = "combined"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentFixed, PaymentPercent, PaymentCombined:
		return true
	}
	return false
}

type Salary struct {
	ID           string
	EmployeeID   string
	ShiftID      string
	PaymentType  PaymentType
	DailyRate    decimal.Decimal
	PercentRate  decimal.Decimal
	TotalPayment decimal.Decimal
	IsPaid       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	EmployeeName *string
	ShiftName    *string
	DaysWorked   int
}

// Recalculate recomputes the total from attendance and rate data. When
// the daily rate is unset it is seeded from the employee's rate; this
// is the only mutation the calculation performs.
func (s *Salary) Recalculate(daysWorked int, employeeRate decimal.Decimal) {
	if s.DailyRate.IsZero() {
		s.DailyRate = employeeRate
	}

	days := decimal.NewFromInt(int64(daysWorked))
	switch s.PaymentType {
	case PaymentFixed:
		s.TotalPayment = days.Mul(s.DailyRate)
	case PaymentPercent:
		s.TotalPayment = s.PercentRate
	case PaymentCombined:
		s.TotalPayment = days.Mul(s.DailyRate).Add(s.PercentRate)
	}
	s.DaysWorked = daysWorked
}

type ExpenseCategory string

const (
	ExpenseFood      ExpenseCategory = "food"
	ExpenseMaterials ExpenseCategory = "materials"
	ExpenseTransport ExpenseCategory = "transport"
	ExpenseRent      ExpenseCategory = "rent"
	ExpenseOther     ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseFood, ExpenseMaterials, ExpenseTransport, ExpenseRent, ExpenseOther:
		return true
	}
	return false
}

type Expense struct {
	ID       string
	ShiftID  string
	Category ExpenseCategory
	Comment  string
	Amount   decimal.Decimal

	// DTO
	ShiftName *string
}
