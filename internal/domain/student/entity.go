package student

import (
	"time"

	"github.com/shopspring/decimal"
)

type AttendanceType string

const (
	AttendanceCamp    AttendanceType = "camp"
	AttendanceLab     AttendanceType = "lab"
	AttendanceFullDay AttendanceType = "full_day"
)

func (t AttendanceType) Valid() bool {
	switch t {
	case AttendanceCamp, AttendanceLab, AttendanceFullDay:
		return true
	}
	return false
}

// DefaultPrice is the seeded price for the attendance type, applied
// whenever a student is saved with a zero default price.
func (t AttendanceType) DefaultPrice() decimal.Decimal {
	if t == AttendanceFullDay {
		return decimal.NewFromInt(11400)
	}
	return decimal.NewFromInt(7000)
}

type Student struct {
	ID             string
	FullName       string
	Phone          string
	ParentName     string
	ShiftID        *string
	SquadID        *string
	AttendanceType AttendanceType
	DefaultPrice   decimal.Decimal
	// IndividualPrice overrides DefaultPrice when set.
	IndividualPrice *decimal.Decimal
	PriceComment    string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	ShiftName  *string
	BranchName *string
	SquadName  *int
}

// EffectivePrice is the amount charged for a shift.
func (s Student) EffectivePrice() decimal.Decimal {
	if s.IndividualPrice != nil {
		return *s.IndividualPrice
	}
	return s.DefaultPrice
}

// Payment is the per-shift money trail, kept separate from the balance
// ledger; the two are reconciled transactionally by the service layer.
type Payment struct {
	ID        string
	StudentID string
	ShiftID   string
	Amount    decimal.Decimal
	Date      time.Time
	Comment   string
}

type BalanceOperation string

const (
	OpDeposit    BalanceOperation = "deposit"
	OpPayment    BalanceOperation = "payment"
	OpCorrection BalanceOperation = "correction"
)

func (op BalanceOperation) Valid() bool {
	switch op {
	case OpDeposit, OpPayment, OpCorrection:
		return true
	}
	return false
}

// BalanceEntry is one row of the append-only account ledger. The
// running balance is always recomputed from the rows, never cached.
type BalanceEntry struct {
	ID        string
	StudentID string
	Amount    decimal.Decimal
	Operation BalanceOperation
	Date      time.Time
	Comment   string
	CreatedBy *string

	// DTO
	CreatedByName *string
}

// CurrentBalance folds a ledger: deposits add, payments subtract,
// corrections add signed.
func CurrentBalance(entries []BalanceEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		switch e.Operation {
		case OpDeposit, OpCorrection:
			total = total.Add(e.Amount)
		case OpPayment:
			total = total.Sub(e.Amount)
		}
	}
	return total
}
