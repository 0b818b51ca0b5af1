package student

import (
	"time"

	"github.com/jget-crm/backoffice/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type StudentResponse struct {
	ID              string           `json:"id"`
	FullName        string           `json:"full_name"`
	Phone           string           `json:"phone"`
	ParentName      string           `json:"parent_name"`
	ShiftID         *string          `json:"shift_id"`
	ShiftName       *string          `json:"shift_name,omitempty"`
	BranchName      *string          `json:"branch_name,omitempty"`
	SquadID         *string          `json:"squad_id"`
	SquadName       *int             `json:"squad_name,omitempty"`
	AttendanceType  AttendanceType   `json:"attendance_type"`
	DefaultPrice    decimal.Decimal  `json:"default_price"`
	IndividualPrice *decimal.Decimal `json:"individual_price"`
	PriceComment    string           `json:"price_comment"`
}

func ToResponse(s Student) StudentResponse {
	return StudentResponse{
		ID:              s.ID,
		FullName:        s.FullName,
		Phone:           s.Phone,
		ParentName:      s.ParentName,
		ShiftID:         s.ShiftID,
		ShiftName:       s.ShiftName,
		BranchName:      s.BranchName,
		SquadID:         s.SquadID,
		SquadName:       s.SquadName,
		AttendanceType:  s.AttendanceType,
		DefaultPrice:    s.DefaultPrice,
		IndividualPrice: s.IndividualPrice,
		PriceComment:    s.PriceComment,
	}
}

type CreateStudentRequest struct {
	FullName        string           `json:"full_name"`
	Phone           string           `json:"phone"`
	ParentName      string           `json:"parent_name"`
	ShiftID         *string          `json:"shift_id,omitempty"`
	SquadID         *string          `json:"squad_id,omitempty"`
	AttendanceType  AttendanceType   `json:"attendance_type"`
	DefaultPrice    decimal.Decimal  `json:"default_price"`
	IndividualPrice *decimal.Decimal `json:"individual_price,omitempty"`
	PriceComment    string           `json:"price_comment"`
}

func (r *CreateStudentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if !r.AttendanceType.Valid() {
		errs = append(errs, validator.ValidationError{Field: "attendance_type", Message: "must be one of camp, lab, full_day"})
	}
	if r.Phone != "" && !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be a valid phone number"})
	}
	if r.DefaultPrice.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "default_price", Message: "must be non-negative"})
	}
	if r.IndividualPrice != nil && r.IndividualPrice.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "individual_price", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStudentRequest struct {
	ID              string
	FullName        *string          `json:"full_name,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	ParentName      *string          `json:"parent_name,omitempty"`
	ShiftID         *string          `json:"shift_id,omitempty"`
	SquadID         *string          `json:"squad_id,omitempty"`
	AttendanceType  *AttendanceType  `json:"attendance_type,omitempty"`
	DefaultPrice    *decimal.Decimal `json:"default_price,omitempty"`
	IndividualPrice *decimal.Decimal `json:"individual_price,omitempty"`
	PriceComment    *string          `json:"price_comment,omitempty"`
}

func (r *UpdateStudentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "must not be empty"})
	}
	if r.AttendanceType != nil && !r.AttendanceType.Valid() {
		errs = append(errs, validator.ValidationError{Field: "attendance_type", Message: "must be one of camp, lab, full_day"})
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be a valid phone number"})
	}
	if r.DefaultPrice != nil && r.DefaultPrice.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "default_price", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentResponse struct {
	ID        string          `json:"id"`
	StudentID string          `json:"student_id"`
	ShiftID   string          `json:"shift_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Comment   string          `json:"comment"`
}

func ToPaymentResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		StudentID: p.StudentID,
		ShiftID:   p.ShiftID,
		Amount:    p.Amount,
		Date:      p.Date.Format(dateLayout),
		Comment:   p.Comment,
	}
}

type CreatePaymentRequest struct {
	ShiftID string          `json:"shift_id"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date"`
	Comment string          `json:"comment"`

	Day time.Time `json:"-"`
}

func (r *CreatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{Field: "shift_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if r.Date == "" {
		r.Day = time.Now().UTC().Truncate(24 * time.Hour)
	} else if day, ok := validator.IsValidDate(r.Date); ok {
		r.Day = day
	} else {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DepositRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment"`
}

func (r *DepositRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BalanceEntryResponse struct {
	ID        string           `json:"id"`
	Operation BalanceOperation `json:"operation_type"`
	Amount    decimal.Decimal  `json:"amount"`
	Date      string           `json:"date"`
	Comment   string           `json:"comment"`
	CreatedBy *string          `json:"created_by,omitempty"`
}

func ToBalanceEntryResponse(e BalanceEntry) BalanceEntryResponse {
	return BalanceEntryResponse{
		ID:        e.ID,
		Operation: e.Operation,
		Amount:    e.Amount,
		Date:      e.Date.Format("02.01.2006 15:04"),
		Comment:   e.Comment,
		CreatedBy: e.CreatedByName,
	}
}

// CheckBalanceResponse answers the pre-payment sufficiency query.
type CheckBalanceResponse struct {
	CanPay   bool            `json:"can_pay"`
	Balance  decimal.Decimal `json:"balance"`
	Required decimal.Decimal `json:"required"`
}
