package payroll

import (
	"github.com/jget-crm/backoffice/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SalaryResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	ShiftID      string          `json:"shift_id"`
	ShiftName    *string         `json:"shift_name,omitempty"`
	PaymentType  PaymentType     `json:"payment_type"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	PercentRate  decimal.Decimal `json:"percent_rate"`
	DaysWorked   int             `json:"days_worked"`
	TotalPayment decimal.Decimal `json:"total_payment"`
	IsPaid       bool            `json:"is_paid"`
}

func ToSalaryResponse(s Salary) SalaryResponse {
	return SalaryResponse{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		ShiftID:      s.ShiftID,
		ShiftName:    s.ShiftName,
		PaymentType:  s.PaymentType,
		DailyRate:    s.DailyRate,
		PercentRate:  s.PercentRate,
		DaysWorked:   s.DaysWorked,
		TotalPayment: s.TotalPayment,
		IsPaid:       s.IsPaid,
	}
}

type SalaryListResponse struct {
	Salaries    []SalaryResponse `json:"salaries"`
	TotalSalary decimal.Decimal  `json:"total_salary"`
}

type CreateSalaryRequest struct {
	EmployeeID  string          `json:"employee_id"`
	ShiftID     string          `json:"shift_id"`
	PaymentType PaymentType     `json:"payment_type"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	PercentRate decimal.Decimal `json:"percent_rate"`
}

func (r *CreateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{Field: "shift_id", Message: "is required"})
	}
	if r.PaymentType == "" {
		r.PaymentType = PaymentFixed
	}
	if !r.PaymentType.Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_type", Message: "must be one of fixed, percent, combined"})
	}
	if r.DailyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "daily_rate", Message: "must be non-negative"})
	}
	if r.PercentRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "percent_rate", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSalaryRequest struct {
	ID          string
	PaymentType *PaymentType     `json:"payment_type,omitempty"`
	DailyRate   *decimal.Decimal `json:"daily_rate,omitempty"`
	PercentRate *decimal.Decimal `json:"percent_rate,omitempty"`
	IsPaid      *bool            `json:"is_paid,omitempty"`
}

func (r *UpdateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PaymentType != nil && !r.PaymentType.Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_type", Message: "must be one of fixed, percent, combined"})
	}
	if r.DailyRate != nil && r.DailyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "daily_rate", Message: "must be non-negative"})
	}
	if r.PercentRate != nil && r.PercentRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "percent_rate", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExpenseResponse struct {
	ID        string          `json:"id"`
	ShiftID   string          `json:"shift_id"`
	ShiftName *string         `json:"shift_name,omitempty"`
	Category  ExpenseCategory `json:"category"`
	Comment   string          `json:"comment"`
	Amount    decimal.Decimal `json:"amount"`
}

func ToExpenseResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		ShiftID:   e.ShiftID,
		ShiftName: e.ShiftName,
		Category:  e.Category,
		Comment:   e.Comment,
		Amount:    e.Amount,
	}
}

type ExpenseListResponse struct {
	Expenses    []ExpenseResponse `json:"expenses"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
}

type CreateExpenseRequest struct {
	ShiftID  string          `json:"shift_id"`
	Category ExpenseCategory `json:"category"`
	Comment  string          `json:"comment"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r *CreateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{Field: "shift_id", Message: "is required"})
	}
	if !r.Category.Valid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be one of food, materials, transport, rent, other"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateExpenseRequest struct {
	ID       string
	Category *ExpenseCategory `json:"category,omitempty"`
	Comment  *string          `json:"comment,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
}

func (r *UpdateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Category != nil && !r.Category.Valid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be one of food, materials, transport, rent, other"})
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
