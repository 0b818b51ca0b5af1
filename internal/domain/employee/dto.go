package employee

import (
	"github.com/jget-crm/backoffice/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeResponse struct {
	ID           string          `json:"id"`
	FullName     string          `json:"full_name"`
	PositionID   *string         `json:"position_id"`
	PositionName *string         `json:"position_name,omitempty"`
	BranchID     *string         `json:"branch_id"`
	BranchName   *string         `json:"branch_name,omitempty"`
	ShiftID      *string         `json:"shift_id"`
	ShiftName    *string         `json:"shift_name,omitempty"`
	RatePerDay   decimal.Decimal `json:"rate_per_day"`
	IsLeader     bool            `json:"is_leader"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		FullName:     e.FullName,
		PositionID:   e.PositionID,
		PositionName: e.PositionName,
		BranchID:     e.BranchID,
		BranchName:   e.BranchName,
		ShiftID:      e.ShiftID,
		ShiftName:    e.ShiftName,
		RatePerDay:   e.RatePerDay,
		IsLeader:     e.IsLeader,
	}
}

type CreateEmployeeRequest struct {
	FullName   string          `json:"full_name"`
	PositionID *string         `json:"position_id,omitempty"`
	BranchID   *string         `json:"branch_id,omitempty"`
	ShiftID    *string         `json:"shift_id,omitempty"`
	RatePerDay decimal.Decimal `json:"rate_per_day"`
	IsLeader   bool            `json:"is_leader"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if r.RatePerDay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate_per_day", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID         string
	FullName   *string          `json:"full_name,omitempty"`
	PositionID *string          `json:"position_id,omitempty"`
	BranchID   *string          `json:"branch_id,omitempty"`
	ShiftID    *string          `json:"shift_id,omitempty"`
	RatePerDay *decimal.Decimal `json:"rate_per_day,omitempty"`
	IsLeader   *bool            `json:"is_leader,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "must not be empty"})
	}
	if r.RatePerDay != nil && r.RatePerDay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate_per_day", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRateRequest carries the new daily rate propagated to all of an
// employee's salary rows.
type UpdateRateRequest struct {
	RatePerDay decimal.Decimal `json:"rate_per_day"`
}

func (r *UpdateRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RatePerDay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate_per_day", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PositionResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Responsibilities string `json:"responsibilities"`
}

func ToPositionResponse(p Position) PositionResponse {
	return PositionResponse{ID: p.ID, Name: p.Name, Responsibilities: p.Responsibilities}
}

type CreatePositionRequest struct {
	Name             string `json:"name"`
	Responsibilities string `json:"responsibilities"`
}

func (r *CreatePositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
