package org

import (
	"github.com/jget-crm/backoffice/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func ToCityResponse(c City) CityResponse {
	return CityResponse{ID: c.ID, Name: c.Name}
}

type CreateCityRequest struct {
	Name string `json:"name"`
}

func (r *CreateCityRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BranchResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	CityID   *string `json:"city_id"`
	CityName *string `json:"city_name,omitempty"`
}

func ToBranchResponse(b Branch) BranchResponse {
	return BranchResponse{
		ID:       b.ID,
		Name:     b.Name,
		Address:  b.Address,
		CityID:   b.CityID,
		CityName: b.CityName,
	}
}

type CreateBranchRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	CityID  *string `json:"city_id,omitempty"`
}

func (r *CreateBranchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateBranchRequest struct {
	ID      string
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	CityID  *string `json:"city_id,omitempty"`
}

func (r *UpdateBranchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BranchStatisticsResponse struct {
	ShiftCount    int             `json:"shift_count"`
	EmployeeCount int             `json:"employee_count"`
	StudentCount  int             `json:"student_count"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalSalaries decimal.Decimal `json:"total_salaries"`
}
