package shift

import (
	"time"

	"github.com/jget-crm/backoffice/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ShiftResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BranchID   string  `json:"branch_id"`
	BranchName *string `json:"branch_name,omitempty"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Theme      string  `json:"theme"`
	Color      string  `json:"color"`
}

func ToResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:         s.ID,
		Name:       s.Name,
		BranchID:   s.BranchID,
		BranchName: s.BranchName,
		StartDate:  s.StartDate.Format(dateLayout),
		EndDate:    s.EndDate.Format(dateLayout),
		Theme:      s.Theme,
		Color:      s.Color,
	}
}

type CreateShiftRequest struct {
	Name      string `json:"name"`
	BranchID  string `json:"branch_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Theme     string `json:"theme"`
	Color     string `json:"color"`

	// Parsed by Validate.
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if validator.IsEmpty(r.BranchID) {
		errs = append(errs, validator.ValidationError{Field: "branch_id", Message: "is required"})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if okStart && okEnd && start.After(end) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	r.Start, r.End = start, end

	// Unknown colors fall back to the default rather than failing.
	if r.Color == "" || !validator.IsInSlice(r.Color, Colors) {
		r.Color = DefaultColor
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID        string
	Name      *string `json:"name,omitempty"`
	BranchID  *string `json:"branch_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Theme     *string `json:"theme,omitempty"`
	Color     *string `json:"color,omitempty"`

	Start *time.Time `json:"-"`
	End   *time.Time `json:"-"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.StartDate != nil {
		start, ok := validator.IsValidDate(*r.StartDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		} else {
			r.Start = &start
		}
	}
	if r.EndDate != nil {
		end, ok := validator.IsValidDate(*r.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		} else {
			r.End = &end
		}
	}
	if r.Color != nil && !validator.IsInSlice(*r.Color, Colors) {
		fallback := DefaultColor
		r.Color = &fallback
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FinancialBalance is income minus expenses for one shift.
type FinancialBalance struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}

type SquadResponse struct {
	ID           string  `json:"id"`
	Name         int     `json:"name"`
	ShiftID      string  `json:"shift_id"`
	LeaderID     *string `json:"leader_id"`
	LeaderName   *string `json:"leader_name,omitempty"`
	StudentCount int     `json:"student_count"`
}

func ToSquadResponse(s Squad) SquadResponse {
	return SquadResponse{
		ID:           s.ID,
		Name:         s.Name,
		ShiftID:      s.ShiftID,
		LeaderID:     s.LeaderID,
		LeaderName:   s.LeaderName,
		StudentCount: s.StudentCount,
	}
}

type CreateSquadRequest struct {
	Name     int     `json:"name"`
	ShiftID  string  `json:"shift_id"`
	LeaderID *string `json:"leader_id,omitempty"`
}

func (r *CreateSquadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name <= 0 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must be a positive squad number"})
	}
	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{Field: "shift_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
