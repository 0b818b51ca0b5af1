package attendance

import (
	"time"

	"github.com/jget-crm/backoffice/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// PersonKind selects which attendance ledger a toggle touches.
type PersonKind string

const (
	KindEmployee PersonKind = "employee"
	KindStudent  PersonKind = "student"
)

func (k PersonKind) Valid() bool {
	return k == KindEmployee || k == KindStudent
}

type ToggleRequest struct {
	Kind     PersonKind `json:"type"`
	PersonID string     `json:"person_id"`
	Date     string     `json:"date"`

	Day time.Time `json:"-"`
}

func (r *ToggleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Kind.Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be employee or student"})
	}
	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{Field: "person_id", Message: "is required"})
	}
	if day, ok := validator.IsValidDate(r.Date); ok {
		r.Day = day
	} else {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID       string `json:"id"`
	PersonID string `json:"person_id"`
	Date     string `json:"date"`
	Status   Status `json:"status"`
}

func ToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:       r.ID,
		PersonID: r.PersonID,
		Date:     r.Date.Format(dateLayout),
		Status:   r.Status,
	}
}

// ToggleResponse carries the cell's new state together with the
// person's refreshed present-day tally, so the calendar screen can
// update both without a second round trip.
type ToggleResponse struct {
	RecordResponse
	PresentDays int `json:"present_days"`
}

// PersonDays is one row of the period matrix screen: a person and
// their per-date statuses inside the window.
type PersonDays struct {
	PersonID string            `json:"person_id"`
	Days     map[string]Status `json:"days"`
}

// TotalsResponse summarizes one person's presence inside a window.
type TotalsResponse struct {
	PersonID     string `json:"person_id"`
	PresentDays  int    `json:"present_days"`
	ExcusedDays  int    `json:"excused_days"`
	AbsentDays   int    `json:"absent_days"`
	RecordedDays int    `json:"recorded_days"`
}
