package lead

import (
	"time"

	"github.com/jget-crm/backoffice/internal/pkg/validator"
)

type LeadResponse struct {
	ID                string  `json:"id"`
	Status            Status  `json:"status"`
	Source            Source  `json:"source"`
	AddedDate         string  `json:"added_date"`
	Phone             string  `json:"phone"`
	ParentName        string  `json:"parent_name"`
	Interest          string  `json:"interest"`
	Comment           string  `json:"comment"`
	CallbackAt        *string `json:"callback_at"`
	IsCallbackOverdue bool    `json:"is_callback_overdue"`
	IsCallbackToday   bool    `json:"is_callback_today"`
}

func ToResponse(l Lead, now time.Time) LeadResponse {
	resp := LeadResponse{
		ID:                l.ID,
		Status:            l.Status,
		Source:            l.Source,
		AddedDate:         l.AddedDate.Format("2006-01-02"),
		Phone:             l.Phone,
		ParentName:        l.ParentName,
		Interest:          l.Interest,
		Comment:           l.Comment,
		IsCallbackOverdue: l.IsCallbackOverdue(now),
		IsCallbackToday:   l.IsCallbackToday(now),
	}
	if l.CallbackAt != nil {
		formatted := l.CallbackAt.Format(time.RFC3339)
		resp.CallbackAt = &formatted
	}
	return resp
}

type CreateLeadRequest struct {
	Status     Status  `json:"status"`
	Source     Source  `json:"source"`
	Phone      string  `json:"phone"`
	ParentName string  `json:"parent_name"`
	Interest   string  `json:"interest"`
	Comment    string  `json:"comment"`
	CallbackAt *string `json:"callback_at,omitempty"`

	Callback *time.Time `json:"-"`
}

func (r *CreateLeadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status == "" {
		r.Status = StatusNotSet
	}
	if !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of approved, rejected, no_answer, not_set"})
	}
	if !r.Source.Valid() {
		errs = append(errs, validator.ValidationError{Field: "source", Message: "must be a known lead source"})
	}
	if validator.IsEmpty(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "is required"})
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be a valid phone number"})
	}
	if r.CallbackAt != nil {
		ts, err := time.Parse(time.RFC3339, *r.CallbackAt)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "callback_at", Message: "must be an RFC3339 timestamp"})
		} else {
			r.Callback = &ts
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateLeadRequest struct {
	ID         string
	Status     *Status `json:"status,omitempty"`
	Source     *Source `json:"source,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	ParentName *string `json:"parent_name,omitempty"`
	Interest   *string `json:"interest,omitempty"`
	Comment    *string `json:"comment,omitempty"`
	CallbackAt *string `json:"callback_at,omitempty"`

	Callback *time.Time `json:"-"`
}

func (r *UpdateLeadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of approved, rejected, no_answer, not_set"})
	}
	if r.Source != nil && !r.Source.Valid() {
		errs = append(errs, validator.ValidationError{Field: "source", Message: "must be a known lead source"})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be a valid phone number"})
	}
	if r.CallbackAt != nil && *r.CallbackAt != "" {
		ts, err := time.Parse(time.RFC3339, *r.CallbackAt)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "callback_at", Message: "must be an RFC3339 timestamp"})
		} else {
			r.Callback = &ts
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
