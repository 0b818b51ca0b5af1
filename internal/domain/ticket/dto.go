package ticket

import (
	"time"

	"github.com/jget-crm/backoffice/internal/pkg/validator"
)

type TicketResponse struct {
	ID                     string  `json:"id"`
	UserID                 string  `json:"user_id"`
	Username               *string `json:"username,omitempty"`
	Subject                string  `json:"subject"`
	Description            string  `json:"description"`
	Status                 Status  `json:"status"`
	AdminNotes             string  `json:"admin_notes"`
	ScreenshotURL          *string `json:"screenshot_url"`
	HasUnreadAdminResponse bool    `json:"has_unread_admin_response"`
	CreatedAt              string  `json:"created_at"`
	UpdatedAt              string  `json:"updated_at"`
}

func ToResponse(t Ticket) TicketResponse {
	return TicketResponse{
		ID:                     t.ID,
		UserID:                 t.UserID,
		Username:               t.Username,
		Subject:                t.Subject,
		Description:            t.Description,
		Status:                 t.Status,
		AdminNotes:             t.AdminNotes,
		ScreenshotURL:          t.ScreenshotURL,
		HasUnreadAdminResponse: t.HasUnreadAdminResponse,
		CreatedAt:              t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              t.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateTicketRequest struct {
	Subject       string  `json:"subject"`
	Description   string  `json:"description"`
	ScreenshotURL *string `json:"screenshot_url,omitempty"`
}

func (r *CreateTicketRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Subject) {
		errs = append(errs, validator.ValidationError{Field: "subject", Message: "is required"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTicketRequest struct {
	ID         string
	Status     *Status `json:"status,omitempty"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

func (r *UpdateTicketRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of open, in_progress, resolved, closed"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
