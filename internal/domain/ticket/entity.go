package ticket

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Ticket struct {
	ID          string
	UserID      string
	Subject     string
	Description string
	Status      Status
	AdminNotes  string
	// ScreenshotURL points at externally stored upload; this service
	// only keeps the reference.
	ScreenshotURL *string
	// HasUnreadAdminResponse flips on whenever staff saves admin
	// notes and off when the owner opens their ticket list.
	HasUnreadAdminResponse bool
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// DTO
	Username *string
}
