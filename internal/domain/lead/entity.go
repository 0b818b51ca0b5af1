package lead

import "time"

type Status string

const (
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusNoAnswer Status = "no_answer"
	StatusNotSet   Status = "not_set"
)

func (s Status) Valid() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusNoAnswer, StatusNotSet:
		return true
	}
	return false
}

type Source string

const (
	SourceInstagram Source = "instagram"
	SourceTelegram  Source = "telegram"
	SourceVK        Source = "vk"
	SourceWebsite   Source = "website"
	SourceShift     Source = "schedule"
	SourceCamp      Source = "camp"
)

func (s Source) Valid() bool {
	switch s {
	case SourceInstagram, SourceTelegram, SourceVK, SourceWebsite, SourceShift, SourceCamp:
		return true
	}
	return false
}

type Lead struct {
	ID         string
	Status     Status
	Source     Source
	AddedDate  time.Time
	Phone      string
	ParentName string
	Interest   string
	Comment    string
	CallbackAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsCallbackOverdue reports whether the promised callback moment has
// passed. Derived at read time, never stored.
func (l Lead) IsCallbackOverdue(now time.Time) bool {
	return l.CallbackAt != nil && l.CallbackAt.Before(now)
}

// IsCallbackToday reports whether the callback falls on the current
// calendar date.
func (l Lead) IsCallbackToday(now time.Time) bool {
	if l.CallbackAt == nil {
		return false
	}
	y1, m1, d1 := l.CallbackAt.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
