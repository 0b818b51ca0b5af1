package attendance

import "time"

// Record is one person-day presence mark. The same shape serves both
// employees and students; PersonID refers to whichever registry the
// owning repository is bound to.
type Record struct {
	ID       string
	PersonID string
	Date     time.Time
	Status   Status
}
