package shift

import "time"

// Palette accepted for the calendar marker, first entry aside the
// default applied when the client sends an unknown color.
const DefaultColor = "#cce6ff"

var Colors = []string{
	"#ff6b6b",
	"#51cf66",
	"#339af0",
	"#ffd43b",
	"#cc5de8",
	"#ff922b",
	"#20c997",
}

// Shift is one dated camp or lab session at a branch. It anchors
// employees, students, expenses, salaries and payments.
type Shift struct {
	ID        string
	Name      string
	BranchID  string
	StartDate time.Time
	EndDate   time.Time
	Theme     string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	BranchName *string
	CityID     *string
}

// Dates returns every calendar day of the shift inclusive.
func (s Shift) Dates() []time.Time {
	var dates []time.Time
	for d := s.StartDate; !d.After(s.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Squad is a numbered sub-group of students within a shift, optionally
// led by a staff member.
type Squad struct {
	ID       string
	Name     int
	ShiftID  string
	LeaderID *string

	// DTO
	LeaderName   *string
	StudentCount int
}
