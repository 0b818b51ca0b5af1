package attendance

// Status is the tri-state presence mark. The source system stored two
// booleans which allowed the impossible present+excused combination;
// a single enum removes it.
type Status string

const (
	StatusAbsent  Status = "absent"
	StatusPresent Status = "present"
	StatusExcused Status = "excused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAbsent, StatusPresent, StatusExcused:
		return true
	}
	return false
}

// Next advances the toggle cycle: absent -> present -> excused -> absent.
func (s Status) Next() Status {
	switch s {
	case StatusAbsent:
		return StatusPresent
	case StatusPresent:
		return StatusExcused
	default:
		return StatusAbsent
	}
}

// Present and Excused keep the wire format of the original API, which
// exposed the two booleans instead of the enum.
func (s Status) Present() bool { return s == StatusPresent }

func (s Status) Excused() bool { return s == StatusExcused }

// FromFlags converts the legacy boolean pair, treating present as the
// stronger flag the way the source did.
func FromFlags(present, excused bool) Status {
	if present {
		return StatusPresent
	}
	if excused {
		return StatusExcused
	}
	return StatusAbsent
}
