package attendance

import "errors"

var (
	ErrPersonNotFound = errors.New("person not found for attendance record")
	ErrInvalidDate    = errors.New("invalid attendance date")
)
