package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrSquadNotFound      = errors.New("squad not found")
	ErrSquadNameTaken     = errors.New("squad number already used in this shift")
	ErrEmployeeAlreadyOn  = errors.New("employee is already on this shift")
	ErrStudentAlreadyOn   = errors.New("student is already on this shift")
	ErrEmployeeNotOnShift = errors.New("employee is not on this shift")
	ErrStudentNotOnShift  = errors.New("student is not on this shift")
)
