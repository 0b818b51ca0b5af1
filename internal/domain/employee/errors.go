package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrPositionNotFound = errors.New("position not found")
	ErrPositionInUse    = errors.New("position is still assigned to employees")
)
