package student

import "errors"

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidAmount   = errors.New("invalid amount")
)
