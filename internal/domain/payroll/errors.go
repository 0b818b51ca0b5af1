package payroll

import "errors"

var (
	ErrSalaryNotFound  = errors.New("salary not found")
	ErrSalaryExists    = errors.New("salary already exists for this employee and shift")
	ErrExpenseNotFound = errors.New("expense not found")
)
