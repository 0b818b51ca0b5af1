package response

import (
	"errors"
	"net/http"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/auth"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/domain/lead"
	"github.com/jget-crm/backoffice/internal/domain/org"
	"github.com/jget-crm/backoffice/internal/domain/payroll"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/domain/ticket"
	"github.com/jget-crm/backoffice/internal/domain/user"
	"github.com/jget-crm/backoffice/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Missing rows map
// to 404 and scope mismatches to 403; the two are never conflated.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// Authorization
	case errors.Is(err, authz.ErrAccessDenied):
		Forbidden(w, "Access denied for this scope")
	case errors.Is(err, user.ErrManagerOnly):
		Forbidden(w, "Manager privilege required")
	case errors.Is(err, user.ErrStaffAccessDenied):
		Forbidden(w, "Staff access required")

	// Users
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already taken")
	case errors.Is(err, user.ErrScopeMissingBranch):
		BadRequest(w, "Branch is required for this role", nil)

	// Organization
	case errors.Is(err, org.ErrCityNotFound):
		NotFound(w, "City not found")
	case errors.Is(err, org.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, org.ErrBranchHasShifts):
		Conflict(w, "Branch still has shifts scheduled")
	case errors.Is(err, org.ErrCityHasBranches):
		Conflict(w, "City still has branches")

	// Shifts and squads
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrSquadNotFound):
		NotFound(w, "Squad not found")
	case errors.Is(err, shift.ErrSquadNameTaken):
		Conflict(w, "Squad number already used in this shift")
	case errors.Is(err, shift.ErrEmployeeAlreadyOn):
		Conflict(w, "Employee is already on this shift")
	case errors.Is(err, shift.ErrStudentAlreadyOn):
		Conflict(w, "Student is already on this shift")
	case errors.Is(err, shift.ErrEmployeeNotOnShift):
		BadRequest(w, "Employee is not on this shift", nil)
	case errors.Is(err, shift.ErrStudentNotOnShift):
		BadRequest(w, "Student is not on this shift", nil)

	// Employees and positions
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrPositionNotFound):
		NotFound(w, "Position not found")
	case errors.Is(err, employee.ErrPositionInUse):
		Conflict(w, "Position is still assigned to employees")

	// Students and money
	case errors.Is(err, student.ErrStudentNotFound):
		NotFound(w, "Student not found")
	case errors.Is(err, student.ErrPaymentNotFound):
		NotFound(w, "Payment not found")
	case errors.Is(err, student.ErrInvalidAmount):
		BadRequest(w, "Amount must be positive", nil)

	// Attendance
	case errors.Is(err, attendance.ErrPersonNotFound):
		NotFound(w, "Person not found")
	case errors.Is(err, attendance.ErrInvalidDate):
		BadRequest(w, "Invalid attendance date", nil)

	// Payroll
	case errors.Is(err, payroll.ErrSalaryNotFound):
		NotFound(w, "Salary not found")
	case errors.Is(err, payroll.ErrSalaryExists):
		Conflict(w, "Salary already exists for this employee and shift")
	case errors.Is(err, payroll.ErrExpenseNotFound):
		NotFound(w, "Expense not found")

	// Tickets and leads
	case errors.Is(err, ticket.ErrTicketNotFound):
		NotFound(w, "Ticket not found")
	case errors.Is(err, lead.ErrLeadNotFound):
		NotFound(w, "Lead not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
