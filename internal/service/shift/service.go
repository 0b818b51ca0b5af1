package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/domain/org"
	"github.com/jget-crm/backoffice/internal/domain/payroll"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

type Service struct {
	tx                database.Transactor
	shiftRepo         shift.ShiftRepository
	squadRepo         shift.SquadRepository
	branchRepo        org.BranchRepository
	employeeRepo      employee.EmployeeRepository
	studentRepo       student.StudentRepository
	paymentRepo       student.PaymentRepository
	balanceRepo       student.BalanceRepository
	salaryRepo        payroll.SalaryRepository
	expenseRepo       payroll.ExpenseRepository
	employeeAttRepo   attendance.Repository
	studentAttRepo    attendance.Repository
}

func NewService(
	tx database.Transactor,
	shiftRepo shift.ShiftRepository,
	squadRepo shift.SquadRepository,
	branchRepo org.BranchRepository,
	employeeRepo employee.EmployeeRepository,
	studentRepo student.StudentRepository,
	paymentRepo student.PaymentRepository,
	balanceRepo student.BalanceRepository,
	salaryRepo payroll.SalaryRepository,
	expenseRepo payroll.ExpenseRepository,
	employeeAttRepo attendance.Repository,
	studentAttRepo attendance.Repository,
) *Service {
	return &Service{
		tx:              tx,
		shiftRepo:       shiftRepo,
		squadRepo:       squadRepo,
		branchRepo:      branchRepo,
		employeeRepo:    employeeRepo,
		studentRepo:     studentRepo,
		paymentRepo:     paymentRepo,
		balanceRepo:     balanceRepo,
		salaryRepo:      salaryRepo,
		expenseRepo:     expenseRepo,
		employeeAttRepo: employeeAttRepo,
		studentAttRepo:  studentAttRepo,
	}
}

// requireShiftAccess loads the shift and checks the acting user's scope
// against its branch and city.
func (s *Service) requireShiftAccess(ctx context.Context, ac authz.Context, shiftID string) (shift.Shift, error) {
	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.Shift{}, err
	}
	if !ac.CanAccess(&sh.BranchID, sh.CityID) {
		return shift.Shift{}, authz.ErrAccessDenied
	}
	return sh, nil
}

func (s *Service) Create(ctx context.Context, ac authz.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}
	if !ac.CanManage() {
		return shift.ShiftResponse{}, authz.ErrAccessDenied
	}

	b, err := s.branchRepo.GetByID(ctx, req.BranchID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !ac.CanAccess(&b.ID, b.CityID) {
		return shift.ShiftResponse{}, authz.ErrAccessDenied
	}

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		Name:      req.Name,
		BranchID:  req.BranchID,
		StartDate: req.Start,
		EndDate:   req.End,
		Theme:     req.Theme,
		Color:     req.Color,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err = s.shiftRepo.GetByID(ctx, created.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.ToResponse(created), nil
}

func (s *Service) GetByID(ctx context.Context, ac authz.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.requireShiftAccess(ctx, ac, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.ToResponse(sh), nil
}

func (s *Service) List(ctx context.Context, ac authz.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.shiftRepo.List(ctx, ac.Scope())
	if err != nil {
		return nil, err
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.ToResponse(sh))
	}
	return responses, nil
}

// ListCalendar returns the shifts of a branch intersecting the given
// month window.
func (s *Service) ListCalendar(ctx context.Context, ac authz.Context, branchID string, from, to time.Time) ([]shift.ShiftResponse, error) {
	b, err := s.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !ac.CanAccess(&b.ID, b.CityID) {
		return nil, authz.ErrAccessDenied
	}

	shifts, err := s.shiftRepo.ListOverlapping(ctx, branchID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.ToResponse(sh))
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, ac authz.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}
	if !ac.CanManage() {
		return shift.ShiftResponse{}, authz.ErrAccessDenied
	}

	sh, err := s.requireShiftAccess(ctx, ac, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if req.Name != nil {
		sh.Name = *req.Name
	}
	if req.BranchID != nil {
		// Moving the shift re-checks the destination branch, not just
		// the branch it sits on now.
		b, err := s.branchRepo.GetByID(ctx, *req.BranchID)
		if err != nil {
			return shift.ShiftResponse{}, err
		}
		if !ac.CanAccess(&b.ID, b.CityID) {
			return shift.ShiftResponse{}, authz.ErrAccessDenied
		}
		sh.BranchID = b.ID
	}
	if req.Start != nil {
		sh.StartDate = *req.Start
	}
	if req.End != nil {
		sh.EndDate = *req.End
	}
	if req.Theme != nil {
		sh.Theme = *req.Theme
	}
	if req.Color != nil {
		sh.Color = *req.Color
	}
	if sh.StartDate.After(sh.EndDate) {
		return shift.ShiftResponse{}, attendance.ErrInvalidDate
	}

	if err := s.shiftRepo.Update(ctx, sh); err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err = s.shiftRepo.GetByID(ctx, sh.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.ToResponse(sh), nil
}

func (s *Service) Delete(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}
	if _, err := s.requireShiftAccess(ctx, ac, id); err != nil {
		return err
	}
	return s.shiftRepo.Delete(ctx, id)
}

// AddEmployee assigns the employee to the shift and seeds an absent
// attendance row for every shift day.
func (s *Service) AddEmployee(ctx context.Context, ac authz.Context, shiftID, employeeID string) error {
	sh, err := s.requireShiftAccess(ctx, ac, shiftID)
	if err != nil {
		return err
	}

	e, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if e.ShiftID != nil && *e.ShiftID == shiftID {
		return shift.ErrEmployeeAlreadyOn
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.employeeRepo.SetShift(ctx, employeeID, &shiftID); err != nil {
			return err
		}
		return s.employeeAttRepo.Seed(ctx, employeeID, sh.StartDate, sh.EndDate)
	})
}

// RemoveEmployee unassigns the employee and drops their unpaid salary
// row for the shift if one exists.
func (s *Service) RemoveEmployee(ctx context.Context, ac authz.Context, shiftID, employeeID string) error {
	if _, err := s.requireShiftAccess(ctx, ac, shiftID); err != nil {
		return err
	}

	e, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if e.ShiftID == nil || *e.ShiftID != shiftID {
		return shift.ErrEmployeeNotOnShift
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		salaries, err := s.salaryRepo.ListByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		for _, sal := range salaries {
			if sal.ShiftID == shiftID && !sal.IsPaid {
				if err := s.salaryRepo.Delete(ctx, sal.ID); err != nil {
					return err
				}
			}
		}
		return s.employeeRepo.SetShift(ctx, employeeID, nil)
	})
}

// AddStudent enrolls the student and seeds their attendance for the
// shift period.
func (s *Service) AddStudent(ctx context.Context, ac authz.Context, shiftID, studentID string) error {
	sh, err := s.requireShiftAccess(ctx, ac, shiftID)
	if err != nil {
		return err
	}

	st, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if st.ShiftID != nil && *st.ShiftID == shiftID {
		return shift.ErrStudentAlreadyOn
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.studentRepo.SetShift(ctx, studentID, &shiftID); err != nil {
			return err
		}
		return s.studentAttRepo.Seed(ctx, studentID, sh.StartDate, sh.EndDate)
	})
}

// RemoveStudent unenrolls the student. Everything the student paid for
// this shift is deleted and refunded to their balance as one deposit;
// the three steps commit or roll back together.
func (s *Service) RemoveStudent(ctx context.Context, ac authz.Context, shiftID, studentID string) error {
	sh, err := s.requireShiftAccess(ctx, ac, shiftID)
	if err != nil {
		return err
	}

	st, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if st.ShiftID == nil || *st.ShiftID != shiftID {
		return shift.ErrStudentNotOnShift
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		refund, err := s.paymentRepo.DeleteByStudentAndShift(ctx, studentID, shiftID)
		if err != nil {
			return err
		}
		if refund.IsPositive() {
			_, err = s.balanceRepo.Create(ctx, student.BalanceEntry{
				StudentID: studentID,
				Amount:    refund,
				Operation: student.OpDeposit,
				Date:      time.Now(),
				Comment:   fmt.Sprintf("Refund for removal from shift %s", sh.Name),
				CreatedBy: &ac.UserID,
			})
			if err != nil {
				return err
			}
		}
		return s.studentRepo.SetShift(ctx, studentID, nil)
	})
}

func (s *Service) ListEmployees(ctx context.Context, ac authz.Context, shiftID string) ([]employee.EmployeeResponse, error) {
	if _, err := s.requireShiftAccess(ctx, ac, shiftID); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

func (s *Service) ListStudents(ctx context.Context, ac authz.Context, shiftID string) ([]student.StudentResponse, error) {
	if _, err := s.requireShiftAccess(ctx, ac, shiftID); err != nil {
		return nil, err
	}

	students, err := s.studentRepo.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	responses := make([]student.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, student.ToResponse(st))
	}
	return responses, nil
}

func (s *Service) ListAvailableEmployees(ctx context.Context, ac authz.Context, shiftID string) ([]employee.EmployeeResponse, error) {
	if _, err := s.requireShiftAccess(ctx, ac, shiftID); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListAvailableForShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

func (s *Service) ListAvailableStudents(ctx context.Context, ac authz.Context, shiftID string) ([]student.StudentResponse, error) {
	if _, err := s.requireShiftAccess(ctx, ac, shiftID); err != nil {
		return nil, err
	}

	students, err := s.studentRepo.ListAvailableForShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	responses := make([]student.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, student.ToResponse(st))
	}
	return responses, nil
}

// GetFinancialBalance is money in minus money out for one shift:
// student payments against expenses plus salaries.
func (s *Service) GetFinancialBalance(ctx context.Context, ac authz.Context, shiftID string) (shift.FinancialBalance, error) {
	if _, err := s.requireShiftAccess(ctx, ac, shiftID); err != nil {
		return shift.FinancialBalance{}, err
	}

	income, err := s.paymentRepo.TotalByShift(ctx, shiftID)
	if err != nil {
		return shift.FinancialBalance{}, err
	}

	expenses, err := s.expenseRepo.TotalByShift(ctx, shiftID)
	if err != nil {
		return shift.FinancialBalance{}, err
	}

	return shift.FinancialBalance{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}, nil
}

// CreateSquad numbers a new sub-group within the shift.
func (s *Service) CreateSquad(ctx context.Context, ac authz.Context, req shift.CreateSquadRequest) (shift.SquadResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.SquadResponse{}, err
	}
	if _, err := s.requireShiftAccess(ctx, ac, req.ShiftID); err != nil {
		return shift.SquadResponse{}, err
	}

	created, err := s.squadRepo.Create(ctx, shift.Squad{
		Name:     req.Name,
		ShiftID:  req.ShiftID,
		LeaderID: req.LeaderID,
	})
	if err != nil {
		return shift.SquadResponse{}, err
	}

	created, err = s.squadRepo.GetByID(ctx, created.ID)
	if err != nil {
		return shift.SquadResponse{}, err
	}
	return shift.ToSquadResponse(created), nil
}

func (s *Service) ListSquads(ctx context.Context, ac authz.Context, shiftID string) ([]shift.SquadResponse, error) {
	if _, err := s.requireShiftAccess(ctx, ac, shiftID); err != nil {
		return nil, err
	}

	squads, err := s.squadRepo.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	responses := make([]shift.SquadResponse, 0, len(squads))
	for _, sq := range squads {
		responses = append(responses, shift.ToSquadResponse(sq))
	}
	return responses, nil
}

func (s *Service) UpdateSquad(ctx context.Context, ac authz.Context, id string, name *int, leaderID *string) (shift.SquadResponse, error) {
	sq, err := s.squadRepo.GetByID(ctx, id)
	if err != nil {
		return shift.SquadResponse{}, err
	}
	if _, err := s.requireShiftAccess(ctx, ac, sq.ShiftID); err != nil {
		return shift.SquadResponse{}, err
	}

	if name != nil {
		sq.Name = *name
	}
	if leaderID != nil {
		sq.LeaderID = leaderID
	}

	if err := s.squadRepo.Update(ctx, sq); err != nil {
		return shift.SquadResponse{}, err
	}

	sq, err = s.squadRepo.GetByID(ctx, id)
	if err != nil {
		return shift.SquadResponse{}, err
	}
	return shift.ToSquadResponse(sq), nil
}

func (s *Service) DeleteSquad(ctx context.Context, ac authz.Context, id string) error {
	sq, err := s.squadRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.requireShiftAccess(ctx, ac, sq.ShiftID); err != nil {
		return err
	}
	return s.squadRepo.Delete(ctx, id)
}
