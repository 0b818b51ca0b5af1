package payroll

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/domain/payroll"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/shopspring/decimal"
)

type Service struct {
	salaryRepo   payroll.SalaryRepository
	expenseRepo  payroll.ExpenseRepository
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
	attRepo      attendance.Repository
}

func NewService(
	salaryRepo payroll.SalaryRepository,
	expenseRepo payroll.ExpenseRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	attRepo attendance.Repository,
) *Service {
	return &Service{
		salaryRepo:   salaryRepo,
		expenseRepo:  expenseRepo,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		attRepo:      attRepo,
	}
}

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

// recalculate prices a salary row from the shift's attendance window
// and the employee's current daily rate.
func (s *Service) recalculate(ctx context.Context, sal *payroll.Salary, sh shift.Shift) error {
	e, err := s.employeeRepo.GetByID(ctx, sal.EmployeeID)
	if err != nil {
		return err
	}
	days, err := s.attRepo.CountPresent(ctx, sal.EmployeeID, sh.StartDate, sh.EndDate)
	if err != nil {
		return err
	}
	sal.Recalculate(days, e.RatePerDay)
	return nil
}

// CreateSalary opens a salary row for an employee on a shift. The total
// is computed immediately from the attendance recorded so far.
func (s *Service) CreateSalary(ctx context.Context, ac authz.Context, req payroll.CreateSalaryRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}
	if !ac.CanManage() {
		return payroll.SalaryResponse{}, authz.ErrAccessDenied
	}

	sh, err := s.requireShiftAccess(ctx, ac, req.ShiftID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	sal := payroll.Salary{
		EmployeeID:  req.EmployeeID,
		ShiftID:     req.ShiftID,
		PaymentType: req.PaymentType,
		DailyRate:   req.DailyRate,
		PercentRate: req.PercentRate,
	}
	if err := s.recalculate(ctx, &sal, sh); err != nil {
		return payroll.SalaryResponse{}, err
	}

	created, err := s.salaryRepo.Create(ctx, sal)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	created, err = s.salaryRepo.GetByID(ctx, created.ID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	created.DaysWorked = sal.DaysWorked
	return payroll.ToSalaryResponse(created), nil
}

// GetSalary reprices the row from live attendance, same as the list
// view, so detail and list never disagree.
func (s *Service) GetSalary(ctx context.Context, ac authz.Context, id string) (payroll.SalaryResponse, error) {
	sal, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	sh, err := s.requireShiftAccess(ctx, ac, sal.ShiftID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	days, err := s.attRepo.CountPresent(ctx, sal.EmployeeID, sh.StartDate, sh.EndDate)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	sal.Recalculate(days, sal.DailyRate)
	return payroll.ToSalaryResponse(sal), nil
}

// ListSalaries returns the rows visible to the acting user, refreshed
// against current attendance, together with the grand total.
func (s *Service) ListSalaries(ctx context.Context, ac authz.Context, unpaidOnly bool) (payroll.SalaryListResponse, error) {
	salaries, err := s.salaryRepo.List(ctx, ac.Scope(), unpaidOnly)
	if err != nil {
		return payroll.SalaryListResponse{}, err
	}

	resp := payroll.SalaryListResponse{
		Salaries:    make([]payroll.SalaryResponse, 0, len(salaries)),
		TotalSalary: decimal.Zero,
	}
	for _, sal := range salaries {
		sh, err := s.shiftRepo.GetByID(ctx, sal.ShiftID)
		if err != nil {
			return payroll.SalaryListResponse{}, err
		}
		days, err := s.attRepo.CountPresent(ctx, sal.EmployeeID, sh.StartDate, sh.EndDate)
		if err != nil {
			return payroll.SalaryListResponse{}, err
		}
		sal.Recalculate(days, sal.DailyRate)
		resp.Salaries = append(resp.Salaries, payroll.ToSalaryResponse(sal))
		resp.TotalSalary = resp.TotalSalary.Add(sal.TotalPayment)
	}
	return resp, nil
}

func (s *Service) UpdateSalary(ctx context.Context, ac authz.Context, req payroll.UpdateSalaryRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}
	if !ac.CanManage() {
		return payroll.SalaryResponse{}, authz.ErrAccessDenied
	}

	sal, err := s.salaryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	sh, err := s.requireShiftAccess(ctx, ac, sal.ShiftID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	if req.PaymentType != nil {
		sal.PaymentType = *req.PaymentType
	}
	if req.DailyRate != nil {
		sal.DailyRate = *req.DailyRate
	}
	if req.PercentRate != nil {
		sal.PercentRate = *req.PercentRate
	}
	if req.IsPaid != nil {
		sal.IsPaid = *req.IsPaid
	}

	if err := s.recalculate(ctx, &sal, sh); err != nil {
		return payroll.SalaryResponse{}, err
	}
	if err := s.salaryRepo.Update(ctx, sal); err != nil {
		return payroll.SalaryResponse{}, err
	}

	return payroll.ToSalaryResponse(sal), nil
}

func (s *Service) DeleteSalary(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}

	sal, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.requireShiftAccess(ctx, ac, sal.ShiftID); err != nil {
		return err
	}

	return s.salaryRepo.Delete(ctx, id)
}

func (s *Service) CreateExpense(ctx context.Context, ac authz.Context, req payroll.CreateExpenseRequest) (payroll.ExpenseResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ExpenseResponse{}, err
	}
	if _, err := s.requireShiftAccess(ctx, ac, req.ShiftID); err != nil {
		return payroll.ExpenseResponse{}, err
	}

	created, err := s.expenseRepo.Create(ctx, payroll.Expense{
		ShiftID:  req.ShiftID,
		Category: req.Category,
		Comment:  req.Comment,
		Amount:   req.Amount,
	})
	if err != nil {
		return payroll.ExpenseResponse{}, err
	}

	created, err = s.expenseRepo.GetByID(ctx, created.ID)
	if err != nil {
		return payroll.ExpenseResponse{}, err
	}
	return payroll.ToExpenseResponse(created), nil
}

// ListExpenses returns the visible expenses and their sum. A shift
// filter narrows to one shift's spending.
func (s *Service) ListExpenses(ctx context.Context, ac authz.Context, shiftID *string) (payroll.ExpenseListResponse, error) {
	var expenses []payroll.Expense
	var err error
	if shiftID != nil {
		if _, err := s.requireShiftAccess(ctx, ac, *shiftID); err != nil {
			return payroll.ExpenseListResponse{}, err
		}
		expenses, err = s.expenseRepo.ListByShift(ctx, *shiftID)
	} else {
		expenses, err = s.expenseRepo.List(ctx, ac.Scope())
	}
	if err != nil {
		return payroll.ExpenseListResponse{}, err
	}

	resp := payroll.ExpenseListResponse{
		Expenses:    make([]payroll.ExpenseResponse, 0, len(expenses)),
		TotalAmount: decimal.Zero,
	}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, payroll.ToExpenseResponse(e))
		resp.TotalAmount = resp.TotalAmount.Add(e.Amount)
	}
	return resp, nil
}

func (s *Service) UpdateExpense(ctx context.Context, ac authz.Context, req payroll.UpdateExpenseRequest) (payroll.ExpenseResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ExpenseResponse{}, err
	}

	e, err := s.expenseRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.ExpenseResponse{}, err
	}
	if _, err := s.requireShiftAccess(ctx, ac, e.ShiftID); err != nil {
		return payroll.ExpenseResponse{}, err
	}

	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.Comment != nil {
		e.Comment = *req.Comment
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}

	if err := s.expenseRepo.Update(ctx, e); err != nil {
		return payroll.ExpenseResponse{}, err
	}
	return payroll.ToExpenseResponse(e), nil
}

func (s *Service) DeleteExpense(ctx context.Context, ac authz.Context, id string) error {
	e, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.requireShiftAccess(ctx, ac, e.ShiftID); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id)
}
