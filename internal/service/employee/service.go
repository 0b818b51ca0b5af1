package employee

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/domain/org"
	"github.com/jget-crm/backoffice/internal/domain/payroll"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

type Service struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	positionRepo employee.PositionRepository
	branchRepo   org.BranchRepository
	salaryRepo   payroll.SalaryRepository
	shiftRepo    shift.ShiftRepository
	attRepo      attendance.Repository
}

func NewService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	positionRepo employee.PositionRepository,
	branchRepo org.BranchRepository,
	salaryRepo payroll.SalaryRepository,
	shiftRepo shift.ShiftRepository,
	attRepo attendance.Repository,
) *Service {
	return &Service{
		tx:           tx,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		branchRepo:   branchRepo,
		salaryRepo:   salaryRepo,
		shiftRepo:    shiftRepo,
		attRepo:      attRepo,
	}
}

func (s *Service) requireAccess(ctx context.Context, ac authz.Context, id string) error {
	branchID, cityID, err := s.employeeRepo.ResolveScope(ctx, id)
	if err != nil {
		return err
	}
	if !ac.CanAccess(branchID, cityID) {
		return authz.ErrAccessDenied
	}
	return nil
}

// requireTargetScope guards branch and shift attachments: the
// destination of a create or move must be inside the acting user's
// scope, not just the employee's current placement.
func (s *Service) requireTargetScope(ctx context.Context, ac authz.Context, branchID, shiftID *string) error {
	if branchID != nil {
		b, err := s.branchRepo.GetByID(ctx, *branchID)
		if err != nil {
			return err
		}
		if !ac.CanAccess(&b.ID, b.CityID) {
			return authz.ErrAccessDenied
		}
	}
	if shiftID != nil {
		sh, err := s.shiftRepo.GetByID(ctx, *shiftID)
		if err != nil {
			return err
		}
		if !ac.CanAccess(&sh.BranchID, sh.CityID) {
			return authz.ErrAccessDenied
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, ac authz.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !ac.CanManage() {
		return employee.EmployeeResponse{}, authz.ErrAccessDenied
	}
	if err := s.requireTargetScope(ctx, ac, req.BranchID, req.ShiftID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		FullName:   req.FullName,
		PositionID: req.PositionID,
		BranchID:   req.BranchID,
		ShiftID:    req.ShiftID,
		RatePerDay: req.RatePerDay,
		IsLeader:   req.IsLeader,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err = s.employeeRepo.GetByID(ctx, created.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(created), nil
}

func (s *Service) GetByID(ctx context.Context, ac authz.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, id); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

func (s *Service) List(ctx context.Context, ac authz.Context, branchID *string) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, ac.Scope(), branchID)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, ac authz.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !ac.CanManage() {
		return employee.EmployeeResponse{}, authz.ErrAccessDenied
	}

	e, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.requireTargetScope(ctx, ac, req.BranchID, req.ShiftID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FullName != nil {
		e.FullName = *req.FullName
	}
	if req.PositionID != nil {
		e.PositionID = req.PositionID
	}
	if req.BranchID != nil {
		e.BranchID = req.BranchID
	}
	if req.ShiftID != nil {
		e.ShiftID = req.ShiftID
	}
	if req.RatePerDay != nil {
		e.RatePerDay = *req.RatePerDay
	}
	if req.IsLeader != nil {
		e.IsLeader = *req.IsLeader
	}

	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err = s.employeeRepo.GetByID(ctx, e.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

// UpdateRate changes the employee's daily rate and re-prices every
// salary row of theirs in the same transaction, recomputing totals from
// the attendance each shift recorded.
func (s *Service) UpdateRate(ctx context.Context, ac authz.Context, id string, req employee.UpdateRateRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !ac.CanManage() {
		return employee.EmployeeResponse{}, authz.ErrAccessDenied
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, id); err != nil {
		return employee.EmployeeResponse{}, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e.RatePerDay = req.RatePerDay
		if err := s.employeeRepo.Update(ctx, e); err != nil {
			return err
		}

		salaries, err := s.salaryRepo.ListByEmployee(ctx, id)
		if err != nil {
			return err
		}
		for _, sal := range salaries {
			sh, err := s.shiftRepo.GetByID(ctx, sal.ShiftID)
			if err != nil {
				return err
			}
			days, err := s.attRepo.CountPresent(ctx, id, sh.StartDate, sh.EndDate)
			if err != nil {
				return err
			}
			sal.DailyRate = req.RatePerDay
			sal.Recalculate(days, req.RatePerDay)
			if err := s.salaryRepo.Update(ctx, sal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err = s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

// Delete removes the employee together with their attendance trail.
func (s *Service) Delete(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}
	if err := s.requireAccess(ctx, ac, id); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.attRepo.DeleteByPerson(ctx, id); err != nil {
			return err
		}
		return s.employeeRepo.Delete(ctx, id)
	})
}

func (s *Service) CreatePosition(ctx context.Context, ac authz.Context, req employee.CreatePositionRequest) (employee.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PositionResponse{}, err
	}
	if !ac.CanManage() {
		return employee.PositionResponse{}, authz.ErrAccessDenied
	}

	created, err := s.positionRepo.Create(ctx, employee.Position{
		Name:             req.Name,
		Responsibilities: req.Responsibilities,
	})
	if err != nil {
		return employee.PositionResponse{}, err
	}
	return employee.ToPositionResponse(created), nil
}

func (s *Service) ListPositions(ctx context.Context) ([]employee.PositionResponse, error) {
	positions, err := s.positionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.PositionResponse, 0, len(positions))
	for _, p := range positions {
		responses = append(responses, employee.ToPositionResponse(p))
	}
	return responses, nil
}

func (s *Service) UpdatePosition(ctx context.Context, ac authz.Context, id string, req employee.CreatePositionRequest) (employee.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PositionResponse{}, err
	}
	if !ac.CanManage() {
		return employee.PositionResponse{}, authz.ErrAccessDenied
	}

	p, err := s.positionRepo.GetByID(ctx, id)
	if err != nil {
		return employee.PositionResponse{}, err
	}
	p.Name = req.Name
	p.Responsibilities = req.Responsibilities

	if err := s.positionRepo.Update(ctx, p); err != nil {
		return employee.PositionResponse{}, err
	}
	return employee.ToPositionResponse(p), nil
}

// DeletePosition refuses while employees still hold the position.
func (s *Service) DeletePosition(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}

	count, err := s.positionRepo.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return employee.ErrPositionInUse
	}

	return s.positionRepo.Delete(ctx, id)
}
