package attendance

import (
	"context"
	"time"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/domain/student"
)

type Service struct {
	employeeAttRepo attendance.Repository
	studentAttRepo  attendance.Repository
	employeeRepo    employee.EmployeeRepository
	studentRepo     student.StudentRepository
	shiftRepo       shift.ShiftRepository
}

func NewService(
	employeeAttRepo attendance.Repository,
	studentAttRepo attendance.Repository,
	employeeRepo employee.EmployeeRepository,
	studentRepo student.StudentRepository,
	shiftRepo shift.ShiftRepository,
) *Service {
	return &Service{
		employeeAttRepo: employeeAttRepo,
		studentAttRepo:  studentAttRepo,
		employeeRepo:    employeeRepo,
		studentRepo:     studentRepo,
		shiftRepo:       shiftRepo,
	}
}

func (s *Service) pick(kind attendance.PersonKind) attendance.Repository {
	if kind == attendance.KindEmployee {
		return s.employeeAttRepo
	}
	return s.studentAttRepo
}

func (s *Service) resolveScope(ctx context.Context, kind attendance.PersonKind, personID string) (*string, *string, error) {
	if kind == attendance.KindEmployee {
		return s.employeeRepo.ResolveScope(ctx, personID)
	}
	return s.studentRepo.ResolveScope(ctx, personID)
}

func (s *Service) personShiftID(ctx context.Context, kind attendance.PersonKind, personID string) (*string, error) {
	if kind == attendance.KindEmployee {
		e, err := s.employeeRepo.GetByID(ctx, personID)
		if err != nil {
			return nil, err
		}
		return e.ShiftID, nil
	}
	st, err := s.studentRepo.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	return st.ShiftID, nil
}

// Toggle advances the tri-state mark for one person-day and returns the
// refreshed present-day tally alongside the new state. The tally window
// is the person's shift when they are on one, otherwise the toggled
// day's calendar month. The acting user's scope is checked against the
// person, not the date.
func (s *Service) Toggle(ctx context.Context, ac authz.Context, req attendance.ToggleRequest) (attendance.ToggleResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ToggleResponse{}, err
	}

	branchID, cityID, err := s.resolveScope(ctx, req.Kind, req.PersonID)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}
	if !ac.CanAccess(branchID, cityID) {
		return attendance.ToggleResponse{}, authz.ErrAccessDenied
	}

	rec, err := s.pick(req.Kind).Toggle(ctx, req.PersonID, req.Day)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}

	from := time.Date(req.Day.Year(), req.Day.Month(), 1, 0, 0, 0, 0, req.Day.Location())
	to := from.AddDate(0, 1, -1)
	shiftID, err := s.personShiftID(ctx, req.Kind, req.PersonID)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}
	if shiftID != nil {
		sh, err := s.shiftRepo.GetByID(ctx, *shiftID)
		if err != nil {
			return attendance.ToggleResponse{}, err
		}
		from, to = sh.StartDate, sh.EndDate
	}

	days, err := s.pick(req.Kind).CountPresent(ctx, req.PersonID, from, to)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}

	return attendance.ToggleResponse{
		RecordResponse: attendance.ToResponse(rec),
		PresentDays:    days,
	}, nil
}

// ListPeriod returns the full person-by-date matrix inside the window,
// keyed by person.
func (s *Service) ListPeriod(ctx context.Context, kind attendance.PersonKind, from, to time.Time) ([]attendance.PersonDays, error) {
	records, err := s.pick(kind).ListAllRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byPerson := make(map[string]*attendance.PersonDays)
	var order []string
	for _, rec := range records {
		pd, ok := byPerson[rec.PersonID]
		if !ok {
			pd = &attendance.PersonDays{
				PersonID: rec.PersonID,
				Days:     make(map[string]attendance.Status),
			}
			byPerson[rec.PersonID] = pd
			order = append(order, rec.PersonID)
		}
		pd.Days[rec.Date.Format("2006-01-02")] = rec.Status
	}

	result := make([]attendance.PersonDays, 0, len(order))
	for _, id := range order {
		result = append(result, *byPerson[id])
	}
	return result, nil
}

// ListPerson returns one person's records inside the window.
func (s *Service) ListPerson(ctx context.Context, ac authz.Context, kind attendance.PersonKind, personID string, from, to time.Time) ([]attendance.RecordResponse, error) {
	branchID, cityID, err := s.resolveScope(ctx, kind, personID)
	if err != nil {
		return nil, err
	}
	if !ac.CanAccess(branchID, cityID) {
		return nil, authz.ErrAccessDenied
	}

	records, err := s.pick(kind).ListRange(ctx, personID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
	}
	return responses, nil
}

// Totals folds one person's window into per-status counts.
func (s *Service) Totals(ctx context.Context, ac authz.Context, kind attendance.PersonKind, personID string, from, to time.Time) (attendance.TotalsResponse, error) {
	branchID, cityID, err := s.resolveScope(ctx, kind, personID)
	if err != nil {
		return attendance.TotalsResponse{}, err
	}
	if !ac.CanAccess(branchID, cityID) {
		return attendance.TotalsResponse{}, authz.ErrAccessDenied
	}

	records, err := s.pick(kind).ListRange(ctx, personID, from, to)
	if err != nil {
		return attendance.TotalsResponse{}, err
	}

	totals := attendance.TotalsResponse{PersonID: personID, RecordedDays: len(records)}
	for _, rec := range records {
		switch {
		case rec.Status.Present():
			totals.PresentDays++
		case rec.Status.Excused():
			totals.ExcusedDays++
		default:
			totals.AbsentDays++
		}
	}
	return totals, nil
}
