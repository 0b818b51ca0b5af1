package org

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/org"
	"github.com/jget-crm/backoffice/internal/domain/user"
	"github.com/jget-crm/backoffice/internal/pkg/validator"
)

type Service struct {
	cityRepo   org.CityRepository
	branchRepo org.BranchRepository
}

func NewService(cityRepo org.CityRepository, branchRepo org.BranchRepository) *Service {
	return &Service{cityRepo: cityRepo, branchRepo: branchRepo}
}

// CreateCity is manager-only; cities are the top of the scope tree.
func (s *Service) CreateCity(ctx context.Context, ac authz.Context, req org.CreateCityRequest) (org.CityResponse, error) {
	if err := req.Validate(); err != nil {
		return org.CityResponse{}, err
	}
	if ac.Role != user.RoleManager {
		return org.CityResponse{}, authz.ErrAccessDenied
	}

	created, err := s.cityRepo.Create(ctx, org.City{Name: req.Name})
	if err != nil {
		return org.CityResponse{}, err
	}
	return org.ToCityResponse(created), nil
}

func (s *Service) GetCity(ctx context.Context, id string) (org.CityResponse, error) {
	c, err := s.cityRepo.GetByID(ctx, id)
	if err != nil {
		return org.CityResponse{}, err
	}
	return org.ToCityResponse(c), nil
}

// ListCities is unscoped; every staff role picks from the same city
// directory.
func (s *Service) ListCities(ctx context.Context) ([]org.CityResponse, error) {
	cities, err := s.cityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]org.CityResponse, 0, len(cities))
	for _, c := range cities {
		responses = append(responses, org.ToCityResponse(c))
	}
	return responses, nil
}

func (s *Service) UpdateCity(ctx context.Context, ac authz.Context, id, name string) (org.CityResponse, error) {
	if ac.Role != user.RoleManager {
		return org.CityResponse{}, authz.ErrAccessDenied
	}

	c, err := s.cityRepo.GetByID(ctx, id)
	if err != nil {
		return org.CityResponse{}, err
	}
	c.Name = name

	if err := s.cityRepo.Update(ctx, c); err != nil {
		return org.CityResponse{}, err
	}
	return org.ToCityResponse(c), nil
}

// DeleteCity refuses while branches still reference the city.
func (s *Service) DeleteCity(ctx context.Context, ac authz.Context, id string) error {
	if ac.Role != user.RoleManager {
		return authz.ErrAccessDenied
	}

	count, err := s.cityRepo.CountBranches(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return org.ErrCityHasBranches
	}

	return s.cityRepo.Delete(ctx, id)
}

// CreateBranch pins the branch to the admin's own city regardless of
// the request body; managers may place it anywhere.
func (s *Service) CreateBranch(ctx context.Context, ac authz.Context, req org.CreateBranchRequest) (org.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return org.BranchResponse{}, err
	}
	if !ac.CanManage() {
		return org.BranchResponse{}, authz.ErrAccessDenied
	}
	// Admins never choose the city; whatever the body carried is
	// replaced before it is ever looked at.
	if ac.Role == user.RoleAdmin {
		req.CityID = ac.CityID
	} else if req.CityID != nil && !validator.IsValidUUID(*req.CityID) {
		return org.BranchResponse{}, validator.ValidationErrors{
			{Field: "city_id", Message: "must be a valid id"},
		}
	}

	created, err := s.branchRepo.Create(ctx, org.Branch{
		Name:    req.Name,
		Address: req.Address,
		CityID:  req.CityID,
	})
	if err != nil {
		return org.BranchResponse{}, err
	}

	created, err = s.branchRepo.GetByID(ctx, created.ID)
	if err != nil {
		return org.BranchResponse{}, err
	}
	return org.ToBranchResponse(created), nil
}

func (s *Service) GetBranch(ctx context.Context, ac authz.Context, id string) (org.BranchResponse, error) {
	b, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return org.BranchResponse{}, err
	}
	if !ac.CanAccess(&b.ID, b.CityID) {
		return org.BranchResponse{}, authz.ErrAccessDenied
	}
	return org.ToBranchResponse(b), nil
}

func (s *Service) ListBranches(ctx context.Context, ac authz.Context) ([]org.BranchResponse, error) {
	branches, err := s.branchRepo.List(ctx, ac.Scope())
	if err != nil {
		return nil, err
	}

	responses := make([]org.BranchResponse, 0, len(branches))
	for _, b := range branches {
		responses = append(responses, org.ToBranchResponse(b))
	}
	return responses, nil
}

func (s *Service) UpdateBranch(ctx context.Context, ac authz.Context, req org.UpdateBranchRequest) (org.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return org.BranchResponse{}, err
	}
	if !ac.CanManage() {
		return org.BranchResponse{}, authz.ErrAccessDenied
	}

	b, err := s.branchRepo.GetByID(ctx, req.ID)
	if err != nil {
		return org.BranchResponse{}, err
	}
	if !ac.CanAccess(&b.ID, b.CityID) {
		return org.BranchResponse{}, authz.ErrAccessDenied
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Address != nil {
		b.Address = *req.Address
	}
	if req.CityID != nil && ac.Role == user.RoleManager {
		b.CityID = req.CityID
	}

	if err := s.branchRepo.Update(ctx, b); err != nil {
		return org.BranchResponse{}, err
	}

	b, err = s.branchRepo.GetByID(ctx, b.ID)
	if err != nil {
		return org.BranchResponse{}, err
	}
	return org.ToBranchResponse(b), nil
}

// DeleteBranch refuses while shifts are still scheduled at the branch.
func (s *Service) DeleteBranch(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}

	b, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ac.CanAccess(&b.ID, b.CityID) {
		return authz.ErrAccessDenied
	}

	count, err := s.branchRepo.CountShifts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return org.ErrBranchHasShifts
	}

	return s.branchRepo.Delete(ctx, id)
}

// GetBranchStatistics aggregates the branch detail screen numbers.
func (s *Service) GetBranchStatistics(ctx context.Context, ac authz.Context, id string) (org.BranchStatisticsResponse, error) {
	b, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return org.BranchStatisticsResponse{}, err
	}
	if !ac.CanAccess(&b.ID, b.CityID) {
		return org.BranchStatisticsResponse{}, authz.ErrAccessDenied
	}

	stats, err := s.branchRepo.GetStatistics(ctx, id)
	if err != nil {
		return org.BranchStatisticsResponse{}, err
	}

	return org.BranchStatisticsResponse{
		ShiftCount:    stats.ShiftCount,
		EmployeeCount: stats.EmployeeCount,
		StudentCount:  stats.StudentCount,
		TotalExpenses: stats.TotalExpenses,
		TotalSalaries: stats.TotalSalaries,
	}, nil
}
