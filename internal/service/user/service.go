package user

import (
	"context"
	"fmt"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	userRepo user.UserRepository
}

func NewService(userRepo user.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Create registers a staff account. Managers may create any role;
// admins may create non-manager accounts and the new account is pinned
// to the admin's own city regardless of the request body.
func (s *Service) Create(ctx context.Context, ac authz.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if !ac.CanManage() {
		return user.UserResponse{}, authz.ErrAccessDenied
	}
	if ac.Role == user.RoleAdmin {
		if req.Role == user.RoleManager {
			return user.UserResponse{}, user.ErrManagerOnly
		}
		req.CityID = ac.CityID
		if req.Role.IsHead() && req.BranchID == nil {
			req.BranchID = ac.BranchID
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		BranchID:     req.BranchID,
		CityID:       req.CityID,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	// Re-read for the joined branch and city names.
	created, err = s.userRepo.GetByID(ctx, created.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

func (s *Service) GetByID(ctx context.Context, ac authz.Context, id string) (user.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !ac.CanAccess(u.BranchID, u.CityID) {
		return user.UserResponse{}, authz.ErrAccessDenied
	}
	return user.ToResponse(u), nil
}

// List returns the accounts visible to the acting user. The filter is
// applied in memory; the user table is small.
func (s *Service) List(ctx context.Context, ac authz.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		if !ac.CanAccess(u.BranchID, u.CityID) {
			continue
		}
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, ac authz.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if !ac.CanManage() {
		return user.UserResponse{}, authz.ErrAccessDenied
	}

	u, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !ac.CanAccess(u.BranchID, u.CityID) {
		return user.UserResponse{}, authz.ErrAccessDenied
	}
	if ac.Role == user.RoleAdmin && (u.Role == user.RoleManager || (req.Role != nil && *req.Role == user.RoleManager)) {
		return user.UserResponse{}, user.ErrManagerOnly
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.BranchID != nil {
		u.BranchID = req.BranchID
	}
	if req.CityID != nil && ac.Role == user.RoleManager {
		u.CityID = req.CityID
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return user.UserResponse{}, err
	}

	u, err = s.userRepo.GetByID(ctx, u.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

func (s *Service) Delete(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ac.CanAccess(u.BranchID, u.CityID) {
		return authz.ErrAccessDenied
	}
	if ac.Role == user.RoleAdmin && u.Role == user.RoleManager {
		return user.ErrManagerOnly
	}

	return s.userRepo.Delete(ctx, id)
}
