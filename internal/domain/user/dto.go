package user

import (
	"github.com/jget-crm/backoffice/internal/pkg/validator"
)

type UserResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	FullName   string  `json:"full_name"`
	Role       Role    `json:"role"`
	BranchID   *string `json:"branch_id"`
	BranchName *string `json:"branch_name,omitempty"`
	CityID     *string `json:"city_id"`
	CityName   *string `json:"city_name,omitempty"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       u.Role,
		BranchID:   u.BranchID,
		BranchName: u.BranchName,
		CityID:     u.CityID,
		CityName:   u.CityName,
	}
}

type CreateUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Role     Role    `json:"role"`
	BranchID *string `json:"branch_id,omitempty"`
	CityID   *string `json:"city_id,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "is required"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "must be at least 8 characters"})
	}
	if !r.Role.Valid() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "must be one of manager, admin, camp_head, lab_head"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateUserRequest struct {
	ID       string
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	BranchID *string `json:"branch_id,omitempty"`
	CityID   *string `json:"city_id,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Role != nil && !r.Role.Valid() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "must be one of manager, admin, camp_head, lab_head"})
	}
	if r.Password != nil && len(*r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "must be at least 8 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
