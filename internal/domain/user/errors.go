package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already taken")
	ErrManagerOnly        = errors.New("manager privilege required")
	ErrStaffAccessDenied  = errors.New("staff access required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrScopeMissingBranch = errors.New("branch is required for this role")
)
