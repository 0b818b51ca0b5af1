package user

import "time"

type Role string

const (
	// RoleManager sees and edits everything across the network.
	RoleManager Role = "manager"
	// RoleAdmin is scoped to the branches of one city.
	RoleAdmin Role = "admin"
	// RoleCampHead and RoleLabHead are scoped to one branch.
	RoleCampHead Role = "camp_head"
	RoleLabHead  Role = "lab_head"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleAdmin, RoleCampHead, RoleLabHead:
		return true
	}
	return false
}

// IsHead reports whether the role is one of the branch-level heads.
func (r Role) IsHead() bool {
	return r == RoleCampHead || r == RoleLabHead
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	FullName     string
	Role         Role
	BranchID     *string
	CityID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	BranchName *string
	CityName   *string
}
