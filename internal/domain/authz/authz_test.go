package authz

import (
	"testing"

	"github.com/jget-crm/backoffice/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestScope_Manager_Unrestricted(t *testing.T) {
	ac := Context{UserID: "u1", Role: user.RoleManager}
	assert.True(t, ac.Scope().Unrestricted())
}

func TestScope_AdminWithCity(t *testing.T) {
	ac := Context{UserID: "u1", Role: user.RoleAdmin, CityID: strPtr("c1")}
	scope := ac.Scope()
	assert.False(t, scope.Unrestricted())
	assert.Equal(t, "c1", *scope.CityID)
	assert.Nil(t, scope.BranchID)
}

func TestScope_AdminWithoutCity_FallsThroughUnrestricted(t *testing.T) {
	ac := Context{UserID: "u1", Role: user.RoleAdmin}
	assert.True(t, ac.Scope().Unrestricted())
}

func TestScope_HeadWithBranch(t *testing.T) {
	for _, role := range []user.Role{user.RoleCampHead, user.RoleLabHead} {
		ac := Context{UserID: "u1", Role: role, BranchID: strPtr("b1")}
		scope := ac.Scope()
		assert.Equal(t, "b1", *scope.BranchID)
		assert.Nil(t, scope.CityID)
	}
}

func TestCanAccess_AdminCityMismatchDenied(t *testing.T) {
	ac := Context{UserID: "u1", Role: user.RoleAdmin, CityID: strPtr("c1")}

	assert.True(t, ac.CanAccess(strPtr("b1"), strPtr("c1")))
	assert.False(t, ac.CanAccess(strPtr("b1"), strPtr("c2")))
	// Objects with no resolved city pass the filter.
	assert.True(t, ac.CanAccess(nil, nil))
}

func TestCanAccess_HeadBranchMismatchDenied(t *testing.T) {
	ac := Context{UserID: "u1", Role: user.RoleCampHead, BranchID: strPtr("b1")}

	assert.True(t, ac.CanAccess(strPtr("b1"), nil))
	assert.False(t, ac.CanAccess(strPtr("b2"), nil))
	assert.True(t, ac.CanAccess(nil, nil))
}

func TestCanManage(t *testing.T) {
	assert.True(t, Context{Role: user.RoleManager}.CanManage())
	assert.True(t, Context{Role: user.RoleAdmin}.CanManage())
	assert.False(t, Context{Role: user.RoleCampHead}.CanManage())
	assert.False(t, Context{Role: user.RoleLabHead}.CanManage())
}
