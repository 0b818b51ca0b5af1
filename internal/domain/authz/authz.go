// Package authz holds the single access policy that every list, detail
// and mutate operation consults. A Context is built once per request
// from the verified token claims and passed explicitly into services;
// nothing reads the acting user from ambient state.
package authz

import (
	"context"
	"errors"

	"github.com/jget-crm/backoffice/internal/domain/user"
)

var ErrAccessDenied = errors.New("access denied for this scope")

// Context describes the acting user for authorization purposes.
type Context struct {
	UserID   string
	Role     user.Role
	BranchID *string
	CityID   *string
}

// Scope is a row-visibility constraint derived from a Context.
// A nil CityID and nil BranchID means unrestricted.
type Scope struct {
	CityID   *string
	BranchID *string
}

// Unrestricted reports whether the scope filters nothing.
func (s Scope) Unrestricted() bool {
	return s.CityID == nil && s.BranchID == nil
}

// Scope returns the row filter for the acting user.
//
// Managers are unrestricted. Admins are restricted to their city and
// heads to their branch. A role whose scope attribute is unset falls
// through to unrestricted; the source system behaved this way and
// callers rely on it for bootstrap accounts.
func (c Context) Scope() Scope {
	switch c.Role {
	case user.RoleAdmin:
		if c.CityID != nil {
			return Scope{CityID: c.CityID}
		}
	case user.RoleCampHead, user.RoleLabHead:
		if c.BranchID != nil {
			return Scope{BranchID: c.BranchID}
		}
	}
	return Scope{}
}

// CanAccess decides whether the acting user may touch an object whose
// branch resolved to branchID in a city resolved to cityID. Objects
// with no resolved branch or city pass the filter (nullable scope).
// A false result maps to 403, never 404: scope mismatch and
// non-existence are distinguished.
func (c Context) CanAccess(branchID, cityID *string) bool {
	scope := c.Scope()
	if scope.Unrestricted() {
		return true
	}
	if scope.CityID != nil {
		return cityID == nil || *cityID == *scope.CityID
	}
	return branchID == nil || *branchID == *scope.BranchID
}

// IsStaff reports whether the role may use the back office at all.
func (c Context) IsStaff() bool {
	return c.Role.Valid()
}

// CanManage reports whether the role is manager or admin; most create
// and delete paths are limited to these two.
func (c Context) CanManage() bool {
	return c.Role == user.RoleManager || c.Role == user.RoleAdmin
}

type contextKey struct{}

// Inject stores the authorization context in a request context.
func Inject(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext extracts the authorization context placed by the auth
// middleware. The boolean is false for unauthenticated requests.
func FromContext(ctx context.Context) (Context, bool) {
	ac, ok := ctx.Value(contextKey{}).(Context)
	return ac, ok
}
