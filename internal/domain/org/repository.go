package org

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/authz"
)

type CityRepository interface {
	Create(ctx context.Context, c City) (City, error)
	GetByID(ctx context.Context, id string) (City, error)
	List(ctx context.Context) ([]City, error)
	Update(ctx context.Context, c City) error
	Delete(ctx context.Context, id string) error
	CountBranches(ctx context.Context, cityID string) (int, error)
}

type BranchRepository interface {
	Create(ctx context.Context, b Branch) (Branch, error)
	GetByID(ctx context.Context, id string) (Branch, error)
	// List applies the acting user's row filter: admins see the
	// branches of their city, heads their own branch.
	List(ctx context.Context, scope authz.Scope) ([]Branch, error)
	Update(ctx context.Context, b Branch) error
	Delete(ctx context.Context, id string) error
	CountShifts(ctx context.Context, branchID string) (int, error)
	GetStatistics(ctx context.Context, branchID string) (BranchStatistics, error)
}
