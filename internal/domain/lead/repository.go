package lead

import (
	"context"
	"time"
)

type LeadRepository interface {
	Create(ctx context.Context, l Lead) (Lead, error)
	GetByID(ctx context.Context, id string) (Lead, error)
	List(ctx context.Context) ([]Lead, error)
	// ListOverdueCallbacks returns leads whose callback time passed
	// before the cutoff and whose status is still undecided.
	ListOverdueCallbacks(ctx context.Context, cutoff time.Time) ([]Lead, error)
	Update(ctx context.Context, l Lead) error
	Delete(ctx context.Context, id string) error
}
