package dashboard

import (
	"context"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/stats"
)

type Service struct {
	statsRepo stats.Repository
}

func NewService(statsRepo stats.Repository) *Service {
	return &Service{statsRepo: statsRepo}
}

// GetNetworkStatistics returns the dashboard numbers narrowed to the
// acting user's scope.
func (s *Service) GetNetworkStatistics(ctx context.Context, ac authz.Context) (stats.NetworkStatistics, error) {
	return s.statsRepo.GetNetworkStatistics(ctx, ac.Scope())
}
