package postgresql

import (
	"context"
	"fmt"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/stats"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

type statsRepository struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) stats.Repository {
	return &statsRepository{db: db}
}

// GetNetworkStatistics implements stats.Repository. Subqueries share
// the two scope parameters; a branch filter narrows through shifts.
func (r *statsRepository) GetNetworkStatistics(ctx context.Context, scope authz.Scope) (stats.NetworkStatistics, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM cities),
			(SELECT COUNT(*) FROM branches b
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR b.id = $2)),
			(SELECT COUNT(*) FROM shifts s
				JOIN branches b ON s.branch_id = b.id
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR s.branch_id = $2)),
			(SELECT COUNT(*) FROM shifts s
				JOIN branches b ON s.branch_id = b.id
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR s.branch_id = $2)
				  AND CURRENT_DATE BETWEEN s.start_date AND s.end_date),
			(SELECT COUNT(*) FROM employees e
				LEFT JOIN branches b ON e.branch_id = b.id
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR e.branch_id IS NULL OR e.branch_id = $2)),
			(SELECT COUNT(*) FROM students st
				JOIN shifts s ON st.shift_id = s.id
				JOIN branches b ON s.branch_id = b.id
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR s.branch_id = $2)),
			(SELECT COUNT(*) FROM leads),
			COALESCE((SELECT SUM(p.amount) FROM payments p
				JOIN shifts s ON p.shift_id = s.id
				JOIN branches b ON s.branch_id = b.id
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR s.branch_id = $2)), 0),
			COALESCE((SELECT SUM(e.amount) FROM expenses e
				JOIN shifts s ON e.shift_id = s.id
				JOIN branches b ON s.branch_id = b.id
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR s.branch_id = $2)), 0),
			COALESCE((SELECT SUM(sal.total_payment) FROM salaries sal
				JOIN shifts s ON sal.shift_id = s.id
				JOIN branches b ON s.branch_id = b.id
				WHERE ($1::uuid IS NULL OR b.city_id IS NULL OR b.city_id = $1)
				  AND ($2::uuid IS NULL OR s.branch_id = $2)), 0)
	`

	var ns stats.NetworkStatistics
	err := q.QueryRow(ctx, query, scope.CityID, scope.BranchID).Scan(
		&ns.CityCount,
		&ns.BranchCount,
		&ns.ShiftCount,
		&ns.ActiveShifts,
		&ns.EmployeeCount,
		&ns.StudentCount,
		&ns.LeadCount,
		&ns.TotalIncome,
		&ns.TotalExpenses,
		&ns.TotalSalaries,
	)
	if err != nil {
		return stats.NetworkStatistics{}, fmt.Errorf("failed to get network statistics: %w", err)
	}

	return ns, nil
}
