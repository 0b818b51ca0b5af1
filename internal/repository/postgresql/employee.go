package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

const employeeColumns = `
	e.id, e.full_name, e.position_id, e.branch_id, e.shift_id,
	e.rate_per_day, e.is_leader, e.created_at, e.updated_at,
	p.name, b.name, s.name
`

const employeeJoins = `
	FROM employees e
	LEFT JOIN positions p ON e.position_id = p.id
	LEFT JOIN branches b ON e.branch_id = b.id
	LEFT JOIN shifts s ON e.shift_id = s.id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.PositionID, &e.BranchID, &e.ShiftID,
		&e.RatePerDay, &e.IsLeader, &e.CreatedAt, &e.UpdatedAt,
		&e.PositionName, &e.BranchName, &e.ShiftName,
	)
	return e, err
}

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (full_name, position_id, branch_id, shift_id, rate_per_day, is_leader)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.FullName, e.PositionID, e.BranchID, e.ShiftID, e.RatePerDay, e.IsLeader,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + employeeJoins + ` WHERE e.id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// List implements employee.EmployeeRepository. Employees with neither a
// branch nor a shift have no scope attribute and stay visible to
// everyone.
func (r *employeeRepository) List(ctx context.Context, scope authz.Scope, branchID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + employeeJoins + `
		LEFT JOIN branches shb ON s.branch_id = shb.id
		WHERE ` + scopeFilter("COALESCE(b.city_id, shb.city_id)", "COALESCE(e.branch_id, s.branch_id)") + `
		  AND ($3::uuid IS NULL OR e.branch_id = $3)
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, scope.CityID, scope.BranchID, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListByShift implements employee.EmployeeRepository.
func (r *employeeRepository) ListByShift(ctx context.Context, shiftID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + employeeJoins + ` WHERE e.shift_id = $1 ORDER BY e.full_name`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListAvailableForShift implements employee.EmployeeRepository.
func (r *employeeRepository) ListAvailableForShift(ctx context.Context, shiftID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + employeeJoins + `
		WHERE e.shift_id IS NULL OR e.shift_id <> $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $2, position_id = $3, branch_id = $4, shift_id = $5,
		    rate_per_day = $6, is_leader = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		e.ID, e.FullName, e.PositionID, e.BranchID, e.ShiftID, e.RatePerDay, e.IsLeader)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// SetShift implements employee.EmployeeRepository.
func (r *employeeRepository) SetShift(ctx context.Context, employeeID string, shiftID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE employees SET shift_id = $2, updated_at = NOW() WHERE id = $1`,
		employeeID, shiftID)
	if err != nil {
		return fmt.Errorf("failed to set employee shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// ResolveScope implements employee.EmployeeRepository.
func (r *employeeRepository) ResolveScope(ctx context.Context, id string) (*string, *string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(e.branch_id, s.branch_id), COALESCE(b.city_id, shb.city_id)
		FROM employees e
		LEFT JOIN shifts s ON e.shift_id = s.id
		LEFT JOIN branches b ON e.branch_id = b.id
		LEFT JOIN branches shb ON s.branch_id = shb.id
		WHERE e.id = $1
	`

	var branchID, cityID *string
	err := q.QueryRow(ctx, query, id).Scan(&branchID, &cityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, employee.ErrEmployeeNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve employee scope: %w", err)
	}

	return branchID, cityID, nil
}

type positionRepository struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) employee.PositionRepository {
	return &positionRepository{db: db}
}

// Create implements employee.PositionRepository.
func (r *positionRepository) Create(ctx context.Context, p employee.Position) (employee.Position, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx,
		`INSERT INTO positions (name, responsibilities) VALUES ($1, $2) RETURNING id`,
		p.Name, p.Responsibilities,
	).Scan(&p.ID)
	if err != nil {
		return employee.Position{}, fmt.Errorf("failed to create position: %w", err)
	}

	return p, nil
}

// GetByID implements employee.PositionRepository.
func (r *positionRepository) GetByID(ctx context.Context, id string) (employee.Position, error) {
	q := GetQuerier(ctx, r.db)

	var p employee.Position
	err := q.QueryRow(ctx,
		`SELECT id, name, responsibilities FROM positions WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Responsibilities)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Position{}, employee.ErrPositionNotFound
		}
		return employee.Position{}, fmt.Errorf("failed to get position: %w", err)
	}

	return p, nil
}

// List implements employee.PositionRepository.
func (r *positionRepository) List(ctx context.Context) ([]employee.Position, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, responsibilities FROM positions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []employee.Position
	for rows.Next() {
		var p employee.Position
		if err := rows.Scan(&p.ID, &p.Name, &p.Responsibilities); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// Update implements employee.PositionRepository.
func (r *positionRepository) Update(ctx context.Context, p employee.Position) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE positions SET name = $2, responsibilities = $3 WHERE id = $1`,
		p.ID, p.Name, p.Responsibilities)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrPositionNotFound
	}

	return nil
}

// Delete implements employee.PositionRepository.
func (r *positionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrPositionNotFound
	}

	return nil
}

// CountEmployees implements employee.PositionRepository.
func (r *positionRepository) CountEmployees(ctx context.Context, positionID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE position_id = $1`, positionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count position employees: %w", err)
	}

	return count, nil
}
