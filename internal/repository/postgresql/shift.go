package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

const shiftColumns = `
	s.id, s.name, s.branch_id, s.start_date, s.end_date, s.theme, s.color,
	s.created_at, s.updated_at, b.name, b.city_id
`

const shiftJoins = `
	FROM shifts s
	LEFT JOIN branches b ON s.branch_id = b.id
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.Name, &s.BranchID, &s.StartDate, &s.EndDate, &s.Theme, &s.Color,
		&s.CreatedAt, &s.UpdatedAt, &s.BranchName, &s.CityID,
	)
	return s, err
}

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (name, branch_id, start_date, end_date, theme, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.Name, s.BranchID, s.StartDate, s.EndDate, s.Theme, s.Color,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + shiftJoins + ` WHERE s.id = $1`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, scope authz.Scope) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + shiftJoins + `
		WHERE ` + scopeFilter("b.city_id", "s.branch_id") + `
		ORDER BY s.start_date DESC
	`

	rows, err := q.Query(ctx, query, scope.CityID, scope.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

// ListOverlapping implements shift.ShiftRepository.
func (r *shiftRepository) ListOverlapping(ctx context.Context, branchID string, from, to time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + shiftJoins + `
		WHERE s.branch_id = $1
		  AND s.start_date <= $3
		  AND s.end_date >= $2
		ORDER BY s.start_date
	`

	rows, err := q.Query(ctx, query, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping shifts: %w", err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

func collectShifts(rows pgx.Rows) ([]shift.Shift, error) {
	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET name = $2, branch_id = $3, start_date = $4, end_date = $5,
		    theme = $6, color = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID, s.Name, s.BranchID, s.StartDate, s.EndDate, s.Theme, s.Color)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

type squadRepository struct {
	db *database.DB
}

func NewSquadRepository(db *database.DB) shift.SquadRepository {
	return &squadRepository{db: db}
}

const squadColumns = `
	sq.id, sq.name, sq.shift_id, sq.leader_id, e.full_name,
	(SELECT COUNT(*) FROM students st WHERE st.squad_id = sq.id)
`

const squadJoins = `
	FROM squads sq
	LEFT JOIN employees e ON sq.leader_id = e.id
`

func scanSquad(row pgx.Row) (shift.Squad, error) {
	var s shift.Squad
	err := row.Scan(&s.ID, &s.Name, &s.ShiftID, &s.LeaderID, &s.LeaderName, &s.StudentCount)
	return s, err
}

// Create implements shift.SquadRepository.
func (r *squadRepository) Create(ctx context.Context, s shift.Squad) (shift.Squad, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO squads (name, shift_id, leader_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := q.QueryRow(ctx, query, s.Name, s.ShiftID, s.LeaderID).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return shift.Squad{}, shift.ErrSquadNameTaken
		}
		return shift.Squad{}, fmt.Errorf("failed to create squad: %w", err)
	}

	return s, nil
}

// GetByID implements shift.SquadRepository.
func (r *squadRepository) GetByID(ctx context.Context, id string) (shift.Squad, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + squadColumns + squadJoins + ` WHERE sq.id = $1`

	s, err := scanSquad(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Squad{}, shift.ErrSquadNotFound
		}
		return shift.Squad{}, fmt.Errorf("failed to get squad: %w", err)
	}

	return s, nil
}

// ListByShift implements shift.SquadRepository.
func (r *squadRepository) ListByShift(ctx context.Context, shiftID string) ([]shift.Squad, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + squadColumns + squadJoins + ` WHERE sq.shift_id = $1 ORDER BY sq.name`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads: %w", err)
	}
	defer rows.Close()

	return collectSquads(rows)
}

// List implements shift.SquadRepository.
func (r *squadRepository) List(ctx context.Context, scope authz.Scope) ([]shift.Squad, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + squadColumns + squadJoins + `
		JOIN shifts sh ON sq.shift_id = sh.id
		LEFT JOIN branches b ON sh.branch_id = b.id
		WHERE ` + scopeFilter("b.city_id", "sh.branch_id") + `
		ORDER BY sq.name
	`

	rows, err := q.Query(ctx, query, scope.CityID, scope.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads: %w", err)
	}
	defer rows.Close()

	return collectSquads(rows)
}

func collectSquads(rows pgx.Rows) ([]shift.Squad, error) {
	var squads []shift.Squad
	for rows.Next() {
		s, err := scanSquad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan squad: %w", err)
		}
		squads = append(squads, s)
	}
	return squads, rows.Err()
}

// Update implements shift.SquadRepository.
func (r *squadRepository) Update(ctx context.Context, s shift.Squad) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE squads SET name = $2, leader_id = $3 WHERE id = $1`,
		s.ID, s.Name, s.LeaderID)
	if err != nil {
		if isUniqueViolation(err) {
			return shift.ErrSquadNameTaken
		}
		return fmt.Errorf("failed to update squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrSquadNotFound
	}

	return nil
}

// Delete implements shift.SquadRepository.
func (r *squadRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM squads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrSquadNotFound
	}

	return nil
}
