package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

const studentColumns = `
	st.id, st.full_name, st.phone, st.parent_name, st.shift_id, st.squad_id,
	st.attendance_type, st.default_price, st.individual_price, st.price_comment,
	st.created_at, st.updated_at, sh.name, b.name, sq.name
`

const studentJoins = `
	FROM students st
	LEFT JOIN shifts sh ON st.shift_id = sh.id
	LEFT JOIN branches b ON sh.branch_id = b.id
	LEFT JOIN squads sq ON st.squad_id = sq.id
`

func scanStudent(row pgx.Row) (student.Student, error) {
	var s student.Student
	err := row.Scan(
		&s.ID, &s.FullName, &s.Phone, &s.ParentName, &s.ShiftID, &s.SquadID,
		&s.AttendanceType, &s.DefaultPrice, &s.IndividualPrice, &s.PriceComment,
		&s.CreatedAt, &s.UpdatedAt, &s.ShiftName, &s.BranchName, &s.SquadName,
	)
	return s, err
}

type studentRepository struct {
	db *database.DB
}

func NewStudentRepository(db *database.DB) student.StudentRepository {
	return &studentRepository{db: db}
}

// Create implements student.StudentRepository.
func (r *studentRepository) Create(ctx context.Context, s student.Student) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO students (full_name, phone, parent_name, shift_id, squad_id,
			attendance_type, default_price, individual_price, price_comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.FullName, s.Phone, s.ParentName, s.ShiftID, s.SquadID,
		s.AttendanceType, s.DefaultPrice, s.IndividualPrice, s.PriceComment,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return student.Student{}, fmt.Errorf("failed to create student: %w", err)
	}

	return s, nil
}

// GetByID implements student.StudentRepository.
func (r *studentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + studentColumns + studentJoins + ` WHERE st.id = $1`

	s, err := scanStudent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return student.Student{}, student.ErrStudentNotFound
		}
		return student.Student{}, fmt.Errorf("failed to get student: %w", err)
	}

	return s, nil
}

// List implements student.StudentRepository. Students reach a scope
// only through their shift; unassigned students stay visible.
func (r *studentRepository) List(ctx context.Context, scope authz.Scope) ([]student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + studentColumns + studentJoins + `
		WHERE ` + scopeFilter("b.city_id", "sh.branch_id") + `
		ORDER BY st.full_name
	`

	rows, err := q.Query(ctx, query, scope.CityID, scope.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}

// ListByShift implements student.StudentRepository.
func (r *studentRepository) ListByShift(ctx context.Context, shiftID string) ([]student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + studentColumns + studentJoins + ` WHERE st.shift_id = $1 ORDER BY st.full_name`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift students: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}

// ListAvailableForShift implements student.StudentRepository.
func (r *studentRepository) ListAvailableForShift(ctx context.Context, shiftID string) ([]student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + studentColumns + studentJoins + `
		WHERE st.shift_id IS NULL OR st.shift_id <> $1
		ORDER BY st.full_name
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available students: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}

func collectStudents(rows pgx.Rows) ([]student.Student, error) {
	var students []student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Update implements student.StudentRepository.
func (r *studentRepository) Update(ctx context.Context, s student.Student) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE students
		SET full_name = $2, phone = $3, parent_name = $4, shift_id = $5,
		    squad_id = $6, attendance_type = $7, default_price = $8,
		    individual_price = $9, price_comment = $10, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID, s.FullName, s.Phone, s.ParentName, s.ShiftID, s.SquadID,
		s.AttendanceType, s.DefaultPrice, s.IndividualPrice, s.PriceComment)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// SetShift implements student.StudentRepository. Clearing the shift
// also clears the squad, a squad belongs to one shift.
func (r *studentRepository) SetShift(ctx context.Context, studentID string, shiftID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE students SET shift_id = $2, squad_id = CASE WHEN $2::uuid IS NULL THEN NULL ELSE squad_id END, updated_at = NOW() WHERE id = $1`,
		studentID, shiftID)
	if err != nil {
		return fmt.Errorf("failed to set student shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// SetSquad implements student.StudentRepository.
func (r *studentRepository) SetSquad(ctx context.Context, studentID string, squadID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE students SET squad_id = $2, updated_at = NOW() WHERE id = $1`,
		studentID, squadID)
	if err != nil {
		return fmt.Errorf("failed to set student squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// Delete implements student.StudentRepository.
func (r *studentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// ResolveScope implements student.StudentRepository.
func (r *studentRepository) ResolveScope(ctx context.Context, id string) (*string, *string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT sh.branch_id, b.city_id
		FROM students st
		LEFT JOIN shifts sh ON st.shift_id = sh.id
		LEFT JOIN branches b ON sh.branch_id = b.id
		WHERE st.id = $1
	`

	var branchID, cityID *string
	err := q.QueryRow(ctx, query, id).Scan(&branchID, &cityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, student.ErrStudentNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve student scope: %w", err)
	}

	return branchID, cityID, nil
}
