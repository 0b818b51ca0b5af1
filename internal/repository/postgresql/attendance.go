package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

// attendanceRepository serves both the employee and the student ledger;
// the table and its person column are fixed at construction.
type attendanceRepository struct {
	db        *database.DB
	table     string
	personCol string
}

func NewEmployeeAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db, table: "employee_attendances", personCol: "employee_id"}
}

func NewStudentAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db, table: "student_attendances", personCol: "student_id"}
}

// Toggle implements attendance.Repository. The upsert advances the
// cycle exactly once per call even under concurrent requests; a fresh
// (person, date) row lands on present.
func (r *attendanceRepository) Toggle(ctx context.Context, personID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, date, status)
		VALUES ($1, $2, 'present')
		ON CONFLICT (%s, date) DO UPDATE
		SET status = CASE %s.status
			WHEN 'absent' THEN 'present'
			WHEN 'present' THEN 'excused'
			ELSE 'absent'
		END
		RETURNING id, status
	`, r.table, r.personCol, r.personCol, r.table)

	rec := attendance.Record{PersonID: personID, Date: date}
	err := q.QueryRow(ctx, query, personID, date).Scan(&rec.ID, &rec.Status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return attendance.Record{}, attendance.ErrPersonNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to toggle attendance: %w", err)
	}

	return rec, nil
}

// Seed implements attendance.Repository.
func (r *attendanceRepository) Seed(ctx context.Context, personID string, from, to time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, date, status)
		SELECT $1, d::date, 'absent'
		FROM generate_series($2::date, $3::date, '1 day') d
		ON CONFLICT (%s, date) DO NOTHING
	`, r.table, r.personCol, r.personCol)

	if _, err := q.Exec(ctx, query, personID, from, to); err != nil {
		if isForeignKeyViolation(err) {
			return attendance.ErrPersonNotFound
		}
		return fmt.Errorf("failed to seed attendance: %w", err)
	}

	return nil
}

// CountPresent implements attendance.Repository.
func (r *attendanceRepository) CountPresent(ctx context.Context, personID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE %s = $1 AND status = 'present' AND date BETWEEN $2 AND $3
	`, r.table, r.personCol)

	var count int
	if err := q.QueryRow(ctx, query, personID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count present days: %w", err)
	}

	return count, nil
}

// ListRange implements attendance.Repository.
func (r *attendanceRepository) ListRange(ctx context.Context, personID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id, %s, date, status FROM %s
		WHERE %s = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`, r.personCol, r.table, r.personCol)

	rows, err := q.Query(ctx, query, personID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListAllRange implements attendance.Repository.
func (r *attendanceRepository) ListAllRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id, %s, date, status FROM %s
		WHERE date BETWEEN $1 AND $2
		ORDER BY %s, date
	`, r.personCol, r.table, r.personCol)

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.ID, &rec.PersonID, &rec.Date, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteByPerson implements attendance.Repository.
func (r *attendanceRepository) DeleteByPerson(ctx context.Context, personID string) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.table, r.personCol)
	if _, err := q.Exec(ctx, query, personID); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	return nil
}
