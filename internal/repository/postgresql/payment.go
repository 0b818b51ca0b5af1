package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) student.PaymentRepository {
	return &paymentRepository{db: db}
}

// Create implements student.PaymentRepository.
func (r *paymentRepository) Create(ctx context.Context, p student.Payment) (student.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payments (student_id, shift_id, amount, date, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := q.QueryRow(ctx, query, p.StudentID, p.ShiftID, p.Amount, p.Date, p.Comment).Scan(&p.ID)
	if err != nil {
		return student.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return p, nil
}

// GetByID implements student.PaymentRepository.
func (r *paymentRepository) GetByID(ctx context.Context, id string) (student.Payment, error) {
	q := GetQuerier(ctx, r.db)

	var p student.Payment
	err := q.QueryRow(ctx,
		`SELECT id, student_id, shift_id, amount, date, comment FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.StudentID, &p.ShiftID, &p.Amount, &p.Date, &p.Comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return student.Payment{}, student.ErrPaymentNotFound
		}
		return student.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}

	return p, nil
}

// ListByStudent implements student.PaymentRepository.
func (r *paymentRepository) ListByStudent(ctx context.Context, studentID string, shiftID *string) ([]student.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, student_id, shift_id, amount, date, comment
		FROM payments
		WHERE student_id = $1 AND ($2::uuid IS NULL OR shift_id = $2)
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, studentID, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []student.Payment
	for rows.Next() {
		var p student.Payment
		if err := rows.Scan(&p.ID, &p.StudentID, &p.ShiftID, &p.Amount, &p.Date, &p.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// GetForShift implements student.PaymentRepository.
func (r *paymentRepository) GetForShift(ctx context.Context, studentID, shiftID string) (*student.Payment, error) {
	q := GetQuerier(ctx, r.db)

	var p student.Payment
	err := q.QueryRow(ctx, `
		SELECT id, student_id, shift_id, amount, date, comment
		FROM payments
		WHERE student_id = $1 AND shift_id = $2
		ORDER BY date
		LIMIT 1
	`, studentID, shiftID).Scan(&p.ID, &p.StudentID, &p.ShiftID, &p.Amount, &p.Date, &p.Comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift payment: %w", err)
	}

	return &p, nil
}

// TotalForShift implements student.PaymentRepository.
func (r *paymentRepository) TotalForShift(ctx context.Context, studentID, shiftID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var total decimal.Decimal
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE student_id = $1 AND shift_id = $2`,
		studentID, shiftID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total payments: %w", err)
	}

	return total, nil
}

// TotalByShift implements student.PaymentRepository.
func (r *paymentRepository) TotalByShift(ctx context.Context, shiftID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var total decimal.Decimal
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE shift_id = $1`, shiftID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total shift payments: %w", err)
	}

	return total, nil
}

// Update implements student.PaymentRepository.
func (r *paymentRepository) Update(ctx context.Context, p student.Payment) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE payments SET amount = $2, date = $3, comment = $4 WHERE id = $1`,
		p.ID, p.Amount, p.Date, p.Comment)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrPaymentNotFound
	}

	return nil
}

// Delete implements student.PaymentRepository.
func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrPaymentNotFound
	}

	return nil
}

// DeleteByStudentAndShift implements student.PaymentRepository. Returns
// the sum removed so the caller can refund the balance ledger.
func (r *paymentRepository) DeleteByStudentAndShift(ctx context.Context, studentID, shiftID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH removed AS (
			DELETE FROM payments
			WHERE student_id = $1 AND shift_id = $2
			RETURNING amount
		)
		SELECT COALESCE(SUM(amount), 0) FROM removed
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, studentID, shiftID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to delete shift payments: %w", err)
	}

	return total, nil
}

// DeleteByStudent implements student.PaymentRepository.
func (r *paymentRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payments WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("failed to delete student payments: %w", err)
	}

	return nil
}

type balanceRepository struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) student.BalanceRepository {
	return &balanceRepository{db: db}
}

// Create implements student.BalanceRepository.
func (r *balanceRepository) Create(ctx context.Context, e student.BalanceEntry) (student.BalanceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO balance_entries (student_id, amount, operation, date, comment, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		e.StudentID, e.Amount, e.Operation, e.Date, e.Comment, e.CreatedBy,
	).Scan(&e.ID)
	if err != nil {
		return student.BalanceEntry{}, fmt.Errorf("failed to create balance entry: %w", err)
	}

	return e, nil
}

// ListByStudent implements student.BalanceRepository.
func (r *balanceRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]student.BalanceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT be.id, be.student_id, be.amount, be.operation, be.date, be.comment,
		       be.created_by, u.full_name
		FROM balance_entries be
		LEFT JOIN users u ON be.created_by = u.id
		WHERE be.student_id = $1
		ORDER BY be.date DESC
	`
	args := []any{studentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance entries: %w", err)
	}
	defer rows.Close()

	var entries []student.BalanceEntry
	for rows.Next() {
		var e student.BalanceEntry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Amount, &e.Operation, &e.Date,
			&e.Comment, &e.CreatedBy, &e.CreatedByName); err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CurrentBalance implements student.BalanceRepository. The ledger is
// folded in SQL; nothing is cached.
func (r *balanceRepository) CurrentBalance(ctx context.Context, studentID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(
			CASE operation WHEN 'payment' THEN -amount ELSE amount END
		), 0)
		FROM balance_entries
		WHERE student_id = $1
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, studentID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}

	return total, nil
}
