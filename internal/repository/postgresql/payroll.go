package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/payroll"
	"github.com/jget-crm/backoffice/internal/pkg/database"
	"github.com/shopspring/decimal"
)

const salaryColumns = `
	s.id, s.employee_id, s.shift_id, s.payment_type, s.daily_rate,
	s.percent_rate, s.total_payment, s.is_paid, s.created_at, s.updated_at,
	e.full_name, sh.name
`

const salaryJoins = `
	FROM salaries s
	LEFT JOIN employees e ON s.employee_id = e.id
	LEFT JOIN shifts sh ON s.shift_id = sh.id
`

func scanSalary(row pgx.Row) (payroll.Salary, error) {
	var s payroll.Salary
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.ShiftID, &s.PaymentType, &s.DailyRate,
		&s.PercentRate, &s.TotalPayment, &s.IsPaid, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.ShiftName,
	)
	return s, err
}

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) payroll.SalaryRepository {
	return &salaryRepository{db: db}
}

// Create implements payroll.SalaryRepository.
func (r *salaryRepository) Create(ctx context.Context, s payroll.Salary) (payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salaries (employee_id, shift_id, payment_type, daily_rate,
			percent_rate, total_payment, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.EmployeeID, s.ShiftID, s.PaymentType, s.DailyRate,
		s.PercentRate, s.TotalPayment, s.IsPaid,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Salary{}, payroll.ErrSalaryExists
		}
		return payroll.Salary{}, fmt.Errorf("failed to create salary: %w", err)
	}

	return s, nil
}

// GetByID implements payroll.SalaryRepository.
func (r *salaryRepository) GetByID(ctx context.Context, id string) (payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + salaryJoins + ` WHERE s.id = $1`

	s, err := scanSalary(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Salary{}, payroll.ErrSalaryNotFound
		}
		return payroll.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}

	return s, nil
}

// List implements payroll.SalaryRepository.
func (r *salaryRepository) List(ctx context.Context, scope authz.Scope, unpaidOnly bool) ([]payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + salaryJoins + `
		LEFT JOIN branches b ON sh.branch_id = b.id
		WHERE ` + scopeFilter("b.city_id", "sh.branch_id") + `
		  AND ($3 = false OR s.is_paid = false)
		ORDER BY s.created_at DESC
	`

	rows, err := q.Query(ctx, query, scope.CityID, scope.BranchID, unpaidOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries: %w", err)
	}
	defer rows.Close()

	return collectSalaries(rows)
}

// ListByEmployee implements payroll.SalaryRepository.
func (r *salaryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + salaryJoins + ` WHERE s.employee_id = $1 ORDER BY s.created_at DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee salaries: %w", err)
	}
	defer rows.Close()

	return collectSalaries(rows)
}

func collectSalaries(rows pgx.Rows) ([]payroll.Salary, error) {
	var salaries []payroll.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	return salaries, rows.Err()
}

// Update implements payroll.SalaryRepository.
func (r *salaryRepository) Update(ctx context.Context, s payroll.Salary) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salaries
		SET payment_type = $2, daily_rate = $3, percent_rate = $4,
		    total_payment = $5, is_paid = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID, s.PaymentType, s.DailyRate, s.PercentRate, s.TotalPayment, s.IsPaid)
	if err != nil {
		return fmt.Errorf("failed to update salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSalaryNotFound
	}

	return nil
}

// Delete implements payroll.SalaryRepository.
func (r *salaryRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSalaryNotFound
	}

	return nil
}

type expenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) payroll.ExpenseRepository {
	return &expenseRepository{db: db}
}

const expenseColumns = `e.id, e.shift_id, e.category, e.comment, e.amount, sh.name`

const expenseJoins = `
	FROM expenses e
	LEFT JOIN shifts sh ON e.shift_id = sh.id
`

func scanExpense(row pgx.Row) (payroll.Expense, error) {
	var e payroll.Expense
	err := row.Scan(&e.ID, &e.ShiftID, &e.Category, &e.Comment, &e.Amount, &e.ShiftName)
	return e, err
}

// Create implements payroll.ExpenseRepository.
func (r *expenseRepository) Create(ctx context.Context, e payroll.Expense) (payroll.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expenses (shift_id, category, comment, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.QueryRow(ctx, query, e.ShiftID, e.Category, e.Comment, e.Amount).Scan(&e.ID)
	if err != nil {
		return payroll.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}

	return e, nil
}

// GetByID implements payroll.ExpenseRepository.
func (r *expenseRepository) GetByID(ctx context.Context, id string) (payroll.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + expenseColumns + expenseJoins + ` WHERE e.id = $1`

	e, err := scanExpense(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Expense{}, payroll.ErrExpenseNotFound
		}
		return payroll.Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// List implements payroll.ExpenseRepository.
func (r *expenseRepository) List(ctx context.Context, scope authz.Scope) ([]payroll.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + expenseColumns + expenseJoins + `
		LEFT JOIN branches b ON sh.branch_id = b.id
		WHERE ` + scopeFilter("b.city_id", "sh.branch_id") + `
		ORDER BY e.id DESC
	`

	rows, err := q.Query(ctx, query, scope.CityID, scope.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// ListByShift implements payroll.ExpenseRepository.
func (r *expenseRepository) ListByShift(ctx context.Context, shiftID string) ([]payroll.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + expenseColumns + expenseJoins + ` WHERE e.shift_id = $1 ORDER BY e.id DESC`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]payroll.Expense, error) {
	var expenses []payroll.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// TotalByShift implements payroll.ExpenseRepository.
func (r *expenseRepository) TotalByShift(ctx context.Context, shiftID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var total decimal.Decimal
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE shift_id = $1`, shiftID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total shift expenses: %w", err)
	}

	return total, nil
}

// Update implements payroll.ExpenseRepository.
func (r *expenseRepository) Update(ctx context.Context, e payroll.Expense) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE expenses SET category = $2, comment = $3, amount = $4 WHERE id = $1`,
		e.ID, e.Category, e.Comment, e.Amount)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrExpenseNotFound
	}

	return nil
}

// Delete implements payroll.ExpenseRepository.
func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrExpenseNotFound
	}

	return nil
}
