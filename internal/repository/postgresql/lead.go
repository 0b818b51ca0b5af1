package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/lead"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

const leadColumns = `
	id, status, source, added_date, phone, parent_name, interest, comment,
	callback_at, created_at, updated_at
`

func scanLead(row pgx.Row) (lead.Lead, error) {
	var l lead.Lead
	err := row.Scan(
		&l.ID, &l.Status, &l.Source, &l.AddedDate, &l.Phone, &l.ParentName,
		&l.Interest, &l.Comment, &l.CallbackAt, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

type leadRepository struct {
	db *database.DB
}

func NewLeadRepository(db *database.DB) lead.LeadRepository {
	return &leadRepository{db: db}
}

// Create implements lead.LeadRepository.
func (r *leadRepository) Create(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leads (status, source, added_date, phone, parent_name,
			interest, comment, callback_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.Status, l.Source, l.AddedDate, l.Phone, l.ParentName,
		l.Interest, l.Comment, l.CallbackAt,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return lead.Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}

	return l, nil
}

// GetByID implements lead.LeadRepository.
func (r *leadRepository) GetByID(ctx context.Context, id string) (lead.Lead, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	l, err := scanLead(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lead.Lead{}, lead.ErrLeadNotFound
		}
		return lead.Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}

	return l, nil
}

// List implements lead.LeadRepository.
func (r *leadRepository) List(ctx context.Context) ([]lead.Lead, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY added_date DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

// ListOverdueCallbacks implements lead.LeadRepository.
func (r *leadRepository) ListOverdueCallbacks(ctx context.Context, cutoff time.Time) ([]lead.Lead, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE callback_at IS NOT NULL
		  AND callback_at < $1
		  AND status IN ('not_set', 'no_answer')
		ORDER BY callback_at
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue callbacks: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

func collectLeads(rows pgx.Rows) ([]lead.Lead, error) {
	var leads []lead.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Update implements lead.LeadRepository.
func (r *leadRepository) Update(ctx context.Context, l lead.Lead) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leads
		SET status = $2, source = $3, phone = $4, parent_name = $5,
		    interest = $6, comment = $7, callback_at = $8, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		l.ID, l.Status, l.Source, l.Phone, l.ParentName,
		l.Interest, l.Comment, l.CallbackAt)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lead.ErrLeadNotFound
	}

	return nil
}

// Delete implements lead.LeadRepository.
func (r *leadRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lead.ErrLeadNotFound
	}

	return nil
}
