package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jget-crm/backoffice/internal/domain/ticket"
	"github.com/jget-crm/backoffice/internal/pkg/database"
)

const ticketColumns = `
	t.id, t.user_id, t.subject, t.description, t.status, t.admin_notes,
	t.screenshot_url, t.has_unread_admin_response, t.created_at, t.updated_at,
	u.username
`

const ticketJoins = `
	FROM tickets t
	LEFT JOIN users u ON t.user_id = u.id
`

func scanTicket(row pgx.Row) (ticket.Ticket, error) {
	var t ticket.Ticket
	err := row.Scan(
		&t.ID, &t.UserID, &t.Subject, &t.Description, &t.Status, &t.AdminNotes,
		&t.ScreenshotURL, &t.HasUnreadAdminResponse, &t.CreatedAt, &t.UpdatedAt,
		&t.Username,
	)
	return t, err
}

type ticketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) ticket.TicketRepository {
	return &ticketRepository{db: db}
}

// Create implements ticket.TicketRepository.
func (r *ticketRepository) Create(ctx context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tickets (user_id, subject, description, status, screenshot_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.UserID, t.Subject, t.Description, t.Status, t.ScreenshotURL,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("failed to create ticket: %w", err)
	}

	return t, nil
}

// GetByID implements ticket.TicketRepository.
func (r *ticketRepository) GetByID(ctx context.Context, id string) (ticket.Ticket, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ticketColumns + ticketJoins + ` WHERE t.id = $1`

	t, err := scanTicket(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ticket.Ticket{}, ticket.ErrTicketNotFound
		}
		return ticket.Ticket{}, fmt.Errorf("failed to get ticket: %w", err)
	}

	return t, nil
}

// List implements ticket.TicketRepository.
func (r *ticketRepository) List(ctx context.Context) ([]ticket.Ticket, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ticketColumns + ticketJoins + ` ORDER BY t.created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

// ListByUser implements ticket.TicketRepository.
func (r *ticketRepository) ListByUser(ctx context.Context, userID string) ([]ticket.Ticket, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ticketColumns + ticketJoins + ` WHERE t.user_id = $1 ORDER BY t.created_at DESC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tickets: %w", err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func collectTickets(rows pgx.Rows) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Update implements ticket.TicketRepository.
func (r *ticketRepository) Update(ctx context.Context, t ticket.Ticket) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tickets
		SET subject = $2, description = $3, status = $4, admin_notes = $5,
		    screenshot_url = $6, has_unread_admin_response = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		t.ID, t.Subject, t.Description, t.Status, t.AdminNotes,
		t.ScreenshotURL, t.HasUnreadAdminResponse)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ticket.ErrTicketNotFound
	}

	return nil
}

// MarkResponsesRead implements ticket.TicketRepository.
func (r *ticketRepository) MarkResponsesRead(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE tickets
		SET has_unread_admin_response = false, updated_at = NOW()
		WHERE user_id = $1 AND has_unread_admin_response = true
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark responses read: %w", err)
	}

	return nil
}

// CountUnread implements ticket.TicketRepository.
func (r *ticketRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE user_id = $1 AND has_unread_admin_response = true`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread tickets: %w", err)
	}

	return count, nil
}

// Delete implements ticket.TicketRepository.
func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ticket.ErrTicketNotFound
	}

	return nil
}
