package ticket

import "context"

type TicketRepository interface {
	Create(ctx context.Context, t Ticket) (Ticket, error)
	GetByID(ctx context.Context, id string) (Ticket, error)
	List(ctx context.Context) ([]Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]Ticket, error)
	Update(ctx context.Context, t Ticket) error
	// MarkResponsesRead clears the unread flag on every ticket the
	// user owns; called when they open "my tickets".
	MarkResponsesRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error
}
