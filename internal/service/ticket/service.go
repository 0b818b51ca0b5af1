package ticket

import (
	"context"
	"fmt"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/ticket"
	"github.com/jget-crm/backoffice/internal/pkg/telegram"
)

type Service struct {
	ticketRepo ticket.TicketRepository
	notifier   telegram.Notifier
}

func NewService(ticketRepo ticket.TicketRepository, notifier telegram.Notifier) *Service {
	return &Service{ticketRepo: ticketRepo, notifier: notifier}
}

// Create opens a support ticket and pings the operators channel. The
// notification is best effort; a delivery failure never fails the
// request.
func (s *Service) Create(ctx context.Context, ac authz.Context, req ticket.CreateTicketRequest) (ticket.TicketResponse, error) {
	if err := req.Validate(); err != nil {
		return ticket.TicketResponse{}, err
	}

	created, err := s.ticketRepo.Create(ctx, ticket.Ticket{
		UserID:        ac.UserID,
		Subject:       req.Subject,
		Description:   req.Description,
		Status:        ticket.StatusOpen,
		ScreenshotURL: req.ScreenshotURL,
	})
	if err != nil {
		return ticket.TicketResponse{}, err
	}

	s.notifier.Send(fmt.Sprintf("New support ticket: %s\n%s", created.Subject, created.Description))

	created, err = s.ticketRepo.GetByID(ctx, created.ID)
	if err != nil {
		return ticket.TicketResponse{}, err
	}
	return ticket.ToResponse(created), nil
}

// List returns all tickets for managers and admins, or the acting
// user's own otherwise.
func (s *Service) List(ctx context.Context, ac authz.Context) ([]ticket.TicketResponse, error) {
	var tickets []ticket.Ticket
	var err error
	if ac.CanManage() {
		tickets, err = s.ticketRepo.List(ctx)
	} else {
		tickets, err = s.ticketRepo.ListByUser(ctx, ac.UserID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]ticket.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		responses = append(responses, ticket.ToResponse(t))
	}
	return responses, nil
}

// ListMine returns the acting user's tickets and clears their unread
// admin-response flags; opening the list counts as reading.
func (s *Service) ListMine(ctx context.Context, ac authz.Context) ([]ticket.TicketResponse, error) {
	tickets, err := s.ticketRepo.ListByUser(ctx, ac.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.ticketRepo.MarkResponsesRead(ctx, ac.UserID); err != nil {
		return nil, err
	}

	responses := make([]ticket.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		responses = append(responses, ticket.ToResponse(t))
	}
	return responses, nil
}

func (s *Service) GetByID(ctx context.Context, ac authz.Context, id string) (ticket.TicketResponse, error) {
	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return ticket.TicketResponse{}, err
	}
	if !ac.CanManage() && t.UserID != ac.UserID {
		return ticket.TicketResponse{}, authz.ErrAccessDenied
	}
	return ticket.ToResponse(t), nil
}

// CountUnread is the badge number for the acting user.
func (s *Service) CountUnread(ctx context.Context, ac authz.Context) (int, error) {
	return s.ticketRepo.CountUnread(ctx, ac.UserID)
}

// Update lets staff change status and admin notes. Saving admin notes
// flips the owner's unread flag on.
func (s *Service) Update(ctx context.Context, ac authz.Context, req ticket.UpdateTicketRequest) (ticket.TicketResponse, error) {
	if err := req.Validate(); err != nil {
		return ticket.TicketResponse{}, err
	}
	if !ac.CanManage() {
		return ticket.TicketResponse{}, authz.ErrAccessDenied
	}

	t, err := s.ticketRepo.GetByID(ctx, req.ID)
	if err != nil {
		return ticket.TicketResponse{}, err
	}

	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.AdminNotes != nil && *req.AdminNotes != t.AdminNotes {
		t.AdminNotes = *req.AdminNotes
		t.HasUnreadAdminResponse = true
	}

	if err := s.ticketRepo.Update(ctx, t); err != nil {
		return ticket.TicketResponse{}, err
	}

	t, err = s.ticketRepo.GetByID(ctx, t.ID)
	if err != nil {
		return ticket.TicketResponse{}, err
	}
	return ticket.ToResponse(t), nil
}

func (s *Service) Delete(ctx context.Context, ac authz.Context, id string) error {
	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ac.CanManage() && t.UserID != ac.UserID {
		return authz.ErrAccessDenied
	}
	return s.ticketRepo.Delete(ctx, id)
}
