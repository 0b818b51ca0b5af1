package lead

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/lead"
	"github.com/jget-crm/backoffice/internal/pkg/telegram"
)

type Service struct {
	leadRepo lead.LeadRepository
	notifier telegram.Notifier

	// now is swapped in tests to pin callback-derived flags.
	now func() time.Time
}

func NewService(leadRepo lead.LeadRepository, notifier telegram.Notifier) *Service {
	return &Service{leadRepo: leadRepo, notifier: notifier, now: time.Now}
}

func (s *Service) Create(ctx context.Context, ac authz.Context, req lead.CreateLeadRequest) (lead.LeadResponse, error) {
	if err := req.Validate(); err != nil {
		return lead.LeadResponse{}, err
	}
	if !ac.CanManage() {
		return lead.LeadResponse{}, authz.ErrAccessDenied
	}

	created, err := s.leadRepo.Create(ctx, lead.Lead{
		Status:     req.Status,
		Source:     req.Source,
		AddedDate:  s.now(),
		Phone:      req.Phone,
		ParentName: req.ParentName,
		Interest:   req.Interest,
		Comment:    req.Comment,
		CallbackAt: req.Callback,
	})
	if err != nil {
		return lead.LeadResponse{}, err
	}

	return lead.ToResponse(created, s.now()), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (lead.LeadResponse, error) {
	l, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return lead.LeadResponse{}, err
	}
	return lead.ToResponse(l, s.now()), nil
}

// List returns every lead; the overdue and today flags are derived
// against the current clock at read time.
func (s *Service) List(ctx context.Context) ([]lead.LeadResponse, error) {
	leads, err := s.leadRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]lead.LeadResponse, 0, len(leads))
	for _, l := range leads {
		responses = append(responses, lead.ToResponse(l, now))
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, ac authz.Context, req lead.UpdateLeadRequest) (lead.LeadResponse, error) {
	if err := req.Validate(); err != nil {
		return lead.LeadResponse{}, err
	}
	if !ac.CanManage() {
		return lead.LeadResponse{}, authz.ErrAccessDenied
	}

	l, err := s.leadRepo.GetByID(ctx, req.ID)
	if err != nil {
		return lead.LeadResponse{}, err
	}

	if req.Status != nil {
		l.Status = *req.Status
	}
	if req.Source != nil {
		l.Source = *req.Source
	}
	if req.Phone != nil {
		l.Phone = *req.Phone
	}
	if req.ParentName != nil {
		l.ParentName = *req.ParentName
	}
	if req.Interest != nil {
		l.Interest = *req.Interest
	}
	if req.Comment != nil {
		l.Comment = *req.Comment
	}
	if req.CallbackAt != nil {
		// An explicit empty string clears the promised callback.
		if *req.CallbackAt == "" {
			l.CallbackAt = nil
		} else {
			l.CallbackAt = req.Callback
		}
	}

	if err := s.leadRepo.Update(ctx, l); err != nil {
		return lead.LeadResponse{}, err
	}
	return lead.ToResponse(l, s.now()), nil
}

func (s *Service) Delete(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}
	return s.leadRepo.Delete(ctx, id)
}

// SweepOverdueCallbacks notifies the operators channel about undecided
// leads whose callback time has passed. Run from the scheduler.
func (s *Service) SweepOverdueCallbacks(ctx context.Context) error {
	leads, err := s.leadRepo.ListOverdueCallbacks(ctx, s.now())
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		return nil
	}

	for _, l := range leads {
		msg := fmt.Sprintf("Overdue callback: %s (%s), promised %s",
			l.ParentName, l.Phone, l.CallbackAt.Format("02.01.2006 15:04"))
		if !s.notifier.Send(msg) {
			slog.Warn("overdue callback notification not delivered", "lead_id", l.ID)
		}
	}
	return nil
}
