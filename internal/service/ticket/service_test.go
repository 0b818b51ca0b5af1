package ticket

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/ticket"
	"github.com/jget-crm/backoffice/internal/domain/user"
)

type fakeTicketRepo struct {
	tickets map[string]ticket.Ticket
	nextID  int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]ticket.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	r.nextID++
	t.ID = fmt.Sprintf("t-%d", r.nextID)
	r.tickets[t.ID] = t
	return t, nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (ticket.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return ticket.Ticket{}, ticket.ErrTicketNotFound
	}
	return t, nil
}

func (r *fakeTicketRepo) List(context.Context) ([]ticket.Ticket, error) {
	var out []ticket.Ticket
	for _, t := range r.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTicketRepo) ListByUser(_ context.Context, userID string) ([]ticket.Ticket, error) {
	var out []ticket.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) Update(_ context.Context, t ticket.Ticket) error {
	r.tickets[t.ID] = t
	return nil
}

func (r *fakeTicketRepo) MarkResponsesRead(_ context.Context, userID string) error {
	for id, t := range r.tickets {
		if t.UserID == userID && t.HasUnreadAdminResponse {
			t.HasUnreadAdminResponse = false
			r.tickets[id] = t
		}
	}
	return nil
}

func (r *fakeTicketRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, t := range r.tickets {
		if t.UserID == userID && t.HasUnreadAdminResponse {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	delete(r.tickets, id)
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Send(message string) bool {
	n.messages = append(n.messages, message)
	return true
}

func headCtx(id string) authz.Context {
	branch := "b-1"
	return authz.Context{UserID: id, Role: user.RoleCampHead, BranchID: &branch}
}

func adminCtx() authz.Context {
	city := "city-1"
	return authz.Context{UserID: "a-1", Role: user.RoleAdmin, CityID: &city}
}

func TestCreate_OpensTicketAndNotifies(t *testing.T) {
	repo := newFakeTicketRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	resp, err := svc.Create(context.Background(), headCtx("h-1"), ticket.CreateTicketRequest{
		Subject:     "Printer broken",
		Description: "The office printer jams on every page",
	})
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusOpen, resp.Status)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Printer broken")
}

func TestList_HeadsSeeOnlyTheirOwn(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo, &fakeNotifier{})

	repo.tickets["t-1"] = ticket.Ticket{ID: "t-1", UserID: "h-1", Subject: "Mine"}
	repo.tickets["t-2"] = ticket.Ticket{ID: "t-2", UserID: "h-2", Subject: "Theirs"}

	out, err := svc.List(context.Background(), headCtx("h-1"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Mine", out[0].Subject)

	all, err := svc.List(context.Background(), adminCtx())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetByID_OtherUsersTicketIsDenied(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo, &fakeNotifier{})
	repo.tickets["t-1"] = ticket.Ticket{ID: "t-1", UserID: "h-2"}

	_, err := svc.GetByID(context.Background(), headCtx("h-1"), "t-1")
	assert.ErrorIs(t, err, authz.ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), adminCtx(), "t-1")
	assert.NoError(t, err)
}

func TestUpdate_AdminNotesFlipUnreadFlag(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo, &fakeNotifier{})
	repo.tickets["t-1"] = ticket.Ticket{ID: "t-1", UserID: "h-1", Status: ticket.StatusOpen}

	notes := "We ordered a replacement"
	_, err := svc.Update(context.Background(), adminCtx(), ticket.UpdateTicketRequest{
		ID:         "t-1",
		AdminNotes: &notes,
	})
	require.NoError(t, err)
	assert.True(t, repo.tickets["t-1"].HasUnreadAdminResponse)

	// Saving the same notes again does not re-flip the flag.
	repo.tickets["t-1"] = ticket.Ticket{
		ID: "t-1", UserID: "h-1", Status: ticket.StatusOpen,
		AdminNotes: notes, HasUnreadAdminResponse: false,
	}
	_, err = svc.Update(context.Background(), adminCtx(), ticket.UpdateTicketRequest{
		ID:         "t-1",
		AdminNotes: &notes,
	})
	require.NoError(t, err)
	assert.False(t, repo.tickets["t-1"].HasUnreadAdminResponse)
}

func TestUpdate_NonStaffIsDenied(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo, &fakeNotifier{})
	repo.tickets["t-1"] = ticket.Ticket{ID: "t-1", UserID: "h-1"}

	status := ticket.StatusResolved
	_, err := svc.Update(context.Background(), headCtx("h-1"), ticket.UpdateTicketRequest{
		ID:     "t-1",
		Status: &status,
	})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestListMine_ClearsUnreadFlags(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo, &fakeNotifier{})
	repo.tickets["t-1"] = ticket.Ticket{ID: "t-1", UserID: "h-1", HasUnreadAdminResponse: true}
	repo.tickets["t-2"] = ticket.Ticket{ID: "t-2", UserID: "h-2", HasUnreadAdminResponse: true}

	count, err := svc.CountUnread(context.Background(), headCtx("h-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.ListMine(context.Background(), headCtx("h-1"))
	require.NoError(t, err)

	count, err = svc.CountUnread(context.Background(), headCtx("h-1"))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// The other user's flag is untouched.
	assert.True(t, repo.tickets["t-2"].HasUnreadAdminResponse)
}

func TestDelete_OwnerMayDeleteOwnTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo, &fakeNotifier{})
	repo.tickets["t-1"] = ticket.Ticket{ID: "t-1", UserID: "h-1"}

	err := svc.Delete(context.Background(), headCtx("h-2"), "t-1")
	assert.ErrorIs(t, err, authz.ErrAccessDenied)

	require.NoError(t, svc.Delete(context.Background(), headCtx("h-1"), "t-1"))
	assert.Empty(t, repo.tickets)
}
