package student

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/domain/user"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStudentRepo struct {
	students map[string]student.Student
	nextID   int

	scopeBranch *string
	scopeCity   *string
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]student.Student{}}
}

func (r *fakeStudentRepo) Create(_ context.Context, s student.Student) (student.Student, error) {
	r.nextID++
	s.ID = fmt.Sprintf("st-%d", r.nextID)
	r.students[s.ID] = s
	return s, nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return student.Student{}, student.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) List(context.Context, authz.Scope) ([]student.Student, error) {
	var out []student.Student
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) ListByShift(context.Context, string) ([]student.Student, error) {
	return nil, nil
}

func (r *fakeStudentRepo) ListAvailableForShift(context.Context, string) ([]student.Student, error) {
	return nil, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s student.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) SetShift(_ context.Context, id string, shiftID *string) error {
	s := r.students[id]
	s.ShiftID = shiftID
	if shiftID == nil {
		s.SquadID = nil
	}
	r.students[id] = s
	return nil
}

func (r *fakeStudentRepo) SetSquad(_ context.Context, id string, squadID *string) error {
	s := r.students[id]
	s.SquadID = squadID
	r.students[id] = s
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id string) error {
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) ResolveScope(_ context.Context, id string) (*string, *string, error) {
	if _, ok := r.students[id]; !ok {
		return nil, nil, student.ErrStudentNotFound
	}
	return r.scopeBranch, r.scopeCity, nil
}

type fakePaymentRepo struct {
	payments map[string]student.Payment
	nextID   int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]student.Payment{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, p student.Payment) (student.Payment, error) {
	r.nextID++
	p.ID = fmt.Sprintf("pay-%d", r.nextID)
	r.payments[p.ID] = p
	return p, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (student.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return student.Payment{}, student.ErrPaymentNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) ListByStudent(_ context.Context, studentID string, shiftID *string) ([]student.Payment, error) {
	var out []student.Payment
	for _, p := range r.payments {
		if p.StudentID != studentID {
			continue
		}
		if shiftID != nil && p.ShiftID != *shiftID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePaymentRepo) GetForShift(_ context.Context, studentID, shiftID string) (*student.Payment, error) {
	for _, p := range r.payments {
		if p.StudentID == studentID && p.ShiftID == shiftID {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) TotalForShift(ctx context.Context, studentID, shiftID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if p.StudentID == studentID && p.ShiftID == shiftID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) TotalByShift(_ context.Context, shiftID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if p.ShiftID == shiftID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p student.Payment) error {
	r.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id string) error {
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) DeleteByStudentAndShift(_ context.Context, studentID, shiftID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for id, p := range r.payments {
		if p.StudentID == studentID && p.ShiftID == shiftID {
			total = total.Add(p.Amount)
			delete(r.payments, id)
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) DeleteByStudent(_ context.Context, studentID string) error {
	for id, p := range r.payments {
		if p.StudentID == studentID {
			delete(r.payments, id)
		}
	}
	return nil
}

type fakeBalanceRepo struct {
	entries []student.BalanceEntry
	nextID  int
}

func (r *fakeBalanceRepo) Create(_ context.Context, e student.BalanceEntry) (student.BalanceEntry, error) {
	r.nextID++
	e.ID = fmt.Sprintf("be-%d", r.nextID)
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *fakeBalanceRepo) ListByStudent(_ context.Context, studentID string, limit int) ([]student.BalanceEntry, error) {
	var out []student.BalanceEntry
	for _, e := range r.entries {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBalanceRepo) CurrentBalance(_ context.Context, studentID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.entries {
		if e.StudentID != studentID {
			continue
		}
		if e.Operation == student.OpPayment {
			total = total.Sub(e.Amount)
		} else {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (r *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	r.shifts[s.ID] = s
	return s, nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *fakeShiftRepo) List(context.Context, authz.Scope) ([]shift.Shift, error) { return nil, nil }

func (r *fakeShiftRepo) ListOverlapping(context.Context, string, time.Time, time.Time) ([]shift.Shift, error) {
	return nil, nil
}

func (r *fakeShiftRepo) Update(_ context.Context, s shift.Shift) error {
	r.shifts[s.ID] = s
	return nil
}

func (r *fakeShiftRepo) Delete(_ context.Context, id string) error {
	delete(r.shifts, id)
	return nil
}

type seededRange struct {
	personID string
	from, to time.Time
}

type fakeAttendanceRepo struct {
	seeded  []seededRange
	deleted []string
}

func (r *fakeAttendanceRepo) Toggle(context.Context, string, time.Time) (attendance.Record, error) {
	return attendance.Record{}, nil
}

func (r *fakeAttendanceRepo) Seed(_ context.Context, personID string, from, to time.Time) error {
	r.seeded = append(r.seeded, seededRange{personID: personID, from: from, to: to})
	return nil
}

func (r *fakeAttendanceRepo) CountPresent(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (r *fakeAttendanceRepo) ListRange(context.Context, string, time.Time, time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) ListAllRange(context.Context, time.Time, time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) DeleteByPerson(_ context.Context, personID string) error {
	r.deleted = append(r.deleted, personID)
	return nil
}

type studentFixture struct {
	svc      *Service
	students *fakeStudentRepo
	payments *fakePaymentRepo
	balances *fakeBalanceRepo
	shifts   *fakeShiftRepo
	att      *fakeAttendanceRepo
}

func newStudentFixture() studentFixture {
	students := newFakeStudentRepo()
	payments := newFakePaymentRepo()
	balances := &fakeBalanceRepo{}
	shifts := &fakeShiftRepo{shifts: map[string]shift.Shift{}}
	att := &fakeAttendanceRepo{}
	svc := NewService(fakeTransactor{}, students, payments, balances, shifts, att)
	return studentFixture{svc: svc, students: students, payments: payments, balances: balances, shifts: shifts, att: att}
}

func manager() authz.Context {
	return authz.Context{UserID: "u-1", Role: user.RoleManager}
}

func TestCreate_SeedsDefaultPriceFromAttendanceType(t *testing.T) {
	f := newStudentFixture()

	resp, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Alisher Kadyrov",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)
	assert.True(t, resp.DefaultPrice.Equal(decimal.NewFromInt(7000)))

	resp, err = f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceFullDay,
	})
	require.NoError(t, err)
	assert.True(t, resp.DefaultPrice.Equal(decimal.NewFromInt(11400)))
}

func TestCreate_ExplicitPriceKept(t *testing.T) {
	f := newStudentFixture()

	resp, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Ersul Altaev",
		AttendanceType: student.AttendanceCamp,
		DefaultPrice:   decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.True(t, resp.DefaultPrice.Equal(decimal.NewFromInt(5000)))
}

func TestCreate_WithShiftSeedsAttendance(t *testing.T) {
	f := newStudentFixture()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", Name: "June Camp", StartDate: start, EndDate: end}
	shiftID := "sh-1"

	_, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Timur Akhmetov",
		AttendanceType: student.AttendanceCamp,
		ShiftID:        &shiftID,
	})
	require.NoError(t, err)

	require.Len(t, f.att.seeded, 1)
	assert.Equal(t, start, f.att.seeded[0].from)
	assert.Equal(t, end, f.att.seeded[0].to)
}

func TestCreate_HeadIsDenied(t *testing.T) {
	f := newStudentFixture()
	branch := "b-1"

	_, err := f.svc.Create(context.Background(), authz.Context{
		UserID: "u-2", Role: user.RoleCampHead, BranchID: &branch,
	}, student.CreateStudentRequest{
		FullName:       "Aida Nurlanova",
		AttendanceType: student.AttendanceLab,
	})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestUpdate_AttendanceTypeChangeResetsPrice(t *testing.T) {
	f := newStudentFixture()
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Timur Akhmetov",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	newType := student.AttendanceFullDay
	resp, err := f.svc.Update(context.Background(), manager(), student.UpdateStudentRequest{
		ID:             created.ID,
		AttendanceType: &newType,
	})
	require.NoError(t, err)
	assert.True(t, resp.DefaultPrice.Equal(decimal.NewFromInt(11400)))
}

func TestUpdate_ManualPriceWinsOverTypeReset(t *testing.T) {
	f := newStudentFixture()
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Timur Akhmetov",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	newType := student.AttendanceFullDay
	manual := decimal.NewFromInt(9999)
	resp, err := f.svc.Update(context.Background(), manager(), student.UpdateStudentRequest{
		ID:             created.ID,
		AttendanceType: &newType,
		DefaultPrice:   &manual,
	})
	require.NoError(t, err)
	assert.True(t, resp.DefaultPrice.Equal(manual))
}

func TestCreatePayment_WritesMatchingLedgerEntry(t *testing.T) {
	f := newStudentFixture()
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", Name: "June Camp"}
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	_, err = f.svc.CreatePayment(context.Background(), manager(), created.ID, student.CreatePaymentRequest{
		ShiftID: "sh-1",
		Amount:  decimal.NewFromInt(7000),
	})
	require.NoError(t, err)

	require.Len(t, f.balances.entries, 1)
	entry := f.balances.entries[0]
	assert.Equal(t, student.OpPayment, entry.Operation)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(7000)))
	assert.Contains(t, entry.Comment, "June Camp")
	require.NotNil(t, entry.CreatedBy)
	assert.Equal(t, "u-1", *entry.CreatedBy)

	// Payments draw the balance down.
	balance, _, err := f.svc.GetBalance(context.Background(), manager(), created.ID, 0)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(-7000)))
}

func TestUpdatePayment_BooksSignedCorrection(t *testing.T) {
	f := newStudentFixture()
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", Name: "June Camp"}
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	p, err := f.svc.CreatePayment(context.Background(), manager(), created.ID, student.CreatePaymentRequest{
		ShiftID: "sh-1",
		Amount:  decimal.NewFromInt(7000),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdatePayment(context.Background(), manager(), p.ID, decimal.NewFromInt(5000), "")
	require.NoError(t, err)

	require.Len(t, f.balances.entries, 2)
	correction := f.balances.entries[1]
	assert.Equal(t, student.OpCorrection, correction.Operation)
	// The student paid 2000 less, so 2000 returns to the balance.
	assert.True(t, correction.Amount.Equal(decimal.NewFromInt(2000)))
}

func TestUpdatePayment_SameAmountBooksNothing(t *testing.T) {
	f := newStudentFixture()
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", Name: "June Camp"}
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	p, err := f.svc.CreatePayment(context.Background(), manager(), created.ID, student.CreatePaymentRequest{
		ShiftID: "sh-1",
		Amount:  decimal.NewFromInt(7000),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdatePayment(context.Background(), manager(), p.ID, decimal.NewFromInt(7000), "note")
	require.NoError(t, err)

	assert.Len(t, f.balances.entries, 1)
}

func TestDeletePayment_RefundsToBalance(t *testing.T) {
	f := newStudentFixture()
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", Name: "June Camp"}
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	p, err := f.svc.CreatePayment(context.Background(), manager(), created.ID, student.CreatePaymentRequest{
		ShiftID: "sh-1",
		Amount:  decimal.NewFromInt(7000),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePayment(context.Background(), manager(), p.ID))

	// Payment and its refund cancel out.
	balance, _, err := f.svc.GetBalance(context.Background(), manager(), created.ID, 0)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	refund := f.balances.entries[len(f.balances.entries)-1]
	assert.Equal(t, student.OpDeposit, refund.Operation)
}

func TestCheckBalance_ExistingPaymentMeansNothingDue(t *testing.T) {
	f := newStudentFixture()
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", Name: "June Camp"}
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	resp, err := f.svc.CheckBalance(context.Background(), manager(), created.ID, "sh-1")
	require.NoError(t, err)
	assert.False(t, resp.CanPay)
	assert.True(t, resp.Required.Equal(decimal.NewFromInt(7000)))

	_, err = f.svc.CreatePayment(context.Background(), manager(), created.ID, student.CreatePaymentRequest{
		ShiftID: "sh-1",
		Amount:  decimal.NewFromInt(7000),
	})
	require.NoError(t, err)

	resp, err = f.svc.CheckBalance(context.Background(), manager(), created.ID, "sh-1")
	require.NoError(t, err)
	assert.True(t, resp.CanPay)
	assert.True(t, resp.Required.IsZero())
}

func TestCheckBalance_IndividualPriceOverrides(t *testing.T) {
	f := newStudentFixture()
	individual := decimal.NewFromInt(6000)
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:        "Dana Seitova",
		AttendanceType:  student.AttendanceFullDay,
		IndividualPrice: &individual,
	})
	require.NoError(t, err)

	deposit := decimal.NewFromInt(6000)
	_, err = f.svc.Deposit(context.Background(), manager(), created.ID, student.DepositRequest{Amount: deposit})
	require.NoError(t, err)

	resp, err := f.svc.CheckBalance(context.Background(), manager(), created.ID, "sh-1")
	require.NoError(t, err)
	assert.True(t, resp.CanPay)
	assert.True(t, resp.Required.Equal(individual))
}

func TestCreate_ShiftOutsideScopeIsDenied(t *testing.T) {
	f := newStudentFixture()
	city := "city-1"
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", BranchID: "b-1", CityID: &city}

	otherCity := "city-2"
	shiftID := "sh-1"
	_, err := f.svc.Create(context.Background(), authz.Context{
		UserID: "a-2", Role: user.RoleAdmin, CityID: &otherCity,
	}, student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
		ShiftID:        &shiftID,
	})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestUpdate_ShiftOutsideScopeIsDenied(t *testing.T) {
	f := newStudentFixture()
	city := "city-1"
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", BranchID: "b-1", CityID: &city}

	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	otherCity := "city-2"
	shiftID := "sh-1"
	_, err = f.svc.Update(context.Background(), authz.Context{
		UserID: "a-2", Role: user.RoleAdmin, CityID: &otherCity,
	}, student.UpdateStudentRequest{ID: created.ID, ShiftID: &shiftID})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)

	got, err := f.svc.GetByID(context.Background(), manager(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ShiftID)
}

func TestGetByID_OutOfScopeIsDenied(t *testing.T) {
	f := newStudentFixture()
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	branch := "b-1"
	f.students.scopeBranch = &branch

	otherBranch := "b-2"
	_, err = f.svc.GetByID(context.Background(), authz.Context{
		UserID: "u-3", Role: user.RoleCampHead, BranchID: &otherBranch,
	}, created.ID)
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestDelete_RemovesDependentRows(t *testing.T) {
	f := newStudentFixture()
	f.shifts.shifts["sh-1"] = shift.Shift{ID: "sh-1", Name: "June Camp"}
	created, err := f.svc.Create(context.Background(), manager(), student.CreateStudentRequest{
		FullName:       "Dana Seitova",
		AttendanceType: student.AttendanceCamp,
	})
	require.NoError(t, err)

	_, err = f.svc.CreatePayment(context.Background(), manager(), created.ID, student.CreatePaymentRequest{
		ShiftID: "sh-1",
		Amount:  decimal.NewFromInt(7000),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), manager(), created.ID))

	assert.Empty(t, f.payments.payments)
	assert.Contains(t, f.att.deleted, created.ID)
	_, err = f.students.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}
