package shift

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
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/domain/org"
	"github.com/jget-crm/backoffice/internal/domain/payroll"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/domain/user"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
	nextID int
}

func (r *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	r.nextID++
	s.ID = fmt.Sprintf("sh-%d", r.nextID)
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

func (r *fakeShiftRepo) ListOverlapping(_ context.Context, branchID string, from, to time.Time) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if s.BranchID == branchID && !s.StartDate.After(to) && !s.EndDate.Before(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) Update(_ context.Context, s shift.Shift) error {
	r.shifts[s.ID] = s
	return nil
}

func (r *fakeShiftRepo) Delete(_ context.Context, id string) error {
	delete(r.shifts, id)
	return nil
}

type fakeSquadRepo struct {
	squads map[string]shift.Squad
	nextID int
}

func (r *fakeSquadRepo) Create(_ context.Context, s shift.Squad) (shift.Squad, error) {
	for _, existing := range r.squads {
		if existing.ShiftID == s.ShiftID && existing.Name == s.Name {
			return shift.Squad{}, shift.ErrSquadNameTaken
		}
	}
	r.nextID++
	s.ID = fmt.Sprintf("sq-%d", r.nextID)
	r.squads[s.ID] = s
	return s, nil
}

func (r *fakeSquadRepo) GetByID(_ context.Context, id string) (shift.Squad, error) {
	s, ok := r.squads[id]
	if !ok {
		return shift.Squad{}, shift.ErrSquadNotFound
	}
	return s, nil
}

func (r *fakeSquadRepo) ListByShift(_ context.Context, shiftID string) ([]shift.Squad, error) {
	var out []shift.Squad
	for _, s := range r.squads {
		if s.ShiftID == shiftID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSquadRepo) List(context.Context, authz.Scope) ([]shift.Squad, error) { return nil, nil }

func (r *fakeSquadRepo) Update(_ context.Context, s shift.Squad) error {
	r.squads[s.ID] = s
	return nil
}

func (r *fakeSquadRepo) Delete(_ context.Context, id string) error {
	delete(r.squads, id)
	return nil
}

type fakeBranchRepo struct {
	branches map[string]org.Branch
}

func (r *fakeBranchRepo) Create(_ context.Context, b org.Branch) (org.Branch, error) {
	r.branches[b.ID] = b
	return b, nil
}

func (r *fakeBranchRepo) GetByID(_ context.Context, id string) (org.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return org.Branch{}, org.ErrBranchNotFound
	}
	return b, nil
}

func (r *fakeBranchRepo) List(context.Context, authz.Scope) ([]org.Branch, error) { return nil, nil }

func (r *fakeBranchRepo) Update(_ context.Context, b org.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) Delete(_ context.Context, id string) error {
	delete(r.branches, id)
	return nil
}

func (r *fakeBranchRepo) CountShifts(context.Context, string) (int, error) { return 0, nil }

func (r *fakeBranchRepo) GetStatistics(context.Context, string) (org.BranchStatistics, error) {
	return org.BranchStatistics{}, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.employees[e.ID] = e
	return e, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) List(context.Context, authz.Scope, *string) ([]employee.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) ListByShift(_ context.Context, shiftID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.ShiftID != nil && *e.ShiftID == shiftID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListAvailableForShift(_ context.Context, shiftID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.ShiftID == nil || *e.ShiftID != shiftID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) error {
	r.employees[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) SetShift(_ context.Context, employeeID string, shiftID *string) error {
	e := r.employees[employeeID]
	e.ShiftID = shiftID
	r.employees[employeeID] = e
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	delete(r.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) ResolveScope(context.Context, string) (*string, *string, error) {
	return nil, nil, nil
}

type fakeStudentRepo struct {
	students map[string]student.Student
}

func (r *fakeStudentRepo) Create(_ context.Context, s student.Student) (student.Student, error) {
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
	return nil, nil
}

func (r *fakeStudentRepo) ListByShift(_ context.Context, shiftID string) ([]student.Student, error) {
	var out []student.Student
	for _, s := range r.students {
		if s.ShiftID != nil && *s.ShiftID == shiftID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) ListAvailableForShift(_ context.Context, shiftID string) ([]student.Student, error) {
	var out []student.Student
	for _, s := range r.students {
		if s.ShiftID == nil || *s.ShiftID != shiftID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s student.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) SetShift(_ context.Context, studentID string, shiftID *string) error {
	s := r.students[studentID]
	s.ShiftID = shiftID
	r.students[studentID] = s
	return nil
}

func (r *fakeStudentRepo) SetSquad(_ context.Context, studentID string, squadID *string) error {
	s := r.students[studentID]
	s.SquadID = squadID
	r.students[studentID] = s
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id string) error {
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) ResolveScope(context.Context, string) (*string, *string, error) {
	return nil, nil, nil
}

type fakePaymentRepo struct {
	payments map[string]student.Payment
}

func (r *fakePaymentRepo) Create(_ context.Context, p student.Payment) (student.Payment, error) {
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

func (r *fakePaymentRepo) ListByStudent(context.Context, string, *string) ([]student.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) GetForShift(context.Context, string, string) (*student.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) TotalForShift(_ context.Context, studentID, shiftID string) (decimal.Decimal, error) {
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
}

func (r *fakeBalanceRepo) Create(_ context.Context, e student.BalanceEntry) (student.BalanceEntry, error) {
	e.ID = fmt.Sprintf("be-%d", len(r.entries)+1)
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *fakeBalanceRepo) ListByStudent(_ context.Context, studentID string, _ int) ([]student.BalanceEntry, error) {
	var out []student.BalanceEntry
	for _, e := range r.entries {
		if e.StudentID == studentID {
			out = append(out, e)
		}
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

type fakeSalaryRepo struct {
	salaries map[string]payroll.Salary
}

func (r *fakeSalaryRepo) Create(_ context.Context, s payroll.Salary) (payroll.Salary, error) {
	r.salaries[s.ID] = s
	return s, nil
}

func (r *fakeSalaryRepo) GetByID(_ context.Context, id string) (payroll.Salary, error) {
	s, ok := r.salaries[id]
	if !ok {
		return payroll.Salary{}, payroll.ErrSalaryNotFound
	}
	return s, nil
}

func (r *fakeSalaryRepo) List(context.Context, authz.Scope, bool) ([]payroll.Salary, error) {
	return nil, nil
}

func (r *fakeSalaryRepo) ListByEmployee(_ context.Context, employeeID string) ([]payroll.Salary, error) {
	var out []payroll.Salary
	for _, s := range r.salaries {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSalaryRepo) Update(_ context.Context, s payroll.Salary) error {
	r.salaries[s.ID] = s
	return nil
}

func (r *fakeSalaryRepo) Delete(_ context.Context, id string) error {
	delete(r.salaries, id)
	return nil
}

type fakeExpenseRepo struct {
	expenses map[string]payroll.Expense
}

func (r *fakeExpenseRepo) Create(_ context.Context, e payroll.Expense) (payroll.Expense, error) {
	r.expenses[e.ID] = e
	return e, nil
}

func (r *fakeExpenseRepo) GetByID(_ context.Context, id string) (payroll.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return payroll.Expense{}, payroll.ErrExpenseNotFound
	}
	return e, nil
}

func (r *fakeExpenseRepo) List(context.Context, authz.Scope) ([]payroll.Expense, error) {
	return nil, nil
}

func (r *fakeExpenseRepo) ListByShift(context.Context, string) ([]payroll.Expense, error) {
	return nil, nil
}

func (r *fakeExpenseRepo) TotalByShift(_ context.Context, shiftID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.expenses {
		if e.ShiftID == shiftID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, e payroll.Expense) error {
	r.expenses[e.ID] = e
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, id string) error {
	delete(r.expenses, id)
	return nil
}

type seededRange struct {
	personID string
	from, to time.Time
}

type fakeAttendanceRepo struct {
	seeded []seededRange
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

func (r *fakeAttendanceRepo) DeleteByPerson(context.Context, string) error { return nil }

type shiftFixture struct {
	svc         *Service
	shifts      *fakeShiftRepo
	squads      *fakeSquadRepo
	branches    *fakeBranchRepo
	employees   *fakeEmployeeRepo
	students    *fakeStudentRepo
	payments    *fakePaymentRepo
	balances    *fakeBalanceRepo
	salaries    *fakeSalaryRepo
	expenses    *fakeExpenseRepo
	employeeAtt *fakeAttendanceRepo
	studentAtt  *fakeAttendanceRepo
}

func newShiftFixture() shiftFixture {
	f := shiftFixture{
		shifts:      &fakeShiftRepo{shifts: map[string]shift.Shift{}},
		squads:      &fakeSquadRepo{squads: map[string]shift.Squad{}},
		branches:    &fakeBranchRepo{branches: map[string]org.Branch{}},
		employees:   &fakeEmployeeRepo{employees: map[string]employee.Employee{}},
		students:    &fakeStudentRepo{students: map[string]student.Student{}},
		payments:    &fakePaymentRepo{payments: map[string]student.Payment{}},
		balances:    &fakeBalanceRepo{},
		salaries:    &fakeSalaryRepo{salaries: map[string]payroll.Salary{}},
		expenses:    &fakeExpenseRepo{expenses: map[string]payroll.Expense{}},
		employeeAtt: &fakeAttendanceRepo{},
		studentAtt:  &fakeAttendanceRepo{},
	}
	f.svc = NewService(
		fakeTransactor{},
		f.shifts, f.squads, f.branches,
		f.employees, f.students,
		f.payments, f.balances,
		f.salaries, f.expenses,
		f.employeeAtt, f.studentAtt,
	)
	return f
}

func (f shiftFixture) addShift(id, branchID string) shift.Shift {
	sh := shift.Shift{
		ID:        id,
		Name:      "June Camp",
		BranchID:  branchID,
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
	}
	f.shifts.shifts[id] = sh
	return sh
}

func manager() authz.Context {
	return authz.Context{UserID: "m-1", Role: user.RoleManager}
}

func headOfBranch(branchID string) authz.Context {
	return authz.Context{UserID: "h-1", Role: user.RoleCampHead, BranchID: &branchID}
}

func strPtr(s string) *string { return &s }

func TestCreate_ChecksBranchScope(t *testing.T) {
	f := newShiftFixture()
	city := "city-1"
	f.branches.branches["b-1"] = org.Branch{ID: "b-1", Name: "North", CityID: &city}

	_, err := f.svc.Create(context.Background(), manager(), shift.CreateShiftRequest{
		Name:      "July Camp",
		BranchID:  "b-1",
		StartDate: "2026-07-01",
		EndDate:   "2026-07-14",
	})
	require.NoError(t, err)

	otherCity := "city-2"
	_, err = f.svc.Create(context.Background(), authz.Context{
		UserID: "a-1", Role: user.RoleAdmin, CityID: &otherCity,
	}, shift.CreateShiftRequest{
		Name:      "July Camp",
		BranchID:  "b-1",
		StartDate: "2026-07-01",
		EndDate:   "2026-07-14",
	})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestAddEmployee_SeedsAttendanceForShiftDays(t *testing.T) {
	f := newShiftFixture()
	sh := f.addShift("sh-1", "b-1")
	f.employees.employees["e-1"] = employee.Employee{ID: "e-1", FullName: "Anna K."}

	err := f.svc.AddEmployee(context.Background(), manager(), "sh-1", "e-1")
	require.NoError(t, err)

	assert.Equal(t, strPtr("sh-1"), f.employees.employees["e-1"].ShiftID)
	require.Len(t, f.employeeAtt.seeded, 1)
	assert.Equal(t, "e-1", f.employeeAtt.seeded[0].personID)
	assert.Equal(t, sh.StartDate, f.employeeAtt.seeded[0].from)
	assert.Equal(t, sh.EndDate, f.employeeAtt.seeded[0].to)
}

func TestAddEmployee_AlreadyOnShift(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")
	f.employees.employees["e-1"] = employee.Employee{ID: "e-1", ShiftID: strPtr("sh-1")}

	err := f.svc.AddEmployee(context.Background(), manager(), "sh-1", "e-1")
	assert.ErrorIs(t, err, shift.ErrEmployeeAlreadyOn)
}

func TestRemoveEmployee_DropsUnpaidSalaryOnly(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")
	f.employees.employees["e-1"] = employee.Employee{ID: "e-1", ShiftID: strPtr("sh-1")}
	f.salaries.salaries["sal-1"] = payroll.Salary{ID: "sal-1", EmployeeID: "e-1", ShiftID: "sh-1"}
	f.salaries.salaries["sal-2"] = payroll.Salary{ID: "sal-2", EmployeeID: "e-1", ShiftID: "sh-1", IsPaid: true}

	err := f.svc.RemoveEmployee(context.Background(), manager(), "sh-1", "e-1")
	require.NoError(t, err)

	assert.Nil(t, f.employees.employees["e-1"].ShiftID)
	_, unpaidLeft := f.salaries.salaries["sal-1"]
	assert.False(t, unpaidLeft)
	_, paidLeft := f.salaries.salaries["sal-2"]
	assert.True(t, paidLeft, "a paid salary row survives removal")
}

func TestRemoveEmployee_NotOnShift(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")
	f.employees.employees["e-1"] = employee.Employee{ID: "e-1"}

	err := f.svc.RemoveEmployee(context.Background(), manager(), "sh-1", "e-1")
	assert.ErrorIs(t, err, shift.ErrEmployeeNotOnShift)
}

func TestRemoveStudent_RefundsPaymentsAsOneDeposit(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")
	f.students.students["st-1"] = student.Student{ID: "st-1", ShiftID: strPtr("sh-1")}
	f.payments.payments["p-1"] = student.Payment{ID: "p-1", StudentID: "st-1", ShiftID: "sh-1", Amount: decimal.NewFromInt(5000)}
	f.payments.payments["p-2"] = student.Payment{ID: "p-2", StudentID: "st-1", ShiftID: "sh-1", Amount: decimal.NewFromInt(2000)}

	err := f.svc.RemoveStudent(context.Background(), manager(), "sh-1", "st-1")
	require.NoError(t, err)

	assert.Nil(t, f.students.students["st-1"].ShiftID)
	assert.Empty(t, f.payments.payments)
	require.Len(t, f.balances.entries, 1)
	entry := f.balances.entries[0]
	assert.Equal(t, student.OpDeposit, entry.Operation)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(7000)))
	assert.Contains(t, entry.Comment, "June Camp")
}

func TestRemoveStudent_NoPaymentsNoRefundEntry(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")
	f.students.students["st-1"] = student.Student{ID: "st-1", ShiftID: strPtr("sh-1")}

	err := f.svc.RemoveStudent(context.Background(), manager(), "sh-1", "st-1")
	require.NoError(t, err)
	assert.Empty(t, f.balances.entries)
}

func TestGetFinancialBalance(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")
	f.payments.payments["p-1"] = student.Payment{ID: "p-1", StudentID: "st-1", ShiftID: "sh-1", Amount: decimal.NewFromInt(22800)}
	f.expenses.expenses["exp-1"] = payroll.Expense{ID: "exp-1", ShiftID: "sh-1", Amount: decimal.NewFromInt(8000)}

	fb, err := f.svc.GetFinancialBalance(context.Background(), manager(), "sh-1")
	require.NoError(t, err)
	assert.True(t, fb.TotalIncome.Equal(decimal.NewFromInt(22800)))
	assert.True(t, fb.TotalExpenses.Equal(decimal.NewFromInt(8000)))
	assert.True(t, fb.Balance.Equal(decimal.NewFromInt(14800)))
}

func TestCreateSquad_DuplicateNumberRejected(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")

	_, err := f.svc.CreateSquad(context.Background(), manager(), shift.CreateSquadRequest{Name: 1, ShiftID: "sh-1"})
	require.NoError(t, err)

	_, err = f.svc.CreateSquad(context.Background(), manager(), shift.CreateSquadRequest{Name: 1, ShiftID: "sh-1"})
	assert.ErrorIs(t, err, shift.ErrSquadNameTaken)
}

func TestGetByID_OtherBranchHeadIsDenied(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")

	_, err := f.svc.GetByID(context.Background(), headOfBranch("b-2"), "sh-1")
	assert.ErrorIs(t, err, authz.ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), headOfBranch("b-1"), "sh-1")
	assert.NoError(t, err)
}

func TestUpdate_CrossCityBranchMoveIsDenied(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")
	otherCity := "city-2"
	f.branches.branches["b-9"] = org.Branch{ID: "b-9", Name: "South", CityID: &otherCity}

	city := "city-1"
	branch := "b-9"
	_, err := f.svc.Update(context.Background(), authz.Context{
		UserID: "a-1", Role: user.RoleAdmin, CityID: &city,
	}, shift.UpdateShiftRequest{ID: "sh-1", BranchID: &branch})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
	assert.Equal(t, "b-1", f.shifts.shifts["sh-1"].BranchID)
}

func TestUpdate_RejectsInvertedDates(t *testing.T) {
	f := newShiftFixture()
	f.addShift("sh-1", "b-1")

	end := "2026-05-01"
	_, err := f.svc.Update(context.Background(), manager(), shift.UpdateShiftRequest{
		ID:      "sh-1",
		EndDate: &end,
	})
	assert.Error(t, err)
}
