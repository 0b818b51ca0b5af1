package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/domain/user"
)

type dayKey struct {
	personID string
	date     string
}

// fakeAttendanceLedger mimics the atomic toggle cycle of the SQL upsert.
type fakeAttendanceLedger struct {
	records map[dayKey]attendance.Record
	nextID  int
}

func newFakeLedger() *fakeAttendanceLedger {
	return &fakeAttendanceLedger{records: map[dayKey]attendance.Record{}}
}

func (r *fakeAttendanceLedger) Toggle(_ context.Context, personID string, date time.Time) (attendance.Record, error) {
	key := dayKey{personID: personID, date: date.Format("2006-01-02")}
	rec, ok := r.records[key]
	if !ok {
		r.nextID++
		rec = attendance.Record{
			ID:       fmt.Sprintf("att-%d", r.nextID),
			PersonID: personID,
			Date:     date,
			Status:   attendance.StatusPresent,
		}
		r.records[key] = rec
		return rec, nil
	}
	rec.Status = rec.Status.Next()
	r.records[key] = rec
	return rec, nil
}

func (r *fakeAttendanceLedger) Seed(_ context.Context, personID string, from, to time.Time) error {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := dayKey{personID: personID, date: d.Format("2006-01-02")}
		if _, ok := r.records[key]; ok {
			continue
		}
		r.nextID++
		r.records[key] = attendance.Record{
			ID:       fmt.Sprintf("att-%d", r.nextID),
			PersonID: personID,
			Date:     d,
			Status:   attendance.StatusAbsent,
		}
	}
	return nil
}

func (r *fakeAttendanceLedger) CountPresent(_ context.Context, personID string, from, to time.Time) (int, error) {
	count := 0
	for _, rec := range r.records {
		if rec.PersonID == personID && !rec.Date.Before(from) && !rec.Date.After(to) && rec.Status.Present() {
			count++
		}
	}
	return count, nil
}

func (r *fakeAttendanceLedger) ListRange(_ context.Context, personID string, from, to time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if rec.PersonID == personID && !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceLedger) ListAllRange(_ context.Context, from, to time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceLedger) DeleteByPerson(_ context.Context, personID string) error {
	for key := range r.records {
		if key.personID == personID {
			delete(r.records, key)
		}
	}
	return nil
}

// scopeRegistry serves ResolveScope and the shift lookup for both
// person registries; the other interface methods are unused by the
// attendance service.
type scopeRegistry struct {
	branch map[string]*string
	city   map[string]*string
	shift  map[string]*string
	known  map[string]bool
}

func newScopeRegistry() *scopeRegistry {
	return &scopeRegistry{
		branch: map[string]*string{},
		city:   map[string]*string{},
		shift:  map[string]*string{},
		known:  map[string]bool{},
	}
}

func (r *scopeRegistry) add(personID string, branchID, cityID *string) {
	r.known[personID] = true
	r.branch[personID] = branchID
	r.city[personID] = cityID
}

func (r *scopeRegistry) assign(personID, shiftID string) {
	r.shift[personID] = &shiftID
}

func (r *scopeRegistry) resolve(id string, notFound error) (*string, *string, error) {
	if !r.known[id] {
		return nil, nil, notFound
	}
	return r.branch[id], r.city[id], nil
}

type fakeEmployeeRegistry struct{ *scopeRegistry }

func (r fakeEmployeeRegistry) Create(context.Context, employee.Employee) (employee.Employee, error) {
	return employee.Employee{}, nil
}
func (r fakeEmployeeRegistry) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if !r.known[id] {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id, ShiftID: r.shift[id]}, nil
}
func (r fakeEmployeeRegistry) List(context.Context, authz.Scope, *string) ([]employee.Employee, error) {
	return nil, nil
}
func (r fakeEmployeeRegistry) ListByShift(context.Context, string) ([]employee.Employee, error) {
	return nil, nil
}
func (r fakeEmployeeRegistry) ListAvailableForShift(context.Context, string) ([]employee.Employee, error) {
	return nil, nil
}
func (r fakeEmployeeRegistry) Update(context.Context, employee.Employee) error { return nil }
func (r fakeEmployeeRegistry) SetShift(context.Context, string, *string) error { return nil }
func (r fakeEmployeeRegistry) Delete(context.Context, string) error { return nil }
func (r fakeEmployeeRegistry) ResolveScope(_ context.Context, id string) (*string, *string, error) {
	return r.resolve(id, employee.ErrEmployeeNotFound)
}

type fakeStudentRegistry struct{ *scopeRegistry }

func (r fakeStudentRegistry) Create(context.Context, student.Student) (student.Student, error) {
	return student.Student{}, nil
}
func (r fakeStudentRegistry) GetByID(_ context.Context, id string) (student.Student, error) {
	if !r.known[id] {
		return student.Student{}, student.ErrStudentNotFound
	}
	return student.Student{ID: id, ShiftID: r.shift[id]}, nil
}
func (r fakeStudentRegistry) List(context.Context, authz.Scope) ([]student.Student, error) {
	return nil, nil
}
func (r fakeStudentRegistry) ListByShift(context.Context, string) ([]student.Student, error) {
	return nil, nil
}
func (r fakeStudentRegistry) ListAvailableForShift(context.Context, string) ([]student.Student, error) {
	return nil, nil
}
func (r fakeStudentRegistry) Update(context.Context, student.Student) error { return nil }
func (r fakeStudentRegistry) SetShift(context.Context, string, *string) error { return nil }
func (r fakeStudentRegistry) SetSquad(context.Context, string, *string) error { return nil }
func (r fakeStudentRegistry) Delete(context.Context, string) error { return nil }
func (r fakeStudentRegistry) ResolveScope(_ context.Context, id string) (*string, *string, error) {
	return r.resolve(id, student.ErrStudentNotFound)
}

type fakeShiftStore struct {
	shifts map[string]shift.Shift
}

func (r *fakeShiftStore) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	r.shifts[s.ID] = s
	return s, nil
}

func (r *fakeShiftStore) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *fakeShiftStore) List(context.Context, authz.Scope) ([]shift.Shift, error) { return nil, nil }

func (r *fakeShiftStore) ListOverlapping(context.Context, string, time.Time, time.Time) ([]shift.Shift, error) {
	return nil, nil
}

func (r *fakeShiftStore) Update(_ context.Context, s shift.Shift) error {
	r.shifts[s.ID] = s
	return nil
}

func (r *fakeShiftStore) Delete(_ context.Context, id string) error {
	delete(r.shifts, id)
	return nil
}

type attendanceFixture struct {
	svc         *Service
	employeeAtt *fakeAttendanceLedger
	studentAtt  *fakeAttendanceLedger
	employees   *scopeRegistry
	students    *scopeRegistry
	shifts      *fakeShiftStore
}

func newAttendanceFixture() attendanceFixture {
	employeeAtt := newFakeLedger()
	studentAtt := newFakeLedger()
	employees := newScopeRegistry()
	students := newScopeRegistry()
	shifts := &fakeShiftStore{shifts: map[string]shift.Shift{}}
	svc := NewService(
		employeeAtt,
		studentAtt,
		fakeEmployeeRegistry{employees},
		fakeStudentRegistry{students},
		shifts,
	)
	return attendanceFixture{
		svc:         svc,
		employeeAtt: employeeAtt,
		studentAtt:  studentAtt,
		employees:   employees,
		students:    students,
		shifts:      shifts,
	}
}

func managerCtx() authz.Context {
	return authz.Context{UserID: "m-1", Role: user.RoleManager}
}

func TestToggle_CyclesThroughStates(t *testing.T) {
	f := newAttendanceFixture()
	f.students.add("st-1", nil, nil)

	req := attendance.ToggleRequest{
		Kind:     attendance.KindStudent,
		PersonID: "st-1",
		Date:     "2026-06-03",
	}

	// First touch on a fresh day lands on present.
	rec, err := f.svc.Toggle(context.Background(), managerCtx(), req)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 1, rec.PresentDays)

	rec, err = f.svc.Toggle(context.Background(), managerCtx(), req)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusExcused, rec.Status)
	assert.Equal(t, 0, rec.PresentDays)

	rec, err = f.svc.Toggle(context.Background(), managerCtx(), req)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
}

func TestToggle_TallyWindowFollowsShift(t *testing.T) {
	f := newAttendanceFixture()
	f.students.add("st-1", nil, nil)
	f.students.assign("st-1", "sh-1")
	f.shifts.shifts["sh-1"] = shift.Shift{
		ID:        "sh-1",
		BranchID:  "b-1",
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
	}

	// A present day outside the shift window must not count.
	_, err := f.studentAtt.Toggle(context.Background(), "st-1", time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rec, err := f.svc.Toggle(context.Background(), managerCtx(), attendance.ToggleRequest{
		Kind:     attendance.KindStudent,
		PersonID: "st-1",
		Date:     "2026-06-03",
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 1, rec.PresentDays)
}

func TestToggle_OutOfScopeIsDenied(t *testing.T) {
	f := newAttendanceFixture()
	branch, city := "b-1", "city-1"
	f.employees.add("e-1", &branch, &city)

	otherBranch := "b-2"
	_, err := f.svc.Toggle(context.Background(), authz.Context{
		UserID: "h-1", Role: user.RoleCampHead, BranchID: &otherBranch,
	}, attendance.ToggleRequest{
		Kind:     attendance.KindEmployee,
		PersonID: "e-1",
		Date:     "2026-06-03",
	})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestToggle_UnknownPerson(t *testing.T) {
	f := newAttendanceFixture()

	_, err := f.svc.Toggle(context.Background(), managerCtx(), attendance.ToggleRequest{
		Kind:     attendance.KindStudent,
		PersonID: "missing",
		Date:     "2026-06-03",
	})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestToggle_UsesTheRightLedger(t *testing.T) {
	f := newAttendanceFixture()
	f.employees.add("p-1", nil, nil)
	f.students.add("p-1", nil, nil)

	_, err := f.svc.Toggle(context.Background(), managerCtx(), attendance.ToggleRequest{
		Kind:     attendance.KindEmployee,
		PersonID: "p-1",
		Date:     "2026-06-03",
	})
	require.NoError(t, err)

	assert.Len(t, f.employeeAtt.records, 1)
	assert.Empty(t, f.studentAtt.records)
}

func TestListPeriod_GroupsByPerson(t *testing.T) {
	f := newAttendanceFixture()
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.studentAtt.Seed(context.Background(), "st-1", from, to))
	require.NoError(t, f.studentAtt.Seed(context.Background(), "st-2", from, to))

	out, err := f.svc.ListPeriod(context.Background(), attendance.KindStudent, from, to)
	require.NoError(t, err)

	require.Len(t, out, 2)
	for _, pd := range out {
		assert.Len(t, pd.Days, 3)
		assert.Equal(t, attendance.StatusAbsent, pd.Days["2026-06-02"])
	}
}

func TestTotals_FoldsStatuses(t *testing.T) {
	f := newAttendanceFixture()
	f.students.add("st-1", nil, nil)
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.studentAtt.Seed(context.Background(), "st-1", from, to))

	// Day 1 -> present, day 2 -> excused.
	toggle := func(date string, times int) {
		for i := 0; i < times; i++ {
			_, err := f.svc.Toggle(context.Background(), managerCtx(), attendance.ToggleRequest{
				Kind: attendance.KindStudent, PersonID: "st-1", Date: date,
			})
			require.NoError(t, err)
		}
	}
	toggle("2026-06-01", 1)
	toggle("2026-06-02", 2)

	totals, err := f.svc.Totals(context.Background(), managerCtx(), attendance.KindStudent, "st-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.PresentDays)
	assert.Equal(t, 1, totals.ExcusedDays)
	assert.Equal(t, 2, totals.AbsentDays)
	assert.Equal(t, 4, totals.RecordedDays)
}
