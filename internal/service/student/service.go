package student

import (
	"context"
	"fmt"
	"time"

	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type Service struct {
	tx          database.Transactor
	studentRepo student.StudentRepository
	paymentRepo student.PaymentRepository
	balanceRepo student.BalanceRepository
	shiftRepo   shift.ShiftRepository
	attRepo     attendance.Repository
}

func NewService(
	tx database.Transactor,
	studentRepo student.StudentRepository,
	paymentRepo student.PaymentRepository,
	balanceRepo student.BalanceRepository,
	shiftRepo shift.ShiftRepository,
	attRepo attendance.Repository,
) *Service {
	return &Service{
		tx:          tx,
		studentRepo: studentRepo,
		paymentRepo: paymentRepo,
		balanceRepo: balanceRepo,
		shiftRepo:   shiftRepo,
		attRepo:     attRepo,
	}
}

func (s *Service) requireAccess(ctx context.Context, ac authz.Context, id string) error {
	branchID, cityID, err := s.studentRepo.ResolveScope(ctx, id)
	if err != nil {
		return err
	}
	if !ac.CanAccess(branchID, cityID) {
		return authz.ErrAccessDenied
	}
	return nil
}

// requireShiftScope guards shift attachments: the target shift must be
// inside the acting user's scope before a student is placed on it.
func (s *Service) requireShiftScope(ctx context.Context, ac authz.Context, shiftID *string) error {
	if shiftID == nil {
		return nil
	}
	sh, err := s.shiftRepo.GetByID(ctx, *shiftID)
	if err != nil {
		return err
	}
	if !ac.CanAccess(&sh.BranchID, sh.CityID) {
		return authz.ErrAccessDenied
	}
	return nil
}

// Create registers a student. A zero default price is seeded from the
// attendance type's list price.
func (s *Service) Create(ctx context.Context, ac authz.Context, req student.CreateStudentRequest) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}
	if !ac.CanManage() {
		return student.StudentResponse{}, authz.ErrAccessDenied
	}
	if err := s.requireShiftScope(ctx, ac, req.ShiftID); err != nil {
		return student.StudentResponse{}, err
	}

	if req.DefaultPrice.IsZero() {
		req.DefaultPrice = req.AttendanceType.DefaultPrice()
	}

	st := student.Student{
		FullName:        req.FullName,
		Phone:           req.Phone,
		ParentName:      req.ParentName,
		ShiftID:         req.ShiftID,
		SquadID:         req.SquadID,
		AttendanceType:  req.AttendanceType,
		DefaultPrice:    req.DefaultPrice,
		IndividualPrice: req.IndividualPrice,
		PriceComment:    req.PriceComment,
	}

	var created student.Student
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.studentRepo.Create(ctx, st)
		if err != nil {
			return err
		}
		if req.ShiftID != nil {
			sh, err := s.shiftRepo.GetByID(ctx, *req.ShiftID)
			if err != nil {
				return err
			}
			return s.attRepo.Seed(ctx, created.ID, sh.StartDate, sh.EndDate)
		}
		return nil
	})
	if err != nil {
		return student.StudentResponse{}, err
	}

	created, err = s.studentRepo.GetByID(ctx, created.ID)
	if err != nil {
		return student.StudentResponse{}, err
	}
	return student.ToResponse(created), nil
}

func (s *Service) GetByID(ctx context.Context, ac authz.Context, id string) (student.StudentResponse, error) {
	st, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return student.StudentResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, id); err != nil {
		return student.StudentResponse{}, err
	}
	return student.ToResponse(st), nil
}

func (s *Service) List(ctx context.Context, ac authz.Context) ([]student.StudentResponse, error) {
	students, err := s.studentRepo.List(ctx, ac.Scope())
	if err != nil {
		return nil, err
	}

	responses := make([]student.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, student.ToResponse(st))
	}
	return responses, nil
}

// Update applies partial changes. Changing the attendance type resets
// the default price to the new type's list price; a manual default
// price in the same request wins.
func (s *Service) Update(ctx context.Context, ac authz.Context, req student.UpdateStudentRequest) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}
	if !ac.CanManage() {
		return student.StudentResponse{}, authz.ErrAccessDenied
	}

	st, err := s.studentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return student.StudentResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, req.ID); err != nil {
		return student.StudentResponse{}, err
	}
	if err := s.requireShiftScope(ctx, ac, req.ShiftID); err != nil {
		return student.StudentResponse{}, err
	}

	if req.FullName != nil {
		st.FullName = *req.FullName
	}
	if req.Phone != nil {
		st.Phone = *req.Phone
	}
	if req.ParentName != nil {
		st.ParentName = *req.ParentName
	}
	if req.ShiftID != nil {
		st.ShiftID = req.ShiftID
	}
	if req.SquadID != nil {
		st.SquadID = req.SquadID
	}
	if req.AttendanceType != nil && *req.AttendanceType != st.AttendanceType {
		st.AttendanceType = *req.AttendanceType
		st.DefaultPrice = req.AttendanceType.DefaultPrice()
	}
	if req.DefaultPrice != nil {
		st.DefaultPrice = *req.DefaultPrice
	}
	if req.IndividualPrice != nil {
		st.IndividualPrice = req.IndividualPrice
	}
	if req.PriceComment != nil {
		st.PriceComment = *req.PriceComment
	}

	if err := s.studentRepo.Update(ctx, st); err != nil {
		return student.StudentResponse{}, err
	}

	st, err = s.studentRepo.GetByID(ctx, st.ID)
	if err != nil {
		return student.StudentResponse{}, err
	}
	return student.ToResponse(st), nil
}

// Delete removes the student and their dependent rows.
func (s *Service) Delete(ctx context.Context, ac authz.Context, id string) error {
	if !ac.CanManage() {
		return authz.ErrAccessDenied
	}
	if err := s.requireAccess(ctx, ac, id); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.attRepo.DeleteByPerson(ctx, id); err != nil {
			return err
		}
		if err := s.paymentRepo.DeleteByStudent(ctx, id); err != nil {
			return err
		}
		return s.studentRepo.Delete(ctx, id)
	})
}

// CreatePayment charges the student for a shift. The payment row and
// the matching balance ledger entry are written in one transaction so
// the two money trails cannot drift.
func (s *Service) CreatePayment(ctx context.Context, ac authz.Context, studentID string, req student.CreatePaymentRequest) (student.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.PaymentResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, studentID); err != nil {
		return student.PaymentResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return student.PaymentResponse{}, err
	}

	var created student.Payment
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.paymentRepo.Create(ctx, student.Payment{
			StudentID: studentID,
			ShiftID:   req.ShiftID,
			Amount:    req.Amount,
			Date:      req.Day,
			Comment:   req.Comment,
		})
		if err != nil {
			return err
		}

		_, err = s.balanceRepo.Create(ctx, student.BalanceEntry{
			StudentID: studentID,
			Amount:    req.Amount,
			Operation: student.OpPayment,
			Date:      time.Now(),
			Comment:   fmt.Sprintf("Payment for shift %s", sh.Name),
			CreatedBy: &ac.UserID,
		})
		return err
	})
	if err != nil {
		return student.PaymentResponse{}, err
	}

	return student.ToPaymentResponse(created), nil
}

func (s *Service) ListPayments(ctx context.Context, ac authz.Context, studentID string, shiftID *string) ([]student.PaymentResponse, error) {
	if err := s.requireAccess(ctx, ac, studentID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByStudent(ctx, studentID, shiftID)
	if err != nil {
		return nil, err
	}

	responses := make([]student.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, student.ToPaymentResponse(p))
	}
	return responses, nil
}

// UpdatePayment adjusts an amount and books the difference as a signed
// correction so the ledger stays consistent with the payment trail.
func (s *Service) UpdatePayment(ctx context.Context, ac authz.Context, paymentID string, amount decimal.Decimal, comment string) (student.PaymentResponse, error) {
	if !amount.IsPositive() {
		return student.PaymentResponse{}, student.ErrInvalidAmount
	}

	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return student.PaymentResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, p.StudentID); err != nil {
		return student.PaymentResponse{}, err
	}

	delta := p.Amount.Sub(amount)
	p.Amount = amount
	if comment != "" {
		p.Comment = comment
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Update(ctx, p); err != nil {
			return err
		}
		if delta.IsZero() {
			return nil
		}
		_, err := s.balanceRepo.Create(ctx, student.BalanceEntry{
			StudentID: p.StudentID,
			Amount:    delta,
			Operation: student.OpCorrection,
			Date:      time.Now(),
			Comment:   "Payment amount adjusted",
			CreatedBy: &ac.UserID,
		})
		return err
	})
	if err != nil {
		return student.PaymentResponse{}, err
	}

	return student.ToPaymentResponse(p), nil
}

// DeletePayment removes the payment and refunds the amount to the
// student's balance as a deposit.
func (s *Service) DeletePayment(ctx context.Context, ac authz.Context, paymentID string) error {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if err := s.requireAccess(ctx, ac, p.StudentID); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Delete(ctx, paymentID); err != nil {
			return err
		}
		_, err := s.balanceRepo.Create(ctx, student.BalanceEntry{
			StudentID: p.StudentID,
			Amount:    p.Amount,
			Operation: student.OpDeposit,
			Date:      time.Now(),
			Comment:   "Payment deleted, amount returned to balance",
			CreatedBy: &ac.UserID,
		})
		return err
	})
}

// Deposit adds money to the student's account ledger.
func (s *Service) Deposit(ctx context.Context, ac authz.Context, studentID string, req student.DepositRequest) (student.BalanceEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return student.BalanceEntryResponse{}, err
	}
	if err := s.requireAccess(ctx, ac, studentID); err != nil {
		return student.BalanceEntryResponse{}, err
	}

	entry, err := s.balanceRepo.Create(ctx, student.BalanceEntry{
		StudentID: studentID,
		Amount:    req.Amount,
		Operation: student.OpDeposit,
		Date:      time.Now(),
		Comment:   req.Comment,
		CreatedBy: &ac.UserID,
	})
	if err != nil {
		return student.BalanceEntryResponse{}, err
	}

	return student.ToBalanceEntryResponse(entry), nil
}

// GetBalance returns the recomputed running balance plus the recent
// ledger entries.
func (s *Service) GetBalance(ctx context.Context, ac authz.Context, studentID string, limit int) (decimal.Decimal, []student.BalanceEntryResponse, error) {
	if err := s.requireAccess(ctx, ac, studentID); err != nil {
		return decimal.Zero, nil, err
	}

	balance, err := s.balanceRepo.CurrentBalance(ctx, studentID)
	if err != nil {
		return decimal.Zero, nil, err
	}

	entries, err := s.balanceRepo.ListByStudent(ctx, studentID, limit)
	if err != nil {
		return decimal.Zero, nil, err
	}

	responses := make([]student.BalanceEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, student.ToBalanceEntryResponse(e))
	}
	return balance, responses, nil
}

// CheckBalance answers whether the balance covers the student's price
// for the shift. A payment already booked for the shift is counted
// back into the available balance, the same way a payment edit first
// returns the old amount, and nothing more is required.
func (s *Service) CheckBalance(ctx context.Context, ac authz.Context, studentID, shiftID string) (student.CheckBalanceResponse, error) {
	if err := s.requireAccess(ctx, ac, studentID); err != nil {
		return student.CheckBalanceResponse{}, err
	}

	st, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return student.CheckBalanceResponse{}, err
	}

	balance, err := s.balanceRepo.CurrentBalance(ctx, studentID)
	if err != nil {
		return student.CheckBalanceResponse{}, err
	}

	existing, err := s.paymentRepo.GetForShift(ctx, studentID, shiftID)
	if err != nil {
		return student.CheckBalanceResponse{}, err
	}

	required := st.EffectivePrice()
	available := balance
	if existing != nil {
		available = available.Add(existing.Amount)
		required = decimal.Zero
	}

	return student.CheckBalanceResponse{
		CanPay:   available.GreaterThanOrEqual(required),
		Balance:  balance,
		Required: required,
	}, nil
}
