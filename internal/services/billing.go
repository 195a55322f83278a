package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymtrack_echo/internal/models"
)

// BillingService computes remaining balances, validates incoming payments
// and derives bill statuses from the cumulative paid amount.
type BillingService struct {
	db *gorm.DB
}

// NewBillingService creates a BillingService on the given store
func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// lockForUpdate takes a row lock where the dialect supports it. SQLite
// rejects FOR UPDATE and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// BillState is the derived payment state of a bill
type BillState struct {
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining_amount"`
}

// ComputeBillState returns the total paid and remaining balance for a bill.
// Pure; recording logic keeps Remaining from ever going negative.
func ComputeBillState(bill models.Bill, payments []models.Payment) BillState {
	totalPaid := decimal.Zero
	for _, p := range payments {
		totalPaid = totalPaid.Add(p.AmountPaid)
	}
	return BillState{
		TotalPaid: totalPaid,
		Remaining: bill.AmountDue.Sub(totalPaid),
	}
}

// GenerateBillInput carries the fields of an admin bill-creation request
type GenerateBillInput struct {
	MemberID    uint
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// GenerateBill creates a Pending bill for a member
func (s *BillingService) GenerateBill(ctx context.Context, in GenerateBillInput) (*models.Bill, error) {
	if in.MemberID == 0 || in.Description == "" || in.DueDate.IsZero() {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, &ValidationError{Message: "Bill amount must be greater than 0"}
	}

	var member models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND role = ?", in.MemberID, models.RoleMember).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "Member"}
	}
	if err != nil {
		return nil, storeErr("lookup member", err)
	}

	bill := models.Bill{
		MemberID:    in.MemberID,
		AmountDue:   in.Amount,
		IssueDate:   time.Now(),
		DueDate:     in.DueDate,
		Status:      models.BillPending,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(&bill).Error; err != nil {
		return nil, storeErr("create bill", err)
	}
	return &bill, nil
}

// RecordPaymentInput carries the fields of a payment-recording request
type RecordPaymentInput struct {
	BillID uint
	Amount decimal.Decimal
	Method models.PaymentMethod
	Date   time.Time
}

// RecordPaymentResult is returned after a payment is accepted
type RecordPaymentResult struct {
	Payment    models.Payment
	BillStatus models.BillStatus
	Remaining  decimal.Decimal
}

// RecordPayment validates a payment against the bill's authoritative current
// state and persists it together with the derived status update.
//
// The whole read-check-write sequence runs inside one transaction with the
// bill row locked FOR UPDATE, so concurrent payments against the same bill
// serialize and can never jointly exceed the amount due.
func (s *BillingService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	if in.BillID == 0 || in.Date.IsZero() {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	if !in.Method.Valid() {
		return nil, Validationf("Invalid payment method %q", in.Method)
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, &ValidationError{Message: "Payment amount must be greater than 0"}
	}

	var result RecordPaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bill models.Bill
		err := lockForUpdate(tx).First(&bill, in.BillID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Bill"}
		}
		if err != nil {
			return storeErr("lock bill", err)
		}

		var payments []models.Payment
		if err := tx.Where("bill_id = ?", bill.ID).Find(&payments).Error; err != nil {
			return storeErr("load payments", err)
		}

		state := ComputeBillState(bill, payments)
		if in.Amount.GreaterThan(state.Remaining) {
			return Validationf("Payment amount cannot exceed remaining balance of $%s",
				state.Remaining.StringFixed(2))
		}

		payment := models.Payment{
			BillID:        bill.ID,
			AmountPaid:    in.Amount,
			PaymentDate:   in.Date,
			PaymentMethod: in.Method,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return storeErr("create payment", err)
		}

		newTotalPaid := state.TotalPaid.Add(in.Amount)
		newStatus := models.DeriveBillStatus(newTotalPaid, bill.AmountDue)
		if err := tx.Model(&bill).Update("status", newStatus).Error; err != nil {
			return storeErr("update bill status", err)
		}

		result = RecordPaymentResult{
			Payment:    payment,
			BillStatus: newStatus,
			Remaining:  bill.AmountDue.Sub(newTotalPaid),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BillDetails loads a bill with its payments and derived state
func (s *BillingService) BillDetails(ctx context.Context, billID uint) (*models.Bill, BillState, error) {
	var bill models.Bill
	err := s.db.WithContext(ctx).Preload("Payments").Preload("Member").
		First(&bill, billID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, BillState{}, &NotFoundError{Resource: "Bill"}
	}
	if err != nil {
		return nil, BillState{}, storeErr("load bill", err)
	}
	return &bill, ComputeBillState(bill, bill.Payments), nil
}

// ListBills returns all bills with their member and payments, newest first
func (s *BillingService) ListBills(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	err := s.db.WithContext(ctx).
		Preload("Member").Preload("Payments").
		Order("issue_date desc").
		Find(&bills).Error
	if err != nil {
		return nil, storeErr("list bills", err)
	}
	return bills, nil
}

// MemberBills returns the bills of a single member, newest first
func (s *BillingService) MemberBills(ctx context.Context, memberID uint) ([]models.Bill, error) {
	var bills []models.Bill
	err := s.db.WithContext(ctx).
		Preload("Payments").
		Where("member_id = ?", memberID).
		Order("issue_date desc").
		Find(&bills).Error
	if err != nil {
		return nil, storeErr("list member bills", err)
	}
	return bills, nil
}

// ListPayments returns all payments with their bill and member, newest first
func (s *BillingService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Preload("Bill").Preload("Bill.Member").
		Order("payment_date desc").
		Find(&payments).Error
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	return payments, nil
}

// PendingBillCount counts bills whose persisted status is Pending
func (s *BillingService) PendingBillCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Bill{}).
		Where("status = ?", models.BillPending).
		Count(&count).Error
	if err != nil {
		return 0, storeErr("count pending bills", err)
	}
	return count, nil
}

// FinancialReports aggregates revenue and collection figures for the admin view
type FinancialReports struct {
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
	TotalPending   decimal.Decimal `json:"totalPending"`
	TotalMembers   int64           `json:"totalMembers"`
	CollectionRate float64         `json:"collectionRate"`
}

// Reports computes the financial report figures from the store
func (s *BillingService) Reports(ctx context.Context) (*FinancialReports, error) {
	db := s.db.WithContext(ctx)

	var monthlyRevenue decimal.Decimal
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	err := db.Model(&models.Payment{}).
		Where("payment_date >= ?", thirtyDaysAgo).
		Select("COALESCE(SUM(amount_paid), 0)").
		Row().Scan(&monthlyRevenue)
	if err != nil {
		return nil, storeErr("sum monthly revenue", err)
	}

	var totalPending decimal.Decimal
	err = db.Model(&models.Bill{}).
		Where("status = ?", models.BillPending).
		Select("COALESCE(SUM(amount_due), 0)").
		Row().Scan(&totalPending)
	if err != nil {
		return nil, storeErr("sum pending bills", err)
	}

	var totalMembers int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleMember).Count(&totalMembers).Error; err != nil {
		return nil, storeErr("count members", err)
	}

	var totalBilled, totalPaid decimal.Decimal
	err = db.Model(&models.Bill{}).
		Select("COALESCE(SUM(amount_due), 0)").
		Row().Scan(&totalBilled)
	if err != nil {
		return nil, storeErr("sum billed", err)
	}
	err = db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Row().Scan(&totalPaid)
	if err != nil {
		return nil, storeErr("sum paid", err)
	}

	collectionRate := 0.0
	if totalBilled.GreaterThan(decimal.Zero) {
		rate, _ := totalPaid.Div(totalBilled).Mul(decimal.NewFromInt(100)).Float64()
		collectionRate = rate
	}

	return &FinancialReports{
		MonthlyRevenue: monthlyRevenue,
		TotalPending:   totalPending,
		TotalMembers:   totalMembers,
		CollectionRate: collectionRate,
	}, nil
}
