package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymtrack_echo/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createBill(t *testing.T, svc *BillingService, memberID uint, amount string) *models.Bill {
	t.Helper()

	bill, err := svc.GenerateBill(context.Background(), GenerateBillInput{
		MemberID:    memberID,
		Description: "Monthly membership",
		Amount:      dec(amount),
		DueDate:     date(2026, time.December, 1),
	})
	require.NoError(t, err)
	return bill
}

func TestComputeBillState(t *testing.T) {
	bill := models.Bill{AmountDue: dec("100.00")}
	payments := []models.Payment{
		{AmountPaid: dec("25.50")},
		{AmountPaid: dec("10.00")},
	}

	state := ComputeBillState(bill, payments)
	assert.True(t, state.TotalPaid.Equal(dec("35.50")), "total paid = %s", state.TotalPaid)
	assert.True(t, state.Remaining.Equal(dec("64.50")), "remaining = %s", state.Remaining)

	// Pure: a second call on the same inputs yields identical output
	again := ComputeBillState(bill, payments)
	assert.True(t, state.TotalPaid.Equal(again.TotalPaid))
	assert.True(t, state.Remaining.Equal(again.Remaining))

	empty := ComputeBillState(bill, nil)
	assert.True(t, empty.TotalPaid.IsZero())
	assert.True(t, empty.Remaining.Equal(dec("100.00")))
}

func TestGenerateBill(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)
	member := createUser(t, db, models.RoleMember, "member@gym.test")

	bill := createBill(t, svc, member.ID, "100.00")
	assert.Equal(t, models.BillPending, bill.Status)
	assert.False(t, bill.IssueDate.IsZero())

	_, err := svc.GenerateBill(context.Background(), GenerateBillInput{
		MemberID: member.ID,
		Amount:   dec("100.00"),
	})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr, "missing fields")

	_, err = svc.GenerateBill(context.Background(), GenerateBillInput{
		MemberID:    member.ID,
		Description: "Free",
		Amount:      decimal.Zero,
		DueDate:     date(2026, time.December, 1),
	})
	assert.ErrorAs(t, err, &validationErr, "zero amount")

	_, err = svc.GenerateBill(context.Background(), GenerateBillInput{
		MemberID:    99999,
		Description: "Ghost",
		Amount:      dec("10.00"),
		DueDate:     date(2026, time.December, 1),
	})
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr, "unknown member")
}

func TestRecordPaymentScenario(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)
	member := createUser(t, db, models.RoleMember, "member@gym.test")
	bill := createBill(t, svc, member.ID, "100.00")
	ctx := context.Background()

	pay := func(amount string) (*RecordPaymentResult, error) {
		return svc.RecordPayment(ctx, RecordPaymentInput{
			BillID: bill.ID,
			Amount: dec(amount),
			Method: models.PaymentMethodCash,
			Date:   date(2026, time.November, 1),
		})
	}

	result, err := pay("60.00")
	require.NoError(t, err)
	assert.Equal(t, models.BillPartiallyPaid, result.BillStatus)
	assert.Equal(t, "40.00", result.Remaining.StringFixed(2))

	result, err = pay("40.00")
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, result.BillStatus)
	assert.Equal(t, "0.00", result.Remaining.StringFixed(2))

	// A settled bill rejects any further payment, citing the zero balance
	_, err = pay("0.01")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "$0.00")
}

func TestRecordPaymentOverpayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)
	member := createUser(t, db, models.RoleMember, "member@gym.test")
	bill := createBill(t, svc, member.ID, "100.00")
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{
		BillID: bill.ID,
		Amount: dec("60.00"),
		Method: models.PaymentMethodCreditCard,
		Date:   date(2026, time.November, 1),
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{
		BillID: bill.ID,
		Amount: dec("50.00"),
		Method: models.PaymentMethodCreditCard,
		Date:   date(2026, time.November, 2),
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "$40.00")

	// The rejected payment left no trace
	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Where("bill_id = ?", bill.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordPaymentValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)
	member := createUser(t, db, models.RoleMember, "member@gym.test")
	bill := createBill(t, svc, member.ID, "100.00")
	ctx := context.Background()

	tests := []struct {
		name  string
		input RecordPaymentInput
	}{
		{
			name: "zero amount",
			input: RecordPaymentInput{
				BillID: bill.ID, Amount: decimal.Zero,
				Method: models.PaymentMethodCash, Date: date(2026, time.November, 1),
			},
		},
		{
			name: "negative amount",
			input: RecordPaymentInput{
				BillID: bill.ID, Amount: dec("-5.00"),
				Method: models.PaymentMethodCash, Date: date(2026, time.November, 1),
			},
		},
		{
			name: "unknown method",
			input: RecordPaymentInput{
				BillID: bill.ID, Amount: dec("5.00"),
				Method: "barter", Date: date(2026, time.November, 1),
			},
		},
		{
			name: "missing date",
			input: RecordPaymentInput{
				BillID: bill.ID, Amount: dec("5.00"),
				Method: models.PaymentMethodCash,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPayment(ctx, tt.input)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{
		BillID: 99999, Amount: dec("5.00"),
		Method: models.PaymentMethodCash, Date: date(2026, time.November, 1),
	})
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

// Concurrent payments must never jointly exceed the amount due: individual
// submissions may fail, but the recorded total stays within the bill.
func TestConcurrentPaymentsNeverExceedAmountDue(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)
	member := createUser(t, db, models.RoleMember, "member@gym.test")
	bill := createBill(t, svc, member.ID, "100.00")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.RecordPayment(ctx, RecordPaymentInput{
				BillID: bill.ID,
				Amount: dec("30.00"),
				Method: models.PaymentMethodDebitCard,
				Date:   date(2026, time.November, 1),
			})
		}()
	}
	wg.Wait()

	var payments []models.Payment
	require.NoError(t, db.Where("bill_id = ?", bill.ID).Find(&payments).Error)

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.AmountPaid)
	}
	assert.True(t, total.LessThanOrEqual(dec("100.00")), "total paid %s exceeds amount due", total)

	var stored models.Bill
	require.NoError(t, db.First(&stored, bill.ID).Error)
	assert.Equal(t, models.DeriveBillStatus(total, stored.AmountDue), stored.Status)
}

func TestReports(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)
	member := createUser(t, db, models.RoleMember, "member@gym.test")
	createUser(t, db, models.RoleTrainer, "trainer@gym.test")
	ctx := context.Background()

	paid := createBill(t, svc, member.ID, "50.00")
	createBill(t, svc, member.ID, "150.00")

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{
		BillID: paid.ID,
		Amount: dec("50.00"),
		Method: models.PaymentMethodBankTransfer,
		Date:   time.Now(),
	})
	require.NoError(t, err)

	reports, err := svc.Reports(ctx)
	require.NoError(t, err)
	assert.Equal(t, "50.00", reports.MonthlyRevenue.StringFixed(2))
	assert.Equal(t, "150.00", reports.TotalPending.StringFixed(2))
	assert.EqualValues(t, 1, reports.TotalMembers)
	assert.InDelta(t, 25.0, reports.CollectionRate, 0.001)
}
