package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"gymtrack_echo/internal/models"
)

// CheckoutService lets a member settle a bill online through the payment
// gateway. The gateway callback records the resulting payment through the
// BillingService, so the overpayment guard applies to online payments too.
type CheckoutService struct {
	db      *gorm.DB
	billing *BillingService
	gateway *MidtransService
}

// NewCheckoutService creates a CheckoutService
func NewCheckoutService(db *gorm.DB, billing *BillingService, gateway *MidtransService) *CheckoutService {
	return &CheckoutService{db: db, billing: billing, gateway: gateway}
}

// CheckoutResult holds the outcome of an initiation attempt
type CheckoutResult struct {
	Token       string
	RedirectURL string
	IsExisting  bool
}

// ActiveSession returns the active payment session for a bill, if any
func (s *CheckoutService) ActiveSession(ctx context.Context, billID uint) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := s.db.WithContext(ctx).
		Where("bill_id = ? AND is_active = ?", billID, true).
		Order("created_at desc").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("load payment session", err)
	}
	return &session, nil
}

// InitiateCheckout starts or resumes an online payment for the remaining
// balance of a bill
func (s *CheckoutService) InitiateCheckout(ctx context.Context, auth AuthContext, billID uint, forceNew bool, callbackURL string) (*CheckoutResult, error) {
	bill, state, err := s.billing.BillDetails(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.MemberID != auth.UserID {
		return nil, &AuthorizationError{Message: "You can only pay your own bills"}
	}
	if bill.Status == models.BillPaid {
		return nil, &ValidationError{Message: "Bill is already paid"}
	}
	// The gateway charges whole currency units. The session amount is what
	// the callback later records, so the two must be identical.
	if !state.Remaining.IsInteger() {
		return nil, Validationf("Online payment supports whole amounts only; remaining balance is $%s",
			state.Remaining.StringFixed(2))
	}

	existing, err := s.ActiveSession(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		statusResp, err := s.gateway.CheckTransaction(existing.OrderID)
		if err == nil {
			switch statusResp.TransactionStatus {
			case "settlement", "capture":
				return nil, &ValidationError{Message: "Payment already made"}
			case "deny", "expire", "cancel", "failure":
				s.deactivateSession(ctx, existing)
			default:
				// still pending at the gateway
				if forceNew {
					_ = s.gateway.CancelTransaction(existing.OrderID)
					s.deactivateSession(ctx, existing)
				} else {
					var gatewayResp snap.Response
					if err := json.Unmarshal(existing.ResponseMetadata, &gatewayResp); err == nil {
						return &CheckoutResult{
							Token:       gatewayResp.Token,
							RedirectURL: gatewayResp.RedirectURL,
							IsExisting:  true,
						}, nil
					}
					s.deactivateSession(ctx, existing)
				}
			}
		} else {
			// status check failed, treat the local session as broken
			s.deactivateSession(ctx, existing)
		}
	}

	orderID := fmt.Sprintf("bill-%d-%d", bill.ID, time.Now().Unix())
	grossAmt := state.Remaining.IntPart()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmt,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: bill.Member.FullName(),
			Email: bill.Member.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("bill-%d", bill.ID),
				Name:  fmt.Sprintf("Payment for %s", bill.Description),
				Price: grossAmt,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: callbackURL,
		},
	}

	resp, err := s.gateway.CreateTransaction(orderID, grossAmt, req)
	if err != nil {
		return nil, err
	}

	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)

	session := models.PaymentSession{
		BillID:           bill.ID,
		UserID:           auth.UserID,
		PaymentGateway:   models.PaymentGatewayMidtrans,
		OrderID:          orderID,
		Amount:           state.Remaining,
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, storeErr("create payment session", err)
	}

	return &CheckoutResult{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

func (s *CheckoutService) deactivateSession(ctx context.Context, session *models.PaymentSession) {
	session.IsActive = false
	s.db.WithContext(ctx).Save(session)
}

// HandleCallback processes an async gateway notification. Settled orders are
// recorded as bank transfer payments against the bill; failed orders close
// the session.
func (s *CheckoutService) HandleCallback(ctx context.Context, payload map[string]interface{}) error {
	raw, _ := json.Marshal(payload)
	history := models.PaymentCallbackHistory{
		PaymentGateway: models.PaymentGatewayMidtrans,
		Metadata:       raw,
	}
	s.db.WithContext(ctx).Create(&history)

	orderID, _ := payload["order_id"].(string)
	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)

	billID, err := parseBillOrderID(orderID)
	if err != nil {
		return &ValidationError{Message: "Invalid order ID format"}
	}

	var session models.PaymentSession
	err = s.db.WithContext(ctx).
		Where("order_id = ? AND bill_id = ?", orderID, billID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Payment session"}
	}
	if err != nil {
		return storeErr("load payment session", err)
	}
	if !session.IsActive {
		// duplicate notification for a session already settled or closed
		return nil
	}

	settled := transactionStatus == "settlement" ||
		(transactionStatus == "capture" && fraudStatus != "challenge")

	switch {
	case settled:
		_, err := s.billing.RecordPayment(ctx, RecordPaymentInput{
			BillID: billID,
			Amount: session.Amount,
			Method: models.PaymentMethodBankTransfer,
			Date:   time.Now(),
		})
		if err != nil {
			return err
		}
		s.deactivateSession(ctx, &session)
	case transactionStatus == "deny" || transactionStatus == "cancel" ||
		transactionStatus == "expire" || transactionStatus == "failure":
		s.deactivateSession(ctx, &session)
	}
	return nil
}

// parseBillOrderID extracts the bill id from an order id of the form
// "bill-{id}-{timestamp}"
func parseBillOrderID(orderID string) (uint, error) {
	parts := strings.Split(orderID, "-")
	if len(parts) < 3 || parts[0] != "bill" {
		return 0, fmt.Errorf("malformed order id %q", orderID)
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
