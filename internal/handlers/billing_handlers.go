package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

// Cache keys for the admin aggregates invalidated on billing writes
const (
	cacheKeyOverview = "admin:overview"
	cacheKeyReports  = "admin:reports:financial"
)

// BillingHandler serves the admin billing endpoints
type BillingHandler struct {
	billing  *services.BillingService
	accounts *services.AccountService
	cache    *services.RedisCache
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billing *services.BillingService, accounts *services.AccountService, cache *services.RedisCache) *BillingHandler {
	return &BillingHandler{billing: billing, accounts: accounts, cache: cache}
}

// ListBills returns all bills with member, payments and derived state
func (h *BillingHandler) ListBills(c echo.Context) error {
	bills, err := h.billing.ListBills(c.Request().Context())
	if err != nil {
		return err
	}

	now := time.Now()
	views := make([]billView, 0, len(bills))
	for _, bill := range bills {
		views = append(views, newBillView(bill, now))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"bills":   views,
	})
}

// ListPayments returns all payments, newest first
func (h *BillingHandler) ListPayments(c echo.Context) error {
	payments, err := h.billing.ListPayments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"payments": payments,
	})
}

// MembersForBilling lists members for the bill-creation form
func (h *BillingHandler) MembersForBilling(c echo.Context) error {
	members, err := h.accounts.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"members": members,
	})
}

// GenerateBill creates a Pending bill for a member
func (h *BillingHandler) GenerateBill(c echo.Context) error {
	var req generateBillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.DueDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid due date")
	}

	bill, err := h.billing.GenerateBill(c.Request().Context(), services.GenerateBillInput{
		MemberID:    req.MemberID,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     dueDate,
	})
	if err != nil {
		return err
	}

	h.invalidateAggregates(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Bill generated successfully",
		"bill":    bill,
	})
}

// BillDetails returns one bill with its payments and derived state
func (h *BillingHandler) BillDetails(c echo.Context) error {
	billID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bill ID")
	}

	bill, _, err := h.billing.BillDetails(c.Request().Context(), uint(billID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"bill":    newBillView(*bill, time.Now()),
	})
}

// RecordPayment validates and records a payment against a bill and returns
// the new derived status and remaining balance
func (h *BillingHandler) RecordPayment(c echo.Context) error {
	billID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bill ID")
	}

	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.PaymentDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payment date")
	}

	result, err := h.billing.RecordPayment(c.Request().Context(), services.RecordPaymentInput{
		BillID: uint(billID),
		Amount: req.Amount,
		Method: models.PaymentMethod(req.PaymentMethod),
		Date:   paymentDate,
	})
	if err != nil {
		return err
	}

	h.invalidateAggregates(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         "Payment recorded successfully",
		"payment":         result.Payment,
		"billStatus":      result.BillStatus,
		"remainingAmount": result.Remaining,
	})
}

// FinancialReports returns the revenue and collection aggregates, cached
// briefly in Redis when available
func (h *BillingHandler) FinancialReports(c echo.Context) error {
	ctx := c.Request().Context()

	if h.cache != nil {
		reports, err := services.GetOrSet(h.cache, ctx, cacheKeyReports, time.Minute,
			func() (*services.FinancialReports, error) {
				return h.billing.Reports(ctx)
			})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"reports": reports,
		})
	}

	reports, err := h.billing.Reports(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"reports": reports,
	})
}

func (h *BillingHandler) invalidateAggregates(c echo.Context) {
	if h.cache == nil {
		return
	}
	ctx := c.Request().Context()
	_ = h.cache.Delete(ctx, cacheKeyOverview)
	_ = h.cache.Delete(ctx, cacheKeyReports)
}
