package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gymtrack_echo/internal/middleware"
	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, services.AutoMigrate(db))
	return db
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.JSONErrorHandler
	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGenerateBillEndpoint(t *testing.T) {
	db := newHandlerTestDB(t)
	billing := services.NewBillingService(db)
	accounts := services.NewAccountService(db)
	handler := NewBillingHandler(billing, accounts, nil)

	member := models.User{FirstName: "Ada", LastName: "Lim", Email: "ada@gym.test", Role: models.RoleMember}
	require.NoError(t, db.Create(&member).Error)

	e := newEcho()
	e.POST("/api/admin/bills", handler.GenerateBill)

	rec := doJSON(e, http.MethodPost, "/api/admin/bills",
		`{"memberId":1,"description":"Monthly membership","amount":"100.00","dueDate":"2026-12-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	rec = doJSON(e, http.MethodPost, "/api/admin/bills",
		`{"memberId":1,"description":"Free","amount":"0","dueDate":"2026-12-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/admin/bills",
		`{"memberId":999,"description":"Ghost","amount":"10.00","dueDate":"2026-12-01"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordPaymentEndpoint(t *testing.T) {
	db := newHandlerTestDB(t)
	billing := services.NewBillingService(db)
	accounts := services.NewAccountService(db)
	handler := NewBillingHandler(billing, accounts, nil)

	member := models.User{FirstName: "Ada", LastName: "Lim", Email: "ada@gym.test", Role: models.RoleMember}
	require.NoError(t, db.Create(&member).Error)
	bill, err := billing.GenerateBill(context.Background(), services.GenerateBillInput{
		MemberID:    member.ID,
		Description: "Monthly membership",
		Amount:      decimal.RequireFromString("100.00"),
		DueDate:     time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	e := newEcho()
	e.POST("/api/admin/bills/:id/payments", handler.RecordPayment)

	rec := doJSON(e, http.MethodPost, "/api/admin/bills/1/payments",
		`{"amount":"60.00","paymentMethod":"cash","paymentDate":"2026-11-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(models.BillPartiallyPaid), body["billStatus"])
	assert.Equal(t, "40", body["remainingAmount"])

	// Overpayment rejected with the remaining balance in the message
	rec = doJSON(e, http.MethodPost, "/api/admin/bills/1/payments",
		`{"amount":"50.00","paymentMethod":"cash","paymentDate":"2026-11-02"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "$40.00")

	rec = doJSON(e, http.MethodPost, "/api/admin/bills/1/payments",
		`{"amount":"40.00","paymentMethod":"bank_transfer"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "payment date required")

	rec = doJSON(e, http.MethodPost, "/api/admin/bills/abc/payments",
		`{"amount":"40.00","paymentMethod":"cash","paymentDate":"2026-11-02"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var stored models.Bill
	require.NoError(t, db.First(&stored, bill.ID).Error)
	assert.Equal(t, models.BillPartiallyPaid, stored.Status)
}
