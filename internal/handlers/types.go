package handlers

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"gymtrack_echo/internal/middleware"
	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

// Request payloads. Field names follow the client's camelCase convention.

type registerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
}

type addMetricRequest struct {
	MetricType  string  `json:"metricType"`
	MetricValue float64 `json:"metricValue"`
}

type setGoalRequest struct {
	GoalType    string  `json:"goalType"`
	TargetValue float64 `json:"targetValue"`
	StartDate   string  `json:"startDate"`
	TargetDate  string  `json:"targetDate"`
}

type availabilityRequest struct {
	Days      []string `json:"days"`
	DayOfWeek string   `json:"dayOfWeek"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Frequency string   `json:"frequency"`
}

type checkOverlapsRequest struct {
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

type generateBillRequest struct {
	MemberID    uint            `json:"memberId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"dueDate"`
}

type recordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentDate   string          `json:"paymentDate"`
}

type logMaintenanceRequest struct {
	EquipmentID      uint   `json:"equipmentId"`
	IssueDescription string `json:"issueDescription"`
}

type assignRepairRequest struct {
	LogID      uint   `json:"logId"`
	Technician string `json:"technician"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

type addEquipmentRequest struct {
	Name string `json:"name"`
}

// billView decorates a bill with its derived state and display status
type billView struct {
	models.Bill
	DisplayStatus   models.BillStatus `json:"display_status"`
	TotalPaid       decimal.Decimal   `json:"total_paid"`
	RemainingAmount decimal.Decimal   `json:"remaining_amount"`
}

func newBillView(bill models.Bill, now time.Time) billView {
	state := services.ComputeBillState(bill, bill.Payments)
	return billView{
		Bill:            bill,
		DisplayStatus:   bill.DisplayStatus(now),
		TotalPaid:       state.TotalPaid,
		RemainingAmount: state.Remaining,
	}
}

// authFrom returns the authenticated caller. Routes behind RequireAuth
// always have one.
func authFrom(c echo.Context) services.AuthContext {
	if auth := middleware.AuthFromContext(c); auth != nil {
		return *auth
	}
	return services.AuthContext{}
}

// parseDate accepts "2006-01-02" or RFC 3339 timestamps
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func weekdays(days []string) []models.Weekday {
	out := make([]models.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, models.Weekday(d))
	}
	return out
}
