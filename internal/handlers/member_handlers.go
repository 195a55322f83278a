package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

// MemberHandler serves the member dashboard, health tracking and bill
// payment endpoints
type MemberHandler struct {
	accounts  *services.AccountService
	fitness   *services.FitnessService
	billing   *services.BillingService
	checkout  *services.CheckoutService
	finishURL string
}

// NewMemberHandler creates a new MemberHandler. finishURL is where the
// gateway sends the customer after checkout; empty falls back to the
// request host.
func NewMemberHandler(accounts *services.AccountService, fitness *services.FitnessService, billing *services.BillingService, checkout *services.CheckoutService, finishURL string) *MemberHandler {
	return &MemberHandler{accounts: accounts, fitness: fitness, billing: billing, checkout: checkout, finishURL: finishURL}
}

// finishCallbackURL resolves the checkout finish page: the configured URL
// when set, otherwise the root of the requesting host
func finishCallbackURL(c echo.Context, configured string) string {
	if configured != "" {
		return configured
	}
	return fmt.Sprintf("%s://%s/", c.Scheme(), c.Request().Host)
}

// Profile returns the caller's profile with latest metrics and active goal
func (h *MemberHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	auth := authFrom(c)

	user, err := h.accounts.GetUser(ctx, auth.UserID)
	if err != nil {
		return err
	}
	latest, err := h.fitness.LatestMetrics(ctx, auth.UserID)
	if err != nil {
		return err
	}
	activeGoal, err := h.fitness.ActiveGoal(ctx, auth.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"user":          user,
		"latestMetrics": latest,
		"activeGoal":    activeGoal,
	})
}

// Dashboard returns the member dashboard payload: counters, latest readings,
// the active goal and its progress
func (h *MemberHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	auth := authFrom(c)

	user, err := h.accounts.GetUser(ctx, auth.UserID)
	if err != nil {
		return err
	}
	latest, err := h.fitness.LatestMetrics(ctx, auth.UserID)
	if err != nil {
		return err
	}
	activeGoal, err := h.fitness.ActiveGoal(ctx, auth.UserID)
	if err != nil {
		return err
	}

	metrics := []map[string]interface{}{}
	for metricType, value := range latest {
		metrics = append(metrics, map[string]interface{}{
			"metric_type":   metricType,
			"current_value": value,
		})
	}

	var progress *services.GoalProgress
	if activeGoal != nil {
		if current, ok := latest[activeGoal.GoalType.MetricType()]; ok {
			p := services.ComputeProgress(*activeGoal, current)
			progress = &p
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"user":       user,
		"metrics":    metrics,
		"activeGoal": activeGoal,
		"progress":   progress,
	})
}

// UpdateProfile applies a partial profile update for the caller
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	in := services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		Phone:     req.Phone,
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date of birth")
		}
		in.DateOfBirth = &dob
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), authFrom(c).UserID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// AddMetric logs a health reading for the caller
func (h *MemberHandler) AddMetric(c echo.Context) error {
	var req addMetricRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	metric, err := h.fitness.AddMetric(c.Request().Context(), authFrom(c).UserID,
		models.MetricType(req.MetricType), req.MetricValue)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Health metric added successfully",
		"metric":  metric,
	})
}

// MetricHistory returns all readings of one metric type, oldest first
func (h *MemberHandler) MetricHistory(c echo.Context) error {
	metricType := models.MetricType(c.QueryParam("type"))

	history, err := h.fitness.History(c.Request().Context(), authFrom(c).UserID, metricType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"history":    history,
		"metricType": metricType,
	})
}

// SetGoal creates a new active fitness goal, replacing any active goal of
// the same type
func (h *MemberHandler) SetGoal(c echo.Context) error {
	var req setGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	in := services.SetGoalInput{
		GoalType:    models.GoalType(req.GoalType),
		TargetValue: req.TargetValue,
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid start date")
		}
		in.StartDate = start
	}
	if req.TargetDate != "" {
		target, err := parseDate(req.TargetDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid target date")
		}
		in.TargetDate = &target
	}

	goal, err := h.fitness.SetGoal(c.Request().Context(), authFrom(c).UserID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Fitness goal set successfully",
		"goal":    goal,
	})
}

// MyBills lists the caller's bills with derived state and display status
func (h *MemberHandler) MyBills(c echo.Context) error {
	bills, err := h.billing.MemberBills(c.Request().Context(), authFrom(c).UserID)
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

// PayBill starts an online checkout for the remaining balance of a bill
func (h *MemberHandler) PayBill(c echo.Context) error {
	if h.checkout == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Online payment not configured")
	}

	billID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bill ID")
	}
	forceNew := c.QueryParam("force_new") == "true"

	callbackURL := finishCallbackURL(c, h.finishURL)
	result, err := h.checkout.InitiateCheckout(c.Request().Context(), authFrom(c), uint(billID), forceNew, callbackURL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":        result.Token,
		"redirect_url": result.RedirectURL,
		"is_existing":  result.IsExisting,
	})
}
