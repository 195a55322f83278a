package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

// TrainerHandler serves the trainer member-search and availability endpoints
type TrainerHandler struct {
	accounts     *services.AccountService
	fitness      *services.FitnessService
	availability *services.AvailabilityService
}

// NewTrainerHandler creates a new TrainerHandler
func NewTrainerHandler(accounts *services.AccountService, fitness *services.FitnessService, availability *services.AvailabilityService) *TrainerHandler {
	return &TrainerHandler{accounts: accounts, fitness: fitness, availability: availability}
}

// Members lists all members for the trainer search view
func (h *TrainerHandler) Members(c echo.Context) error {
	members, err := h.accounts.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"members": members,
	})
}

// MemberDetails returns one member with their latest metrics and active goal
func (h *TrainerHandler) MemberDetails(c echo.Context) error {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid member ID")
	}

	ctx := c.Request().Context()
	member, err := h.accounts.GetMember(ctx, uint(memberID))
	if err != nil {
		return err
	}
	latest, err := h.fitness.LatestMetrics(ctx, member.ID)
	if err != nil {
		return err
	}
	activeGoal, err := h.fitness.ActiveGoal(ctx, member.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"memberData": map[string]interface{}{
			"user":          member,
			"latestMetrics": latest,
			"activeGoal":    activeGoal,
		},
	})
}

// ListAvailability returns the caller's availability slots
func (h *TrainerHandler) ListAvailability(c echo.Context) error {
	slots, err := h.availability.List(c.Request().Context(), authFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"availability": slots,
	})
}

// AddAvailability validates and stores a slot submission. Multi-day
// submissions are all-or-nothing.
func (h *TrainerHandler) AddAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	days := req.Days
	if len(days) == 0 && req.DayOfWeek != "" {
		days = []string{req.DayOfWeek}
	}

	in := services.AvailabilityInput{
		Days:      weekdays(days),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Frequency: models.Frequency(req.Frequency),
	}
	created, err := h.availability.Add(c.Request().Context(), authFrom(c).UserID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Availability added successfully",
		"availability": created,
	})
}

// RemoveAvailability deletes one of the caller's slots
func (h *TrainerHandler) RemoveAvailability(c echo.Context) error {
	availabilityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid availability ID")
	}

	err = h.availability.Remove(c.Request().Context(), authFrom(c).UserID, uint(availabilityID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Availability removed successfully",
	})
}

// CheckOverlaps tests a submission against the caller's existing slots
func (h *TrainerHandler) CheckOverlaps(c echo.Context) error {
	var req checkOverlapsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if len(req.Days) == 0 || req.StartTime == "" || req.EndTime == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Required fields missing")
	}

	hasOverlap, err := h.availability.CheckOverlaps(c.Request().Context(),
		authFrom(c).UserID, weekdays(req.Days), req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"hasOverlap": hasOverlap})
}

// Schedule expands the caller's slots into upcoming session occurrences
func (h *TrainerHandler) Schedule(c echo.Context) error {
	days := 14
	if d, err := strconv.Atoi(c.QueryParam("days")); err == nil && d > 0 && d <= 90 {
		days = d
	}

	sessions, err := h.availability.UpcomingSessions(c.Request().Context(),
		authFrom(c).UserID, time.Now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"schedule": sessions,
	})
}
