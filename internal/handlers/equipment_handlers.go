package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/services"
)

// EquipmentHandler serves the admin equipment and maintenance endpoints
type EquipmentHandler struct {
	maintenance *services.MaintenanceService
	cache       *services.RedisCache
}

// NewEquipmentHandler creates a new EquipmentHandler
func NewEquipmentHandler(maintenance *services.MaintenanceService, cache *services.RedisCache) *EquipmentHandler {
	return &EquipmentHandler{maintenance: maintenance, cache: cache}
}

// ListEquipment returns all equipment ordered by name
func (h *EquipmentHandler) ListEquipment(c echo.Context) error {
	equipment, err := h.maintenance.ListEquipment(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"equipment": equipment,
	})
}

// AddEquipment registers a new piece of equipment
func (h *EquipmentHandler) AddEquipment(c echo.Context) error {
	var req addEquipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	equipment, err := h.maintenance.AddEquipment(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Equipment added successfully",
		"equipment": equipment,
	})
}

// ListLogs returns all maintenance logs, newest first
func (h *EquipmentHandler) ListLogs(c echo.Context) error {
	logs, err := h.maintenance.ListLogs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"logs":    logs,
	})
}

// ListTasks returns all repair tasks, newest start first
func (h *EquipmentHandler) ListTasks(c echo.Context) error {
	tasks, err := h.maintenance.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"tasks":   tasks,
	})
}

// LogMaintenance reports an issue and moves the equipment under maintenance
func (h *EquipmentHandler) LogMaintenance(c echo.Context) error {
	var req logMaintenanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	logEntry, err := h.maintenance.ReportIssue(c.Request().Context(),
		req.EquipmentID, authFrom(c).UserID, req.IssueDescription)
	if err != nil {
		return err
	}

	h.invalidateOverview(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Maintenance issue logged successfully",
		"log":     logEntry,
	})
}

// AssignRepair creates the repair task for a maintenance log
func (h *EquipmentHandler) AssignRepair(c echo.Context) error {
	var req assignRepairRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.StartTime == "" || req.EndTime == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	start, err := parseDate(req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid start time")
	}
	end, err := parseDate(req.EndTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid end time")
	}

	task, err := h.maintenance.AssignRepair(c.Request().Context(),
		req.LogID, req.Technician, start, end)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Repair task assigned successfully",
		"task":    task,
	})
}

// CompleteRepair finishes a repair task, resolving its log and restoring
// the equipment
func (h *EquipmentHandler) CompleteRepair(c echo.Context) error {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.maintenance.CompleteRepair(c.Request().Context(), uint(taskID)); err != nil {
		return err
	}

	h.invalidateOverview(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Repair task completed successfully",
	})
}

func (h *EquipmentHandler) invalidateOverview(c echo.Context) {
	if h.cache == nil {
		return
	}
	_ = h.cache.Delete(c.Request().Context(), cacheKeyOverview)
}
