package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

// DashboardHandler serves the admin system overview
type DashboardHandler struct {
	accounts    *services.AccountService
	billing     *services.BillingService
	maintenance *services.MaintenanceService
	cache       *services.RedisCache
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(accounts *services.AccountService, billing *services.BillingService, maintenance *services.MaintenanceService, cache *services.RedisCache) *DashboardHandler {
	return &DashboardHandler{accounts: accounts, billing: billing, maintenance: maintenance, cache: cache}
}

type systemOverview struct {
	ActiveMembers   int64 `json:"activeMembers"`
	EquipmentIssues int64 `json:"equipmentIssues"`
	PendingBills    int64 `json:"pendingBills"`
	ActiveTrainers  int64 `json:"activeTrainers"`
}

// Overview returns headline counts for the admin dashboard, cached briefly
// in Redis when available
func (h *DashboardHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()

	load := func() (systemOverview, error) {
		var overview systemOverview
		var err error
		if overview.ActiveMembers, err = h.accounts.CountByRole(ctx, models.RoleMember); err != nil {
			return overview, err
		}
		if overview.ActiveTrainers, err = h.accounts.CountByRole(ctx, models.RoleTrainer); err != nil {
			return overview, err
		}
		if overview.EquipmentIssues, err = h.maintenance.OpenIssueCount(ctx); err != nil {
			return overview, err
		}
		if overview.PendingBills, err = h.billing.PendingBillCount(ctx); err != nil {
			return overview, err
		}
		return overview, nil
	}

	var overview systemOverview
	var err error
	if h.cache != nil {
		overview, err = services.GetOrSet(h.cache, ctx, cacheKeyOverview, time.Minute, load)
	} else {
		overview, err = load()
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"overview": overview,
	})
}
