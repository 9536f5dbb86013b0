package api

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	icache "github.com/marvin-fritz/webapi/internal/service/cache"
	"github.com/marvin-fritz/webapi/internal/usecase"
	xhttp "github.com/marvin-fritz/webapi/pkg/http"
	xlogger "github.com/marvin-fritz/webapi/pkg/logger"
)

// DashboardHandler serves the operational dashboard endpoints. These are
// polled frequently, so their cache TTLs are short.
type DashboardHandler struct {
	dashboard *usecase.DashboardUseCase
	cache     icache.BytesCache
	metrics   domrepo.Metrics
	log       *xlogger.Logger
	statsTTL  time.Duration
	quickTTL  time.Duration
}

func NewDashboardHandler(dashboard *usecase.DashboardUseCase, cache icache.BytesCache,
	metrics domrepo.Metrics, log *xlogger.Logger, statsTTL, quickTTL time.Duration) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		cache:     cache,
		metrics:   metrics,
		log:       log,
		statsTTL:  statsTTL,
		quickTTL:  quickTTL,
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/dashboard")
	g.GET("/stats", h.Stats)
	g.GET("/quick", h.Quick)
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	req := &models.DashboardStatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("dashboard:%d:%s:%t", req.Hours, req.Timezone, req.Extended)
	return respondCached(c, h.cache, h.metrics, h.log, "dashboard_stats", key, h.statsTTL, func() interface{} {
		return h.dashboard.Stats(c.Request().Context(), req.Hours, req.Timezone, req.Extended)
	})
}

func (h *DashboardHandler) Quick(c echo.Context) error {
	req := &models.QuickStatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("dashboard:quick:%d", req.Hours)
	return respondCached(c, h.cache, h.metrics, h.log, "dashboard_quick", key, h.quickTTL, func() interface{} {
		return h.dashboard.QuickStats(c.Request().Context(), req.Hours)
	})
}
