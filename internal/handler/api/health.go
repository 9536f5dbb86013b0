package api

import (
	"time"

	"github.com/labstack/echo/v4"

	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	xhttp "github.com/marvin-fritz/webapi/pkg/http"
)

// HealthHandler reports service and storage health.
type HealthHandler struct {
	store domrepo.TradeStore
}

func NewHealthHandler(store domrepo.TradeStore) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/health", h.Health)
}

type healthStatus struct {
	Status  string    `json:"status"`
	Storage string    `json:"storage"`
	Time    time.Time `json:"time"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	status := healthStatus{Status: "ok", Storage: "ok", Time: time.Now().UTC()}
	if err := h.store.Health(c.Request().Context()); err != nil {
		status.Status = "degraded"
		status.Storage = err.Error()
	}
	return xhttp.SuccessResponse(c, status)
}
