package api

import (
	"github.com/labstack/echo/v4"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	"github.com/marvin-fritz/webapi/internal/usecase"
	xhttp "github.com/marvin-fritz/webapi/pkg/http"
	xlogger "github.com/marvin-fritz/webapi/pkg/logger"
)

// TradesHandler serves the raw insider-trade read API. No caching: callers
// page through live data.
type TradesHandler struct {
	trades *usecase.TradesUseCase
	log    *xlogger.Logger
}

func NewTradesHandler(trades *usecase.TradesUseCase, log *xlogger.Logger) *TradesHandler {
	return &TradesHandler{trades: trades, log: log}
}

func (h *TradesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/insider-trades")
	g.GET("", h.List)
	g.GET("/count", h.Count)
	g.GET("/stats", h.Stats)
	g.GET("/:uid", h.Get)
}

func (h *TradesHandler) List(c echo.Context) error {
	req := &models.ListTradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	trades, total, err := h.trades.List(c.Request().Context(), req)
	if err != nil {
		h.log.Error("trades list failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if trades == nil {
		trades = []*models.Transaction{}
	}
	return xhttp.ListResponse(c, trades, total)
}

func (h *TradesHandler) Count(c echo.Context) error {
	req := &models.ListTradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	total, err := h.trades.Count(c.Request().Context(), req)
	if err != nil {
		h.log.Error("trades count failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]int64{"total": total})
}

func (h *TradesHandler) Get(c echo.Context) error {
	req := &models.GetTradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	trade, err := h.trades.Get(c.Request().Context(), req.UID)
	if err != nil {
		h.log.Error("trade lookup failed", xlogger.Error(err), xlogger.String("uid", req.UID))
		return xhttp.AppErrorResponse(c, err)
	}
	if trade == nil {
		return xhttp.NotFoundResponse(c, map[string]string{"uid": req.UID})
	}
	return xhttp.SuccessResponse(c, trade)
}

func (h *TradesHandler) Stats(c echo.Context) error {
	req := &models.TradeStatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stats, err := h.trades.AggregatedStats(c.Request().Context(), req.ISIN, req.Jurisdiction, req.Days)
	if err != nil {
		h.log.Error("trade stats failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, stats)
}
