package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	icache "github.com/marvin-fritz/webapi/internal/service/cache"
	"github.com/marvin-fritz/webapi/internal/usecase"
	xhttp "github.com/marvin-fritz/webapi/pkg/http"
	xlogger "github.com/marvin-fritz/webapi/pkg/logger"
)

// TickerHandler serves the notable-stocks ticker endpoints.
type TickerHandler struct {
	ticker  *usecase.TickerUseCase
	cache   icache.BytesCache
	metrics domrepo.Metrics
	log     *xlogger.Logger
	ttl     time.Duration
}

func NewTickerHandler(ticker *usecase.TickerUseCase, cache icache.BytesCache,
	metrics domrepo.Metrics, log *xlogger.Logger, ttl time.Duration) *TickerHandler {
	return &TickerHandler{ticker: ticker, cache: cache, metrics: metrics, log: log, ttl: ttl}
}

func (h *TickerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/ticker")
	g.GET("", h.Ticker)
	g.GET("/:isin", h.TickerByISIN)
}

func (h *TickerHandler) Ticker(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params := usecase.TickerParams{
		Days:           req.Days,
		MinTrades:      req.MinTrades,
		MinTotalAmount: req.MinTotalAmount,
		ISINs:          splitISINs(req.ISIN),
		Source:         req.Source,
		Limit:          req.Limit,
	}

	key := fmt.Sprintf("ticker:%d:%d:%.0f:%s:%s:%d",
		req.Days, req.MinTrades, req.MinTotalAmount, req.ISIN, req.Source, req.Limit)
	return respondCached(c, h.cache, h.metrics, h.log, "ticker", key, h.ttl, func() interface{} {
		return h.ticker.Signals(c.Request().Context(), params)
	})
}

func (h *TickerHandler) TickerByISIN(c echo.Context) error {
	req := &models.TickerByISINRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params := usecase.TickerParams{
		Days:           req.Days,
		MinTrades:      req.MinTrades,
		MinTotalAmount: req.MinTotalAmount,
	}

	key := fmt.Sprintf("ticker:isin:%s:%d:%d:%.0f", req.ISIN, req.Days, req.MinTrades, req.MinTotalAmount)
	return respondCached(c, h.cache, h.metrics, h.log, "ticker_isin", key, h.ttl, func() interface{} {
		return h.ticker.SignalsByISIN(c.Request().Context(), req.ISIN, params)
	})
}

func splitISINs(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	isins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			isins = append(isins, strings.ToUpper(p))
		}
	}
	return isins
}
