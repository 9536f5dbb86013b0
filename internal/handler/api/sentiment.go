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

// SentimentHandler serves the sentiment and market-breadth endpoints.
type SentimentHandler struct {
	sentiment  *usecase.SentimentUseCase
	breadth    *usecase.BreadthUseCase
	cache      icache.BytesCache
	metrics    domrepo.Metrics
	log        *xlogger.Logger
	ttl        time.Duration
	breadthTTL time.Duration
}

func NewSentimentHandler(sentiment *usecase.SentimentUseCase, breadth *usecase.BreadthUseCase,
	cache icache.BytesCache, metrics domrepo.Metrics, log *xlogger.Logger, ttl, breadthTTL time.Duration) *SentimentHandler {
	return &SentimentHandler{
		sentiment:  sentiment,
		breadth:    breadth,
		cache:      cache,
		metrics:    metrics,
		log:        log,
		ttl:        ttl,
		breadthTTL: breadthTTL,
	}
}

func (h *SentimentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/sentiment")
	g.GET("", h.Sentiment)
	g.GET("/current", h.Current)
	g.GET("/market-breadth", h.MarketBreadth)
	g.GET("/top-movers", h.TopMovers)
	g.GET("/trends", h.Trends)
}

func (h *SentimentHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("sentiment:%d:%s", req.Days, req.Jurisdiction)
	return respondCached(c, h.cache, h.metrics, h.log, "sentiment", key, h.ttl, func() interface{} {
		return h.sentiment.CalculateSentiment(c.Request().Context(), req.Days, req.Jurisdiction)
	})
}

func (h *SentimentHandler) Current(c echo.Context) error {
	req := &models.CurrentSentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := "sentiment:current:" + req.Jurisdiction
	return respondCached(c, h.cache, h.metrics, h.log, "sentiment_current", key, h.ttl, func() interface{} {
		return h.sentiment.CurrentSentiment(c.Request().Context(), req.Jurisdiction)
	})
}

func (h *SentimentHandler) MarketBreadth(c echo.Context) error {
	req := &models.BreadthRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("breadth:%d:%s", req.Days, req.Jurisdiction)
	return respondCached(c, h.cache, h.metrics, h.log, "market_breadth", key, h.breadthTTL, func() interface{} {
		return h.breadth.MarketBreadth(c.Request().Context(), req.Days, req.Jurisdiction)
	})
}

func (h *SentimentHandler) TopMovers(c echo.Context) error {
	req := &models.TopMoversRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("movers:%d:%d:%d:%s", req.Days, req.Limit, req.MinTransactions, req.Jurisdiction)
	return respondCached(c, h.cache, h.metrics, h.log, "top_movers", key, h.breadthTTL, func() interface{} {
		return h.breadth.TopMovers(c.Request().Context(), req.Days, req.Limit, req.MinTransactions, req.Jurisdiction)
	})
}

func (h *SentimentHandler) Trends(c echo.Context) error {
	req := &models.TrendsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := "trends:" + req.Jurisdiction
	return respondCached(c, h.cache, h.metrics, h.log, "trends", key, h.ttl, func() interface{} {
		return h.sentiment.CalculateTrends(c.Request().Context(), req.Jurisdiction)
	})
}
