package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	icache "github.com/marvin-fritz/webapi/internal/service/cache"
	xhttp "github.com/marvin-fritz/webapi/pkg/http"
	xlogger "github.com/marvin-fritz/webapi/pkg/logger"
)

// respondCached serves the response envelope from cache when possible and
// stores the freshly rendered bytes otherwise. Cache failures are logged
// and ignored; the response is always computed.
func respondCached(c echo.Context, bc icache.BytesCache, metrics domrepo.Metrics, log *xlogger.Logger,
	endpoint, key string, ttl time.Duration, compute func() interface{}) error {

	ctx := c.Request().Context()
	if bc != nil {
		b, ok, err := bc.GetBytes(ctx, key)
		switch {
		case err != nil:
			log.Warn("cache get failed", xlogger.Error(err), xlogger.String("key", key))
			metrics.RecordError("cache_get")
		case ok:
			metrics.RecordCacheRequest(endpoint, "hit")
			return c.JSONBlob(http.StatusOK, b)
		default:
			metrics.RecordCacheRequest(endpoint, "miss")
		}
	}

	b, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    compute(),
	})
	if err != nil {
		log.Error("response marshal failed", xlogger.Error(err), xlogger.String("endpoint", endpoint))
		return xhttp.InternalServerErrorResponse(c)
	}

	if bc != nil && ttl > 0 {
		if err := bc.SetBytes(ctx, key, b, ttl); err != nil {
			log.Warn("cache set failed", xlogger.Error(err), xlogger.String("key", key))
			metrics.RecordError("cache_set")
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}
