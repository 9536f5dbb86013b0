package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "github.com/marvin-fritz/webapi/pkg/logger"
)

// AccessLog writes one structured line per request. Health and metrics
// probes go to debug level so they do not drown out trade traffic.
func AccessLog(log *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("path", req.URL.Path),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("latency", time.Since(start)),
			}
			switch req.URL.Path {
			case "/health", "/metrics":
				log.Debug("request", fields...)
			default:
				log.Info("request", fields...)
			}

			return err
		}
	}
}
