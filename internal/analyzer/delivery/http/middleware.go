package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"golang-sentiment-scryper/pkg/logger"
)

// RequestLogger logs every request once it is served. It expects the echo
// RequestID middleware to run first so the id can be attached to the request
// context.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				req = req.WithContext(logger.ContextWithRequestID(req.Context(), id))
				c.SetRequest(req)
			}

			if err := next(c); err != nil {
				c.Error(err)
			}

			log.InfoContext(req.Context(), "HTTP request",
				logger.StringField("method", req.Method),
				logger.StringField("path", c.Path()),
				logger.IntField("status", c.Response().Status),
				logger.Field("latency", time.Since(start)),
			)
			return nil
		}
	}
}
