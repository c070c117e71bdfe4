package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterHealthRoutes exposes a liveness probe.
func RegisterHealthRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
