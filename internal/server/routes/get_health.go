package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetHealthHandler reports service liveness
func GetHealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
