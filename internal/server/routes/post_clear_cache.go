package routes

import (
	"net/http"

	"github.com/castgraph/backend/internal/server/middleware"
	"github.com/castgraph/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ClearCacheHandler deletes every cached book, chunk list, and graph
func ClearCacheHandler(c echo.Context) error {
	type clearCacheResponse struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		CacheDir string `json:"cache_dir"`
	}

	app := c.(*middleware.AppContext).App

	if err := app.Store.Clear(); err != nil {
		logger.Error("[Cache] clear failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	logger.Info("[Cache] cleared", "cache_dir", app.Store.Root())
	return c.JSON(http.StatusOK, clearCacheResponse{
		Status:   "ok",
		Message:  "Cache cleared",
		CacheDir: app.Store.Root(),
	})
}
