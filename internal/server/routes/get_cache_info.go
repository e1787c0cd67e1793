package routes

import (
	"net/http"
	"os"

	"github.com/castgraph/backend/internal/server/middleware"
	"github.com/castgraph/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetCacheInfoHandler reports the current state of the disk cache
func GetCacheInfoHandler(c echo.Context) error {
	type cacheInfoResponse struct {
		CacheDir  string  `json:"cache_dir"`
		Exists    bool    `json:"exists"`
		Items     int     `json:"items"`
		SizeBytes int64   `json:"size_bytes"`
		SizeMB    float64 `json:"size_mb"`
	}

	app := c.(*middleware.AppContext).App

	info, err := app.Store.Info()
	if err != nil {
		logger.Error("[Cache] info failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	_, statErr := os.Stat(app.Store.Root())

	return c.JSON(http.StatusOK, cacheInfoResponse{
		CacheDir:  app.Store.Root(),
		Exists:    statErr == nil,
		Items:     info.Items,
		SizeBytes: info.SizeBytes,
		SizeMB:    float64(info.SizeBytes) / (1024 * 1024),
	})
}
