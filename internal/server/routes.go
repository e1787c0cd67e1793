package server

import (
	"github.com/castgraph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	apiRoutes.GET("/health", routes.GetHealthHandler)

	// Analysis routes
	apiRoutes.POST("/analyze", routes.AnalyzeBookHandler)
	apiRoutes.POST("/query", routes.QueryBookHandler)
	apiRoutes.GET("/chunks/:book_id", routes.GetChunkCountHandler)

	// Character routes
	apiRoutes.GET("/character_image", routes.GetCharacterImageHandler)

	// Cache routes
	apiRoutes.GET("/cache_info", routes.GetCacheInfoHandler)
	apiRoutes.POST("/clear_cache", routes.ClearCacheHandler)
}
