package routes

import (
	"errors"
	"net/http"

	"github.com/castgraph/backend/internal/server/middleware"
	"github.com/castgraph/backend/pkg/gutenberg"
	"github.com/castgraph/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetChunkCountHandler reports how many chunks a book splits into
func GetChunkCountHandler(c echo.Context) error {
	type chunkParams struct {
		BookID string `param:"book_id" validate:"required"`
	}

	type chunkResponse struct {
		BookID     string `json:"book_id"`
		ChunkCount int    `json:"chunk_count"`
	}

	params := new(chunkParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	count, err := app.Graph.ChunkCount(ctx, params.BookID, app.Books, app.Store)
	if err != nil {
		if errors.Is(err, gutenberg.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Book not found"})
		}
		logger.Error("[Chunk] chunk count failed", "book_id", params.BookID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to chunk book"})
	}

	return c.JSON(http.StatusOK, chunkResponse{
		BookID:     params.BookID,
		ChunkCount: count,
	})
}
