package routes

import (
	"errors"
	"net/http"

	"github.com/castgraph/backend/internal/server/middleware"
	"github.com/castgraph/backend/pkg/ai"
	"github.com/castgraph/backend/pkg/graph"
	"github.com/castgraph/backend/pkg/gutenberg"
	"github.com/castgraph/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// QueryBookHandler answers a question about a book, grounded on a small
// chunk selection
func QueryBookHandler(c echo.Context) error {
	type queryBody struct {
		BookID         string `json:"book_id" validate:"required"`
		Question       string `json:"question" validate:"required"`
		ChunkSelection string `json:"chunk_selection" validate:"required,oneof=random user"`
		SelectedChunks []int  `json:"selected_chunks"`
	}

	type queryResponse struct {
		Answer       string           `json:"answer"`
		ChunkIndices []int            `json:"chunk_indices"`
		Metrics      *ai.ModelMetrics `json:"metrics,omitempty"`
	}

	data := new(queryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	answer, indices, err := app.Graph.QueryBook(
		ctx,
		data.BookID,
		data.Question,
		data.ChunkSelection,
		data.SelectedChunks,
		app.Books,
		app.AiClient,
		app.Store,
	)
	if err != nil {
		if errors.Is(err, gutenberg.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Book not found"})
		}
		if errors.Is(err, graph.ErrInvalidChunkIndex) || errors.Is(err, graph.ErrInsufficientChunks) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		logger.Error("[Query] query failed", "book_id", data.BookID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Query failed"})
	}

	metrics := app.AiClient.GetMetrics()
	return c.JSON(http.StatusOK, queryResponse{
		Answer:       answer,
		ChunkIndices: indices,
		Metrics:      &metrics,
	})
}
