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

// AnalyzeBookHandler runs the full character graph analysis for a book
func AnalyzeBookHandler(c echo.Context) error {
	type analyzeBody struct {
		BookID    string `json:"book_id" validate:"required"`
		NamesOnly bool   `json:"names_only"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	graph, err := app.Graph.AnalyzeBook(ctx, data.BookID, data.NamesOnly, app.Books, app.AiClient, app.Store)
	if err != nil {
		if errors.Is(err, gutenberg.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Book not found"})
		}
		logger.Error("[Analyze] analysis failed", "book_id", data.BookID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Analysis failed"})
	}

	return c.JSON(http.StatusOK, graph)
}
