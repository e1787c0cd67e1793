package routes

import (
	"errors"
	"net/http"

	"github.com/castgraph/backend/internal/server/middleware"
	"github.com/castgraph/backend/pkg/logger"
	"github.com/castgraph/backend/pkg/wiki"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetCharacterImageHandler looks up a portrait image for a character name
func GetCharacterImageHandler(c echo.Context) error {
	type imageParams struct {
		Name string `query:"name" validate:"required"`
	}

	type imageResponse struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	params := new(imageParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	url, err := app.Wiki.ImageURL(ctx, params.Name)
	if err != nil {
		if errors.Is(err, wiki.ErrNoImage) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No image found"})
		}
		logger.Error("[Image] lookup failed", "name", params.Name, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Image lookup failed"})
	}

	return c.JSON(http.StatusOK, imageResponse{
		Name: params.Name,
		URL:  url,
	})
}
