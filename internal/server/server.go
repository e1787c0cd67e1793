package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/castgraph/backend/internal/server/middleware"
	"github.com/castgraph/backend/internal/util"
	"github.com/castgraph/backend/pkg/cache"
	"github.com/castgraph/backend/pkg/graph"
	"github.com/castgraph/backend/pkg/gutenberg"
	"github.com/castgraph/backend/pkg/logger"
	"github.com/castgraph/backend/pkg/wiki"

	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// validateAIEnv rejects configurations that cannot complete a single model
// call. Hosted OpenAI-compatible endpoints always need a key; Ollama runs
// without one.
func validateAIEnv(adapter, chatKey string) error {
	if adapter != "ollama" && chatKey == "" {
		return errors.New("AI_CHAT_KEY must be set for the openai adapter")
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	if err := validateAIEnv(util.GetEnv("AI_ADAPTER"), util.GetEnv("AI_CHAT_KEY")); err != nil {
		logger.Fatal("Invalid AI configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := cache.New(util.GetEnvString("CACHE_DIR", "cache"))
	if err != nil {
		logger.Fatal("Failed to create cache", "err", err)
	}

	books, err := gutenberg.NewClient(gutenberg.NewClientParams{
		BaseURL:         util.GetEnv("GUTENBERG_URL"),
		Store:           store,
		MemoryCacheSize: int(util.GetEnvNumeric("BOOK_MEMORY_CACHE", 16)),
	})
	if err != nil {
		logger.Fatal("Failed to create book client", "err", err)
	}

	graphClient := graph.NewClient(graph.NewClientParams{
		TokenEncoder:       util.GetEnvString("TOKEN_ENCODER", "cl100k_base"),
		MaxChunkTokens:     int(util.GetEnvNumeric("MAX_CHUNK_TOKENS", 6000)),
		ParallelAiRequests: int(util.GetEnvNumeric("AI_PARALLEL_REQ", 12)),
	})

	wikiClient := wiki.NewClient(wiki.NewClientParams{
		BaseURL: util.GetEnv("WIKI_URL"),
	})

	e.Use(mid.AppContextMiddleware(store, books, graphClient, wikiClient))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
