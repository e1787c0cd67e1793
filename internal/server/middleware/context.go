package middleware

import (
	"github.com/castgraph/backend/internal/util"

	"github.com/labstack/echo/v4"

	"github.com/castgraph/backend/pkg/ai"
	oai "github.com/castgraph/backend/pkg/ai/ollama"
	gai "github.com/castgraph/backend/pkg/ai/openai"
	"github.com/castgraph/backend/pkg/cache"
	"github.com/castgraph/backend/pkg/graph"
	"github.com/castgraph/backend/pkg/gutenberg"
	"github.com/castgraph/backend/pkg/logger"
	"github.com/castgraph/backend/pkg/wiki"
)

type App struct {
	Store    *cache.DiskCache
	Books    *gutenberg.Client
	Graph    *graph.Client
	Wiki     *wiki.Client
	AiClient ai.BookAIClient
}

type AppContext struct {
	echo.Context
	App *App
}

type aiEnv struct {
	Adapter      string
	ChatModel    string
	ExtractModel string
	BaseURL      string
	APIKey       string
	MaxParallel  int64
}

func loadAIEnv() aiEnv {
	return aiEnv{
		Adapter:      util.GetEnv("AI_ADAPTER"),
		ChatModel:    util.GetEnv("AI_CHAT_MODEL"),
		ExtractModel: util.GetEnv("AI_EXTRACT_MODEL"),
		BaseURL:      util.GetEnv("AI_CHAT_URL"),
		APIKey:       util.GetEnv("AI_CHAT_KEY"),
		MaxParallel:  int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 12)),
	}
}

func AppContextMiddleware(
	store *cache.DiskCache,
	books *gutenberg.Client,
	graphClient *graph.Client,
	wikiClient *wiki.Client,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			env := loadAIEnv()
			var aiClient ai.BookAIClient

			switch env.Adapter {
			case "ollama":
				client, err := oai.NewBookOllamaClient(oai.NewBookOllamaClientParams{
					ChatModel:    env.ChatModel,
					ExtractModel: env.ExtractModel,

					BaseURL: env.BaseURL,
					APIKey:  env.APIKey,

					MaxConcurrentRequests: env.MaxParallel,
				})
				if err != nil {
					logger.Fatal("Failed to create Ollama client", "err", err)
				}
				aiClient = client
			default:
				aiClient = gai.NewBookOpenAIClient(gai.NewBookOpenAIClientParams{
					ChatModel:    env.ChatModel,
					ExtractModel: env.ExtractModel,

					BaseURL: env.BaseURL,
					APIKey:  env.APIKey,
				})
			}

			app := &App{
				Store:    store,
				Books:    books,
				Graph:    graphClient,
				Wiki:     wikiClient,
				AiClient: aiClient,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
