package openai

import (
	"sync"

	"github.com/castgraph/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// BookOpenAIClient implements ai.BookAIClient against any OpenAI-compatible
// chat completion API (OpenAI itself, Groq, and similar hosted endpoints).
//
// A BookOpenAIClient should be created using NewBookOpenAIClient.
type BookOpenAIClient struct {
	chatModel    string
	extractModel string

	baseURL string
	apiKey  string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *openai.Client
}

// NewBookOpenAIClientParams defines the configuration parameters for creating
// a new BookOpenAIClient.
//
// ChatModel is used for plain-text answers, ExtractModel for structured
// extraction. BaseURL may point at any OpenAI-compatible endpoint; when
// empty the official OpenAI API is used.
type NewBookOpenAIClientParams struct {
	ChatModel    string
	ExtractModel string

	BaseURL string
	APIKey  string
}

// NewBookOpenAIClient creates and returns a new BookOpenAIClient configured
// with the provided parameters.
//
// Example:
//
//	client := openai.NewBookOpenAIClient(openai.NewBookOpenAIClientParams{
//		ChatModel:    "llama-3.3-70b-versatile",
//		ExtractModel: "llama-3.3-70b-versatile",
//		BaseURL:      "https://api.groq.com/openai/v1",
//		APIKey:       os.Getenv("AI_CHAT_KEY"),
//	})
func NewBookOpenAIClient(params NewBookOpenAIClientParams) *BookOpenAIClient {
	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	client := openai.NewClient(options...)

	return &BookOpenAIClient{
		chatModel:    params.ChatModel,
		extractModel: params.ExtractModel,

		baseURL: params.BaseURL,
		apiKey:  params.APIKey,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		Client: &client,
	}
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *BookOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since
// the last reset.
func (c *BookOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *BookOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}
