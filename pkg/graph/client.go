package graph

// Client drives book analysis: chunking, per-chunk character extraction,
// and chunk-grounded question answering. It holds the token counter and the
// fan-out limit for concurrent AI requests.
//
// A Client should be created using NewClient.
type Client struct {
	counter            TokenCounter
	maxChunkTokens     int
	parallelAiRequests int
}

// NewClientParams defines the configuration parameters for creating a new
// Client.
//
// TokenEncoder names the tiktoken encoding used for exact token counts; when
// empty or unavailable a character-ratio estimate is used instead.
// MaxChunkTokens is the per-chunk token budget (default 6000).
// ParallelAiRequests bounds concurrent extraction requests (default 12).
type NewClientParams struct {
	TokenEncoder       string
	MaxChunkTokens     int
	ParallelAiRequests int
}

// NewClient creates and returns a new Client configured with the provided
// parameters.
//
// Example:
//
//	params := graph.NewClientParams{
//		TokenEncoder:       "cl100k_base",
//		MaxChunkTokens:     6000,
//		ParallelAiRequests: 12,
//	}
//	client := graph.NewClient(params)
func NewClient(params NewClientParams) *Client {
	maxChunkTokens := params.MaxChunkTokens
	if maxChunkTokens <= 0 {
		maxChunkTokens = 6000
	}
	parallel := params.ParallelAiRequests
	if parallel <= 0 {
		parallel = 12
	}

	return &Client{
		counter:            NewTokenCounter(params.TokenEncoder),
		maxChunkTokens:     maxChunkTokens,
		parallelAiRequests: parallel,
	}
}
