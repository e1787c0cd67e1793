package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/castgraph/backend/pkg/ai"
	"github.com/castgraph/backend/pkg/cache"
	"github.com/castgraph/backend/pkg/common"
	"github.com/castgraph/backend/pkg/gutenberg"
	"github.com/castgraph/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// BookSource provides cleaned book text and metadata by id.
// *gutenberg.Client satisfies it.
type BookSource interface {
	FetchBook(ctx context.Context, id string) (*gutenberg.Book, error)
}

func graphKey(bookID string, namesOnly bool) string {
	if namesOnly {
		return bookID + "_names"
	}
	return bookID + "_all"
}

func (g *Client) chunkKey(bookID string) string {
	return fmt.Sprintf("%s_%d", bookID, g.maxChunkTokens)
}

// ChunkBook returns the chunk sequence for a book, computing and caching it
// on first use. The cache key carries the token budget so different budgets
// never collide.
func (g *Client) ChunkBook(
	ctx context.Context,
	bookID string,
	books BookSource,
	store *cache.DiskCache,
) ([]common.Chunk, error) {
	key := g.chunkKey(bookID)

	var cached []common.Chunk
	if err := store.Read(cache.CategoryChunks, key, &cached); err == nil {
		return cached, nil
	}

	book, err := books.FetchBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	chunks := g.chunkText(book.Text)
	if err := store.Write(cache.CategoryChunks, key, chunks); err != nil {
		return nil, err
	}

	logger.Info("[Chunk] Split book", "book_id", bookID, "chunks", len(chunks), "budget", g.maxChunkTokens)
	return chunks, nil
}

// AnalyzeBook builds the merged character graph for a book. A cached graph
// for the same (book id, names-only) pair is returned unchanged without any
// model calls. Otherwise every chunk is sent through extraction on a bounded
// worker group, partial results are merged, and the graph is cached before
// being returned.
//
// A chunk whose response cannot be parsed into the expected shape is skipped
// and logged; any other extraction failure aborts the whole run.
func (g *Client) AnalyzeBook(
	ctx context.Context,
	bookID string,
	namesOnly bool,
	books BookSource,
	aiClient ai.BookAIClient,
	store *cache.DiskCache,
) (*common.Graph, error) {
	key := graphKey(bookID, namesOnly)

	cachedGraph := &common.Graph{}
	if err := store.Read(cache.CategoryGraphs, key, cachedGraph); err == nil {
		return cachedGraph, nil
	}

	book, err := books.FetchBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	chunks, err := g.ChunkBook(ctx, bookID, books, store)
	if err != nil {
		return nil, err
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run ID: %w", err)
	}

	logger.Info("[Analyze] Starting", "run_id", runID, "book_id", bookID, "names_only", namesOnly, "chunks", len(chunks))

	acc := newGraphAccumulator()
	mergeMu := sync.Mutex{}
	total := len(chunks)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelAiRequests)
	for _, chunk := range chunks {
		ch := chunk
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				res, err := extractFromChunk(gCtx, ch, total, namesOnly, aiClient)
				if err != nil {
					if errors.Is(err, ai.ErrMalformedResponse) {
						logger.Warn("[Analyze] Skipping chunk with malformed extraction",
							"run_id", runID, "book_id", bookID, "chunk", ch.Index, "err", err)
						return nil
					}
					return fmt.Errorf("failed to extract chunk %d: %w", ch.Index, err)
				}

				mergeMu.Lock()
				acc.add(res)
				mergeMu.Unlock()
				return nil
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := acc.finalize(book.ID, book.Title, book.Author, namesOnly)
	if err := store.Write(cache.CategoryGraphs, key, result); err != nil {
		return nil, err
	}

	metrics := aiClient.GetMetrics()
	logger.Info("[Analyze] Completed", "run_id", runID, "book_id", bookID,
		"characters", len(result.Characters), "interactions", len(result.Interactions),
		"total_tokens", metrics.TotalTokens)

	return result, nil
}
