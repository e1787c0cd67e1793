package graph

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/castgraph/backend/pkg/ai"
	"github.com/castgraph/backend/pkg/cache"
	"github.com/castgraph/backend/pkg/logger"
)

// Chunk selection strategies for QueryBook.
const (
	SelectionRandom = "random"
	SelectionUser   = "user"
)

// randomSelectionSize is how many chunks the random strategy picks when the
// book has at least that many.
const randomSelectionSize = 3

// maxUserSelection bounds how many chunks a caller may pick explicitly.
const maxUserSelection = 3

// QueryBook answers a free-form question about a book, grounded on a small
// selection of its chunks. The random strategy picks up to three distinct
// chunks; the user strategy takes one to three explicit indices, each
// validated against the book's chunk count. Answers come straight from the
// model and are never cached.
func (g *Client) QueryBook(
	ctx context.Context,
	bookID string,
	question string,
	selection string,
	selectedChunks []int,
	books BookSource,
	aiClient ai.BookAIClient,
	store *cache.DiskCache,
) (string, []int, error) {
	chunks, err := g.ChunkBook(ctx, bookID, books, store)
	if err != nil {
		return "", nil, err
	}

	indices, err := selectChunks(selection, selectedChunks, len(chunks))
	if err != nil {
		return "", nil, err
	}

	var prompt strings.Builder
	for _, idx := range indices {
		fmt.Fprintf(&prompt, "## Excerpt (chunk %d)\n%s\n\n", idx, chunks[idx].Text)
	}
	fmt.Fprintf(&prompt, "## Question\n%s", question)

	logger.Info("[Query] Answering question", "book_id", bookID, "selection", selection, "chunks", indices)

	answer, err := aiClient.GenerateCompletion(
		ctx,
		prompt.String(),
		ai.WithSystemPrompts(ai.QueryPrompt),
	)
	if err != nil {
		return "", nil, err
	}

	return answer, indices, nil
}

// selectChunks resolves the chunk selection strategy into a sorted list of
// distinct indices within [0, chunkCount).
func selectChunks(selection string, selectedChunks []int, chunkCount int) ([]int, error) {
	switch selection {
	case SelectionRandom:
		if chunkCount == 0 {
			return nil, ErrInsufficientChunks
		}
		perm := rand.Perm(chunkCount)
		n := min(randomSelectionSize, chunkCount)
		indices := append([]int{}, perm[:n]...)
		sort.Ints(indices)
		return indices, nil

	case SelectionUser:
		if len(selectedChunks) == 0 || len(selectedChunks) > maxUserSelection {
			return nil, fmt.Errorf("%w: expected 1 to %d chunk indices, got %d",
				ErrInvalidChunkIndex, maxUserSelection, len(selectedChunks))
		}
		seen := make(map[int]bool, len(selectedChunks))
		indices := make([]int, 0, len(selectedChunks))
		for _, idx := range selectedChunks {
			if idx < 0 || idx >= chunkCount {
				return nil, fmt.Errorf("%w: index %d out of range [0, %d)",
					ErrInvalidChunkIndex, idx, chunkCount)
			}
			if seen[idx] {
				continue
			}
			seen[idx] = true
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		return indices, nil

	default:
		return nil, fmt.Errorf("%w: unknown selection strategy %q", ErrInvalidChunkIndex, selection)
	}
}

// ChunkCount reports how many chunks a book splits into under the client's
// token budget, chunking and caching on first use.
func (g *Client) ChunkCount(
	ctx context.Context,
	bookID string,
	books BookSource,
	store *cache.DiskCache,
) (int, error) {
	chunks, err := g.ChunkBook(ctx, bookID, books, store)
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}
