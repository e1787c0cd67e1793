package graph

import "errors"

var (
	// ErrInvalidChunkIndex is returned when a user-selected chunk index is
	// outside the book's chunk range, or more than the allowed number of
	// chunks was selected.
	ErrInvalidChunkIndex = errors.New("invalid chunk selection")

	// ErrInsufficientChunks is returned when a book has no chunks to select
	// from.
	ErrInsufficientChunks = errors.New("not enough chunks available")
)
