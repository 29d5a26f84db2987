package driven

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// RetrievalIndex stores chunk text with embeddings and metadata, and answers
// similarity queries. The core depends on it only through this contract;
// the backing engine (qdrant, in-process) is an adapter concern.
//
// Chunk identity inside the index is derived from (documentID, chunkIndex),
// so re-indexing a document is idempotent.
type RetrievalIndex interface {
	// Add indexes the chunks of one document under the owner's scope.
	Add(ctx context.Context, chunks []domain.Chunk, documentID, ownerID, filename string) error

	// Search returns the k most similar chunks for the query, scoped to
	// ownerID, most similar first. The result may be empty, never nil error
	// for "nothing found".
	Search(ctx context.Context, query, ownerID string, k int) ([]domain.RetrievedChunk, error)

	// Delete removes all chunks of a document. Deleting an unknown
	// document is a no-op, not an error.
	Delete(ctx context.Context, documentID, ownerID string) error

	// Close releases resources.
	Close() error
}
