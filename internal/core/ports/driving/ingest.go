package driving

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// IngestService turns uploaded files into indexed chunks.
type IngestService interface {
	// Ingest extracts, chunks and indexes one document. It fails on
	// unsupported formats and unreadable content. An empty result with a
	// nil error means the document had no extractable text; callers must
	// treat that as a rejection, not a silent success.
	Ingest(ctx context.Context, content []byte, filename, documentID, ownerID string) ([]domain.Chunk, error)

	// Delete removes a document's chunks from the index. Idempotent.
	Delete(ctx context.Context, documentID, ownerID string) error
}
