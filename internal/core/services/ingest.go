package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the extract -> chunk -> index pipeline for uploads.
type IngestService struct {
	registry driven.ExtractorRegistry
	chunker  driven.Chunker
	index    driven.RetrievalIndex
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry driven.ExtractorRegistry,
	chunker driven.Chunker,
	index driven.RetrievalIndex,
) *IngestService {
	return &IngestService{
		registry: registry,
		chunker:  chunker,
		index:    index,
	}
}

// Ingest extracts text from the file, chunks each extracted segment with its
// provenance, and indexes the result under the owner's scope. A document
// with no extractable text yields zero chunks and is not indexed.
func (s *IngestService) Ingest(
	ctx context.Context, content []byte, filename, documentID, ownerID string,
) ([]domain.Chunk, error) {
	logger.Section("Document Ingestion")
	logger.Debug("File: %s (%d bytes), document=%s owner=%s", filename, len(content), documentID, ownerID)

	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if documentID == "" {
		return nil, fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	extractor, err := s.registry.ForFilename(filename)
	if err != nil {
		return nil, err
	}

	segments, err := extractor.Extract(ctx, content, filename)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extracted %d segments", len(segments))

	var chunks []domain.Chunk
	for _, seg := range segments {
		chunks = append(chunks, s.chunker.Chunk(seg.Text, seg.Page, seg.Type)...)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	if len(chunks) == 0 {
		logger.Warn("No extractable text in %s, nothing indexed", filename)
		return nil, nil
	}

	if err := s.index.Add(ctx, chunks, documentID, ownerID, filename); err != nil {
		return nil, fmt.Errorf("index document %s: %w", documentID, err)
	}

	logger.Info("Indexed %s: %d chunks", filename, len(chunks))
	return chunks, nil
}

// Delete removes a document's chunks from the index. Deleting an unknown
// document is a no-op.
func (s *IngestService) Delete(ctx context.Context, documentID, ownerID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	if err := s.index.Delete(ctx, documentID, ownerID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	logger.Info("Deleted document %s", documentID)
	return nil
}
