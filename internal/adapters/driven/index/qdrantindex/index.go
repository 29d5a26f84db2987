// Package qdrantindex provides the vector retrieval index backed by a
// Qdrant instance over gRPC. Query text is embedded through the configured
// embedding service before searching.
package qdrantindex

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.RetrievalIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 6334
	DefaultCollection = "copilot_documents"

	upsertBatchSize = 100
)

// pointNamespace seeds deterministic point IDs, so re-indexing a document
// overwrites its previous points instead of duplicating them.
var pointNamespace = uuid.MustParse("7c9e6e2a-8b5d-4f11-9d55-3f4a2c1b0e9d")

// Config holds configuration for the Qdrant index.
type Config struct {
	// Host is the Qdrant gRPC host (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the collection name (default: copilot_documents).
	Collection string

	// Embedder turns text into vectors. Required; its Dimensions() fixes
	// the collection's vector size.
	Embedder driven.EmbeddingService
}

// Index is a Qdrant-backed retrieval index.
type Index struct {
	client     *qdrant.Client
	collection string
	embedder   driven.EmbeddingService
}

// New connects to Qdrant, verifies it is healthy, and ensures the
// collection exists. The health check retries with exponential backoff so a
// just-started Qdrant container has time to come up.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("qdrant: embedding service is required")
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: create client: %w", err)
	}

	idx := &Index{
		client:     client,
		collection: cfg.Collection,
		embedder:   cfg.Embedder,
	}

	if err := idx.healthCheckWithRetry(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}

	if err := idx.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	logger.Debug("qdrant index ready: %s:%d collection=%s", cfg.Host, cfg.Port, cfg.Collection)
	return idx, nil
}

func (i *Index) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		result, err := i.client.HealthCheck(ctx)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		if result == nil || result.Title == "" {
			return fmt.Errorf("health check returned invalid response")
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

// ensureCollection creates the collection and payload indexes if missing.
// Idempotent.
func (i *Index) ensureCollection(ctx context.Context) error {
	collections, err := i.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", err)
	}
	for _, name := range collections {
		if name == i.collection {
			return nil
		}
	}

	err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: i.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(i.embedder.Dimensions()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection: %w", err)
	}

	// Filterable fields. Without these, owner and document filters scan.
	for _, field := range []string{"owner_id", "document_id"} {
		_, err := i.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: i.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("qdrant: create index for field %s: %w", field, err)
		}
	}

	return nil
}

// Add embeds the document's chunks and upserts them, replacing the
// document wholesale. Deterministic point IDs alone would leave stale tail
// points when a re-ingested document shrinks, so prior points are deleted
// first.
func (i *Index) Add(ctx context.Context, chunks []domain.Chunk, documentID, ownerID, filename string) error {
	if len(chunks) == 0 {
		return nil
	}

	if err := i.Delete(ctx, documentID, ownerID); err != nil {
		return fmt.Errorf("qdrant: replace document %s: %w", documentID, err)
	}

	texts := make([]string, len(chunks))
	for idx, c := range chunks {
		texts[idx] = c.Content
	}
	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("qdrant: embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("qdrant: embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for idx, c := range chunks {
		points[idx] = &qdrant.PointStruct{
			Id:      pointID(documentID, idx),
			Vectors: qdrant.NewVectors(vectors[idx]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"chunk_id":    domain.ChunkID(documentID, idx),
				"document_id": documentID,
				"owner_id":    ownerID,
				"filename":    filename,
				"chunk_index": idx,
				"chunk_type":  string(c.Type),
				"page_number": c.Page,
				"content":     c.Content,
				"word_count":  c.WordCount,
			}),
		}
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))
		if err := i.upsertWithRetry(ctx, points[start:end]); err != nil {
			return fmt.Errorf("qdrant: upsert batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (i *Index) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: i.collection,
			Points:         points,
		})
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

// Search embeds the query and returns the k nearest chunks of the owner.
// Qdrant reports cosine similarity; the returned Score is 1 - similarity so
// lower means closer, matching the in-process index.
func (i *Index) Search(ctx context.Context, query, ownerID string, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("qdrant: embed query: %w", err)
	}

	results, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("owner_id", ownerID),
			},
		},
		Limit:       qdrant.PtrOf(uint64(k)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}

	chunks := make([]domain.RetrievedChunk, 0, len(results))
	for _, r := range results {
		payload := r.Payload
		chunks = append(chunks, domain.RetrievedChunk{
			Chunk: domain.Chunk{
				Content:   payload["content"].GetStringValue(),
				Type:      domain.ChunkType(payload["chunk_type"].GetStringValue()),
				Page:      int(payload["page_number"].GetIntegerValue()),
				WordCount: int(payload["word_count"].GetIntegerValue()),
			},
			ChunkID:    payload["chunk_id"].GetStringValue(),
			DocumentID: payload["document_id"].GetStringValue(),
			OwnerID:    payload["owner_id"].GetStringValue(),
			Filename:   payload["filename"].GetStringValue(),
			ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
			Score:      1 - float64(r.Score),
		})
	}
	return chunks, nil
}

// Delete removes every point of the document within the owner's scope.
func (i *Index) Delete(ctx context.Context, documentID, ownerID string) error {
	_, err := i.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: i.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("document_id", documentID),
				qdrant.NewMatch("owner_id", ownerID),
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete document %s: %w", documentID, err)
	}
	return nil
}

// Close closes the client connection.
func (i *Index) Close() error {
	if i.client != nil {
		return i.client.Close()
	}
	return nil
}

// pointID derives a stable UUID point ID from the chunk's identity.
func pointID(documentID string, index int) *qdrant.PointId {
	id := uuid.NewSHA1(pointNamespace, []byte(domain.ChunkID(documentID, index)))
	return qdrant.NewIDUUID(id.String())
}
