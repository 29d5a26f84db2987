// Package memory provides an in-process retrieval index over lexical
// token overlap. It is the degraded-mode fallback when no vector backend is
// available; results are approximate but the contract is identical.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.RetrievalIndex = (*Index)(nil)

type entry struct {
	chunk      domain.Chunk
	chunkID    string
	documentID string
	ownerID    string
	filename   string
	chunkIndex int
	tokens     map[string]struct{}
}

// Index keeps all indexed chunks in memory, keyed by owner and document.
type Index struct {
	mu sync.RWMutex
	// ownerID -> documentID -> chunks of that document
	byOwner map[string]map[string][]entry
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{byOwner: make(map[string]map[string][]entry)}
}

// Add indexes a document's chunks. Re-adding a document replaces its
// previous chunks, so ingestion is idempotent.
func (i *Index) Add(_ context.Context, chunks []domain.Chunk, documentID, ownerID, filename string) error {
	entries := make([]entry, 0, len(chunks))
	for idx, c := range chunks {
		entries = append(entries, entry{
			chunk:      c,
			chunkID:    domain.ChunkID(documentID, idx),
			documentID: documentID,
			ownerID:    ownerID,
			filename:   filename,
			chunkIndex: idx,
			tokens:     tokenize(c.Content),
		})
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	docs, ok := i.byOwner[ownerID]
	if !ok {
		docs = make(map[string][]entry)
		i.byOwner[ownerID] = docs
	}
	docs[documentID] = entries
	return nil
}

// Search scores every chunk of the owner by token overlap with the query and
// returns the k closest. Chunks sharing no token with the query are not
// returned at all.
func (i *Index) Search(_ context.Context, query, ownerID string, k int) ([]domain.RetrievedChunk, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || k <= 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	var results []domain.RetrievedChunk
	for _, entries := range i.byOwner[ownerID] {
		for _, e := range entries {
			overlap := 0
			for tok := range queryTokens {
				if _, ok := e.tokens[tok]; ok {
					overlap++
				}
			}
			if overlap == 0 {
				continue
			}
			results = append(results, domain.RetrievedChunk{
				Chunk:      e.chunk,
				ChunkID:    e.chunkID,
				DocumentID: e.documentID,
				OwnerID:    e.ownerID,
				Filename:   e.filename,
				ChunkIndex: e.chunkIndex,
				Score:      1 - float64(overlap)/float64(len(queryTokens)),
			})
		}
	}

	// Lower score is closer. Ties break on document then chunk position so
	// results are stable across runs.
	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score < results[b].Score
		}
		if results[a].DocumentID != results[b].DocumentID {
			return results[a].DocumentID < results[b].DocumentID
		}
		return results[a].ChunkIndex < results[b].ChunkIndex
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Delete drops a document's chunks. Unknown documents are a no-op.
func (i *Index) Delete(_ context.Context, documentID, ownerID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if docs, ok := i.byOwner[ownerID]; ok {
		delete(docs, documentID)
	}
	return nil
}

// Close is a no-op for the in-memory index.
func (i *Index) Close() error { return nil }

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()[]")
		if w != "" {
			tokens[w] = struct{}{}
		}
	}
	return tokens
}
