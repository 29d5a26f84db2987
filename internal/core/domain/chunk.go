package domain

import "fmt"

// ChunkType identifies the source format a chunk was extracted from.
type ChunkType string

const (
	// ChunkTypeText is plain text content (txt, md, docx, pdf pages).
	ChunkTypeText ChunkType = "text"

	// ChunkTypeHTML is text extracted from HTML markup.
	ChunkTypeHTML ChunkType = "html"

	// ChunkTypeEmail is a re-serialised email (headers + body).
	ChunkTypeEmail ChunkType = "email"
)

// Chunk is a bounded, overlap-aware window of extracted document text.
// Chunks are immutable once produced; a chunk always has WordCount > 0
// (empty text yields no chunks at all).
type Chunk struct {
	// Content is the chunk text (whitespace-joined words of the window).
	Content string

	// Type is the source format tag.
	Type ChunkType

	// Page is the page or section number. 0 means unknown/not applicable.
	Page int

	// WordCount is the literal number of words in this window.
	WordCount int
}

// RetrievedChunk is a chunk returned by a similarity search, carrying the
// identity assigned at indexing time plus a per-query score.
type RetrievedChunk struct {
	Chunk

	// ChunkID is derived deterministically from (DocumentID, ChunkIndex).
	ChunkID string

	// DocumentID is the document this chunk belongs to.
	DocumentID string

	// OwnerID scopes the chunk to the uploading caller.
	OwnerID string

	// Filename is the original upload filename.
	Filename string

	// ChunkIndex is the ordinal position within the document.
	ChunkIndex int

	// Score is a distance: lower means more similar. Ranking order is the
	// only contract; absolute values depend on the index backend.
	Score float64
}

// ChunkID derives the stable chunk identifier for a document position.
// Re-indexing the same document overwrites its chunks instead of
// duplicating them, and targeted deletion stays possible.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_%d", documentID, index)
}
