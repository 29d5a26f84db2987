package driven

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// Segment is an ordered run of text produced by an extractor, before
// chunking. PDF extractors emit one segment per page; other formats
// usually emit a single segment with Page 0.
type Segment struct {
	// Text is the extracted plain text.
	Text string

	// Page is the page or section number (1-based for PDFs, 0 otherwise).
	Page int

	// Type is the chunk type tag segments of this format produce.
	Type domain.ChunkType
}

// Extractor converts a supported file format into ordered text segments.
// One implementation per format, selected by file extension.
type Extractor interface {
	// Extensions returns the lowercase file extensions (with leading dot)
	// this extractor handles.
	Extensions() []string

	// Extract converts raw file bytes into text segments. A valid file with
	// no extractable text returns an empty slice and nil error; corrupt or
	// unreadable content returns an error wrapping domain.ErrExtractionFailed.
	Extract(ctx context.Context, content []byte, filename string) ([]Segment, error)
}

// ExtractorRegistry selects the extractor for a filename.
type ExtractorRegistry interface {
	// ForFilename returns the extractor handling the filename's extension,
	// or an error wrapping domain.ErrUnsupportedFormat naming the extension.
	ForFilename(filename string) (Extractor, error)
}

// Chunker splits extracted text into overlapping word windows.
type Chunker interface {
	// Chunk splits text into chunks tagged with the given provenance.
	// Empty or whitespace-only text yields no chunks.
	Chunk(text string, page int, chunkType domain.ChunkType) []domain.Chunk
}
