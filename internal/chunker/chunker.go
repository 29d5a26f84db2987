// Package chunker splits extracted document text into fixed-size,
// overlapping word windows.
package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default window size in words.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap between windows in words.
const DefaultChunkOverlap = 200

// Chunker produces overlapping word windows from text. It is stateless and
// deterministic: the same text and parameters yield the same chunk sequence
// on every run.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between windows in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker. An overlap >= chunk size would make the window
// stride non-positive and the chunking loop endless, so that configuration
// is rejected here rather than guarded per call.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidChunkConfig, c.chunkSize)
	}
	if c.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", domain.ErrInvalidChunkConfig, c.overlap)
	}
	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidChunkConfig, c.overlap, c.chunkSize)
	}

	return c, nil
}

// Chunk splits text into overlapping word windows tagged with provenance.
// Windows start every (chunkSize - overlap) words; the final window may be
// shorter than chunkSize. Empty or whitespace-only text yields no chunks.
func (c *Chunker) Chunk(text string, page int, chunkType domain.ChunkType) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.chunkSize - c.overlap
	chunks := make([]domain.Chunk, 0, len(words)/stride+1)

	for start := 0; start < len(words); start += stride {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		window := words[start:end]

		chunks = append(chunks, domain.Chunk{
			Content:   strings.Join(window, " "),
			Type:      chunkType,
			Page:      page,
			WordCount: len(window),
		})
	}

	return chunks
}
