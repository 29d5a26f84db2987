// Package fallback provides the deterministic answer generator used when no
// generative backend is configured or the backend fails. It builds an answer
// from keyword overlap between the question and the retrieved chunks, so the
// output is reproducible given the same inputs.
package fallback

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.AnswerGenerator = (*Generator)(nil)

const (
	// How many top-ranked chunks to consider for keyword overlap.
	overlapChunks = 3

	// How many overlapping words to keep per chunk.
	keywordsPerChunk = 3

	// How many chunk previews to quote in the answer.
	previewChunks = 2

	// Preview truncation length.
	previewLimit = 200
)

// Generator synthesizes answers without a model backend.
type Generator struct{}

// New creates the fallback generator.
func New() *Generator {
	return &Generator{}
}

// Name identifies the variant for logging.
func (g *Generator) Name() string { return "fallback" }

// Answer builds a deterministic answer from the retrieved chunks. With no
// context or chunks, or no word overlap between question and chunk text, it
// returns a fixed no-information message.
func (g *Generator) Answer(_ context.Context, req driven.AnswerRequest) (string, error) {
	if req.Context == "" || len(req.Chunks) == 0 {
		return domain.MsgNotInDocumentsUpload, nil
	}

	keywords := overlappingKeywords(req.Question, req.Chunks)
	if len(keywords) == 0 {
		return domain.MsgNotInDocuments, nil
	}

	previews := make([]string, 0, previewChunks)
	for i, chunk := range req.Chunks {
		if i >= previewChunks {
			break
		}
		previews = append(previews, domain.Preview(chunk.Content, previewLimit))
	}

	return fmt.Sprintf(
		"Based on your documents, I found some information related to '%s'. The documents mention: %s. However, I couldn't find a specific answer to your question in the uploaded materials.",
		strings.Join(keywords, " "),
		strings.Join(previews, " "),
	), nil
}

// overlappingKeywords collects words shared between the question and the top
// chunks' content, in question word order so the result is stable. At most
// keywordsPerChunk words are taken per chunk.
func overlappingKeywords(question string, chunks []domain.RetrievedChunk) []string {
	questionWords := strings.Fields(strings.ToLower(question))

	var keywords []string
	seen := make(map[string]bool)

	for i, chunk := range chunks {
		if i >= overlapChunks {
			break
		}

		chunkWords := make(map[string]bool)
		for _, w := range strings.Fields(strings.ToLower(chunk.Content)) {
			chunkWords[w] = true
		}

		found := 0
		for _, w := range questionWords {
			if found >= keywordsPerChunk {
				break
			}
			if chunkWords[w] && !seen[w] {
				seen[w] = true
				keywords = append(keywords, w)
				found++
			}
		}
	}

	return keywords
}
