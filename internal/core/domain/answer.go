package domain

import "strings"

// Fixed user-facing messages. The no-info variants double as marker phrases
// (see HasInformation), so their wording must not change: the orchestrator
// decides whether to attach sources by substring-matching the answer text.
const (
	// MsgNoRelevantDocuments is returned when retrieval finds nothing.
	MsgNoRelevantDocuments = "I couldn't find any relevant information in your documents to answer this question. Please upload relevant documents first."

	// MsgNotInDocuments is the generator's "no information" answer.
	MsgNotInDocuments = "I couldn't find this information in your uploaded documents."

	// MsgNotInDocumentsUpload is the fallback answer when no context or
	// chunks are available at all.
	MsgNotInDocumentsUpload = "I couldn't find this information in your uploaded documents. Please upload relevant documents first."

	// MsgCredentialRevoked tells the user how to recover from a revoked
	// backend API key. Unlike a generic failure this changes user action,
	// so it is surfaced verbatim instead of cascading to the fallback.
	MsgCredentialRevoked = "Your Gemini API key has been revoked. Please get a new API key from Google AI Studio and update your .env file."
)

// SourcePreviewLimit is the maximum content preview length in a source
// reference.
const SourcePreviewLimit = 150

// noInfoMarkers are the literal substrings whose presence in a lowercased
// answer signals "no information found". Any generator variant must emit
// one of these exactly when it cannot answer; a wording change here
// silently breaks source attribution.
var noInfoMarkers = []string{
	"couldn't find this information",
	"couldn't find any relevant information",
	"please upload relevant documents",
	"not found in your uploaded documents",
}

// HasInformation reports whether an answer carries actual information,
// i.e. contains none of the no-info marker phrases.
func HasInformation(answer string) bool {
	lower := strings.ToLower(answer)
	for _, marker := range noInfoMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// SourceReference points the user at a document that informed an answer.
type SourceReference struct {
	Filename       string `json:"filename"`
	ContentPreview string `json:"content_preview"`
}

// AnswerEnvelope is the result of one question against the user's documents.
type AnswerEnvelope struct {
	Answer         string            `json:"answer"`
	Sources        []SourceReference `json:"sources"`
	ConversationID string            `json:"conversation_id"`
}

// UniqueSources builds deduplicated source references from retrieved chunks:
// first occurrence per filename, in retrieval rank order, with previews
// truncated to SourcePreviewLimit.
func UniqueSources(chunks []RetrievedChunk) []SourceReference {
	seen := make(map[string]bool, len(chunks))
	sources := make([]SourceReference, 0, len(chunks))

	for _, chunk := range chunks {
		if seen[chunk.Filename] {
			continue
		}
		seen[chunk.Filename] = true
		sources = append(sources, SourceReference{
			Filename:       chunk.Filename,
			ContentPreview: Preview(chunk.Content, SourcePreviewLimit),
		})
	}

	return sources
}

// Preview truncates s to limit characters, appending an ellipsis marker
// when truncated. Counting runes keeps multi-byte content intact.
func Preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return s
}
