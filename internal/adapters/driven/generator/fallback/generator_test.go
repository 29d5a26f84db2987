package fallback

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

func retrieved(texts ...string) []domain.RetrievedChunk {
	chunks := make([]domain.RetrievedChunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.RetrievedChunk{
			Chunk:      domain.Chunk{Content: t, Type: domain.ChunkTypeText},
			Filename:   "doc.txt",
			ChunkIndex: i,
		}
	}
	return chunks
}

func TestAnswer_NoContext(t *testing.T) {
	g := New()

	answer, err := g.Answer(context.Background(), driven.AnswerRequest{
		Question: "what is the refund policy?",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MsgNotInDocumentsUpload, answer)
	assert.False(t, domain.HasInformation(answer))
}

func TestAnswer_NoOverlap(t *testing.T) {
	g := New()

	answer, err := g.Answer(context.Background(), driven.AnswerRequest{
		Question: "velociraptor taxonomy",
		Context:  "From doc.txt:\nquarterly revenue summary",
		Chunks:   retrieved("quarterly revenue summary"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MsgNotInDocuments, answer)
	assert.False(t, domain.HasInformation(answer))
}

func TestAnswer_ContainsSharedKeyword(t *testing.T) {
	g := New()

	answer, err := g.Answer(context.Background(), driven.AnswerRequest{
		Question: "what is the refund policy?",
		Context:  "From doc.txt:\nthe refund policy allows returns within 30 days",
		Chunks:   retrieved("the refund policy allows returns within 30 days"),
	})
	require.NoError(t, err)
	assert.Contains(t, answer, "refund")
	assert.Contains(t, answer, "Based on your documents")
	assert.True(t, domain.HasInformation(answer))
}

func TestAnswer_KeywordsInQuestionOrder(t *testing.T) {
	g := New()

	answer, err := g.Answer(context.Background(), driven.AnswerRequest{
		Question: "alpha beta gamma",
		Context:  "ctx",
		Chunks:   retrieved("gamma beta alpha and more"),
	})
	require.NoError(t, err)
	// Keywords follow question word order, space-separated.
	assert.Contains(t, answer, "'alpha beta gamma'")
}

func TestAnswer_AtMostThreeKeywordsPerChunk(t *testing.T) {
	g := New()

	answer, err := g.Answer(context.Background(), driven.AnswerRequest{
		Question: "one two three four five",
		Context:  "ctx",
		Chunks:   retrieved("one two three four five"),
	})
	require.NoError(t, err)
	assert.Contains(t, answer, "'one two three'")
	assert.NotContains(t, answer, "'one two three four")
}

func TestAnswer_OnlyTopThreeChunksConsidered(t *testing.T) {
	g := New()

	answer, err := g.Answer(context.Background(), driven.AnswerRequest{
		Question: "zebra",
		Context:  "ctx",
		Chunks:   retrieved("nothing here", "nope", "still nothing", "zebra appears only in the fourth chunk"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MsgNotInDocuments, answer)
}

func TestAnswer_PreviewsTruncatedFromTopTwoChunks(t *testing.T) {
	g := New()

	long := strings.Repeat("refund ", 60) // well past the preview limit
	answer, err := g.Answer(context.Background(), driven.AnswerRequest{
		Question: "refund",
		Context:  "ctx",
		Chunks:   retrieved(long, "second chunk refund text", "third chunk is not quoted"),
	})
	require.NoError(t, err)
	assert.Contains(t, answer, long[:previewLimit]+"...")
	assert.Contains(t, answer, "second chunk refund text")
	assert.NotContains(t, answer, "third chunk is not quoted")
}

func TestAnswer_Deterministic(t *testing.T) {
	g := New()
	req := driven.AnswerRequest{
		Question: "how does billing work for enterprise plans?",
		Context:  "ctx",
		Chunks:   retrieved("enterprise billing runs monthly", "plans include enterprise support"),
	}

	first, err := g.Answer(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.Answer(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
