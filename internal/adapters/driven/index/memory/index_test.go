package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

func chunksOf(texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{Content: t, Type: domain.ChunkTypeText, WordCount: len(t)}
	}
	return chunks
}

func TestSearch_RanksByOverlap(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf(
		"the quick brown fox jumps over the lazy dog",
		"quarterly revenue grew by ten percent",
	), "doc1", "local", "a.txt"))

	results, err := idx.Search(ctx, "quick brown fox", "local", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1", results[0].DocumentID)
	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.InDelta(t, 0.0, results[0].Score, 1e-9)
}

func TestSearch_LowerScoreIsCloser(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf(
		"alpha beta gamma",
		"alpha only here",
	), "doc1", "local", "a.txt"))

	results, err := idx.Search(ctx, "alpha beta", "local", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.Less(t, results[0].Score, results[1].Score)
}

func TestSearch_OwnerScoped(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf("shared secret plans"), "doc1", "alice", "a.txt"))
	require.NoError(t, idx.Add(ctx, chunksOf("public release notes"), "doc2", "bob", "b.txt"))

	results, err := idx.Search(ctx, "secret plans", "bob", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NoOverlapReturnsEmpty(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf("kubernetes cluster autoscaling"), "doc1", "local", "a.txt"))

	results, err := idx.Search(ctx, "medieval poetry", "local", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_TruncatesToK(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf(
		"report one", "report two", "report three", "report four",
	), "doc1", "local", "a.txt"))

	results, err := idx.Search(ctx, "report", "local", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_TieBreakIsDeterministic(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf("report alpha", "report beta"), "docB", "local", "b.txt"))
	require.NoError(t, idx.Add(ctx, chunksOf("report gamma"), "docA", "local", "a.txt"))

	for run := 0; run < 5; run++ {
		results, err := idx.Search(ctx, "report", "local", 5)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "docA", results[0].DocumentID)
		assert.Equal(t, "docB", results[1].DocumentID)
		assert.Equal(t, 0, results[1].ChunkIndex)
		assert.Equal(t, 1, results[2].ChunkIndex)
	}
}

func TestAdd_ShrunkDocumentDropsStaleTail(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf("alpha intro", "beta middle", "gamma ending"), "doc1", "local", "a.txt"))
	require.NoError(t, idx.Add(ctx, chunksOf("alpha intro"), "doc1", "local", "a.txt"))

	// Tail chunks from the larger earlier version must not survive.
	results, err := idx.Search(ctx, "gamma", "local", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search(ctx, "alpha", "local", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].ChunkIndex)
}

func TestAdd_ReplacesDocumentChunks(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf("old content about widgets"), "doc1", "local", "a.txt"))
	require.NoError(t, idx.Add(ctx, chunksOf("new content about gadgets"), "doc1", "local", "a.txt"))

	results, err := idx.Search(ctx, "widgets", "local", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search(ctx, "gadgets", "local", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDelete_RemovesDocument(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf("ephemeral notes"), "doc1", "local", "a.txt"))
	require.NoError(t, idx.Delete(ctx, "doc1", "local"))

	results, err := idx.Search(ctx, "ephemeral", "local", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDelete_UnknownDocumentIsNoOp(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Delete(context.Background(), "nope", "local"))
}

func TestSearch_ChunkIDDerivedFromDocument(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunksOf("first part", "second part"), "doc1", "local", "a.txt"))

	results, err := idx.Search(ctx, "second part", "local", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc1_1", results[0].ChunkID)
}
