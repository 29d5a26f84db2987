package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasInformation(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"informative answer", "The project deadline is March 12.", true},
		{"not in documents", MsgNotInDocuments, false},
		{"not in documents with upload hint", MsgNotInDocumentsUpload, false},
		{"no relevant documents", MsgNoRelevantDocuments, false},
		{"marker embedded mid-sentence", "Sorry, but I couldn't find this information anywhere.", false},
		{"case insensitive", "NOT FOUND IN YOUR UPLOADED DOCUMENTS", false},
		{"credential remediation counts as information", MsgCredentialRevoked, true},
		{"empty answer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasInformation(tt.answer))
		})
	}
}

func TestUniqueSources(t *testing.T) {
	chunks := []RetrievedChunk{
		{Chunk: Chunk{Content: "alpha content"}, Filename: "a.txt"},
		{Chunk: Chunk{Content: "beta content"}, Filename: "b.pdf"},
		{Chunk: Chunk{Content: "alpha again"}, Filename: "a.txt"},
		{Chunk: Chunk{Content: "gamma content"}, Filename: "c.eml"},
	}

	sources := UniqueSources(chunks)
	require.Len(t, sources, 3)

	// First occurrence per filename, retrieval order preserved.
	assert.Equal(t, "a.txt", sources[0].Filename)
	assert.Equal(t, "alpha content", sources[0].ContentPreview)
	assert.Equal(t, "b.pdf", sources[1].Filename)
	assert.Equal(t, "c.eml", sources[2].Filename)
}

func TestUniqueSources_PreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", SourcePreviewLimit+50)
	sources := UniqueSources([]RetrievedChunk{
		{Chunk: Chunk{Content: long}, Filename: "long.txt"},
	})

	require.Len(t, sources, 1)
	assert.Len(t, sources[0].ContentPreview, SourcePreviewLimit+3)
	assert.True(t, strings.HasSuffix(sources[0].ContentPreview, "..."))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 10))
	assert.Equal(t, "exactlyten", Preview("exactlyten", 10))
	assert.Equal(t, "0123456789...", Preview("0123456789abc", 10))
}

func TestPreview_CountsCharactersNotBytes(t *testing.T) {
	// 100 two-byte characters stay under a 150-character limit untouched.
	accented := strings.Repeat("é", 100)
	assert.Equal(t, accented, Preview(accented, SourcePreviewLimit))

	// Truncation keeps whole characters and stays valid UTF-8.
	long := strings.Repeat("é", SourcePreviewLimit+50)
	got := Preview(long, SourcePreviewLimit)
	require.True(t, utf8.ValidString(got))
	assert.Equal(t, SourcePreviewLimit+3, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc-1_0", ChunkID("doc-1", 0))
	assert.Equal(t, "doc-1_7", ChunkID("doc-1", 7))
	// Deterministic across calls: same inputs, same identity.
	assert.Equal(t, ChunkID("doc-1", 3), ChunkID("doc-1", 3))
}
