package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension no extractor handles.
	// Fatal to that ingestion call; wrapped errors carry the extension.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailed indicates corrupt or unreadable document content.
	// Fatal to that document; wrapped errors carry the filename and cause.
	// Extracting no text from a valid document is NOT this error - that is
	// signalled by an empty chunk sequence.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrInvalidChunkConfig indicates chunker overlap >= chunk size, which
	// would make the window stride non-positive. Configuration error,
	// rejected at construction.
	ErrInvalidChunkConfig = errors.New("invalid chunker configuration")

	// ErrRetrievalUnavailable indicates the retrieval index failed.
	// Fatal during ingestion; at query time the orchestrator degrades to
	// "no relevant documents" instead of failing the whole answer call.
	ErrRetrievalUnavailable = errors.New("retrieval index unavailable")

	// ErrGenerationFailed indicates the generative backend failed or
	// returned nothing. Recovered by cascading to the fallback variant.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrCredentialRevoked indicates the backend rejected the API key as
	// revoked or leaked. Surfaced as a remediation message rather than
	// cascading, because the user must act.
	ErrCredentialRevoked = errors.New("backend credential revoked")
)
