// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Converts a supported file format into ordered text segments
//   - ExtractorRegistry: Selects the extractor for a filename
//   - Chunker: Splits extracted text into overlapping word windows
//   - RetrievalIndex: Stores chunks and answers similarity queries
//   - ConversationStore: Per-session question/answer history
//   - AnswerGenerator: Produces answers; the deterministic fallback variant
//     is always required
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, the vector
//     retrieval index is disabled and the in-process index is used instead.
//   - A generative AnswerGenerator backend. Without it, every answer comes
//     from the deterministic fallback variant.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
