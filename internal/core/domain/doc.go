// Package domain contains the core business types for the knowledge copilot:
// document chunks, retrieved chunks, conversations, and the answer envelope.
// It has no dependencies on adapters or external services.
package domain
