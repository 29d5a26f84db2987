// Package file provides the TOML-backed configuration store. Settings such
// as API keys, the Qdrant endpoint and chunking parameters are persisted in
// the copilot config directory.
package file
