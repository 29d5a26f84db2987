// Package services implements the driving port interfaces.
// Services contain the core business logic - the ingestion pipeline and the
// question-answering orchestrator - and coordinate calls to driven ports
// (adapters).
package services
