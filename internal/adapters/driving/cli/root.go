// Package cli provides the cobra command tree. Commands talk to the core
// only through the driving ports; wiring happens in main.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// DefaultOwner scopes documents when the caller does not name an owner.
const DefaultOwner = "local"

var (
	queryService  driving.QueryService
	ingestService driving.IngestService
	fileWatcher   driven.FileWatcher
	version       = "dev"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "copilot",
	Short: "Ask questions about your documents",
	Long: `copilot ingests local documents (PDF, DOCX, text, HTML, email) and
answers questions about them using retrieval-augmented generation.

Answers come strictly from your uploaded documents. When no generative
backend is configured, a deterministic fallback summarises the most
relevant passages instead.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Deps carries the wired services the commands run against.
type Deps struct {
	Query   driving.QueryService
	Ingest  driving.IngestService
	Watcher driven.FileWatcher
	Version string
}

// Execute wires the services into the command tree and runs it.
func Execute(deps Deps) error {
	queryService = deps.Query
	ingestService = deps.Ingest
	fileWatcher = deps.Watcher
	if deps.Version != "" {
		version = deps.Version
	}
	return rootCmd.Execute()
}
