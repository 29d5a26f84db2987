package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

var watchOwner string

// watchNamespace seeds document IDs for watched files, so a modified file
// re-indexes under the same document and a removed file can be deleted.
var watchNamespace = uuid.MustParse("f2a1d6c3-44be-4e0f-9a07-61c58be2d9aa")

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and keep its documents indexed",
	Long: `Monitors a directory for supported document files. New and modified
files are re-ingested; removed files are deleted from the index. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchOwner, "owner", DefaultOwner, "owner scope for watched documents")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if fileWatcher == nil {
		return errors.New("file watcher not configured")
	}

	dir := args[0]
	events, err := fileWatcher.Watch(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (owner %s). Press Ctrl+C to stop.\n", dir, watchOwner)

	for event := range events {
		handleWatchEvent(cmd, event)
	}
	return nil
}

func handleWatchEvent(cmd *cobra.Command, event driven.FileEvent) {
	documentID := watchDocumentID(event.Path)

	switch event.Op {
	case driven.FileCreated, driven.FileModified:
		content, err := os.ReadFile(event.Path)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", event.Path, err)
			return
		}
		chunks, err := ingestService.Ingest(cmd.Context(), content, filepath.Base(event.Path), documentID, watchOwner)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", event.Path, err)
			return
		}
		if len(chunks) == 0 {
			cmd.PrintErrf("%s: no extractable text, skipped\n", event.Path)
			return
		}
		cmd.Printf("Indexed %s: %d chunks\n", filepath.Base(event.Path), len(chunks))

	case driven.FileDeleted:
		if err := ingestService.Delete(cmd.Context(), documentID, watchOwner); err != nil {
			cmd.PrintErrf("%s: %v\n", event.Path, err)
			return
		}
		cmd.Printf("Removed %s from index\n", filepath.Base(event.Path))
	}
}

// watchDocumentID derives a stable document ID from the file path.
func watchDocumentID(path string) string {
	return uuid.NewSHA1(watchNamespace, []byte(path)).String()
}
