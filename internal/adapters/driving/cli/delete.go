package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteOwner string

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Remove a document's chunks from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteOwner, "owner", DefaultOwner, "owner scope of the document")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.Delete(cmd.Context(), args[0], deleteOwner); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}
