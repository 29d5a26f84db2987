package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	ingestOwner string
	ingestDocID string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Extract, chunk and index documents",
	Long: `Reads each file, extracts its text, splits it into overlapping chunks
and indexes them for retrieval. Supported formats: .pdf, .docx, .txt, .md,
.html, .htm, .eml.

A file with no extractable text is rejected, not silently indexed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOwner, "owner", DefaultOwner, "owner scope for the documents")
	ingestCmd.Flags().StringVar(&ingestDocID, "id", "", "document ID (single file only; default: random)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if ingestDocID != "" && len(args) > 1 {
		return errors.New("--id can only be used with a single file")
	}

	var failed int
	for _, path := range args {
		documentID := ingestDocID
		if documentID == "" {
			documentID = uuid.NewString()
		}

		if err := ingestOne(cmd, path, documentID); err != nil {
			cmd.PrintErrf("%s: %v\n", path, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestOne(cmd *cobra.Command, path, documentID string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	chunks, err := ingestService.Ingest(cmd.Context(), content, filepath.Base(path), documentID, ingestOwner)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errors.New("no extractable text, nothing indexed")
	}

	cmd.Printf("Indexed %s: %d chunks (document %s)\n", filepath.Base(path), len(chunks), documentID)
	return nil
}
