package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

var (
	askOwner        string
	askConversation string
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your ingested documents",
	Long: `Answers a question using only your previously ingested documents.
Pass --conversation to continue a multi-turn conversation; the returned
conversation ID can be reused on the next ask.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askOwner, "owner", DefaultOwner, "owner scope for retrieval")
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "conversation ID to continue")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer envelope as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	var session *driving.SessionContext
	if askConversation != "" {
		session = &driving.SessionContext{ConversationID: askConversation}
	}

	envelope, err := queryService.Answer(cmd.Context(), args[0], askOwner, session)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputAnswer(cmd, envelope)
}

func outputAnswer(cmd *cobra.Command, envelope *domain.AnswerEnvelope) error {
	cmd.Println(envelope.Answer)

	if len(envelope.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range envelope.Sources {
			cmd.Printf("  - %s: %s\n", src.Filename, src.ContentPreview)
		}
	}

	cmd.Println()
	cmd.Printf("Conversation: %s\n", envelope.ConversationID)
	return nil
}
