// Package gemini provides the generative answer backend using the Google
// Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.AnswerGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second

	// Free-tier friendly request rate.
	DefaultRequestsPerMinute = 15
)

// Fixed generation parameters. Answers should stay close to the provided
// context, so sampling is kept conservative.
const (
	genTemperature     = 0.3
	genTopP            = 0.8
	genTopK            = 40
	genMaxOutputTokens = 1000
)

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: Google's v1beta endpoint).
	BaseURL string

	// Model is the model to use (default: gemini-2.0-flash).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerMinute throttles calls (default: 15, the free tier).
	RequestsPerMinute int
}

// Generator produces answers via the Gemini generateContent endpoint.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// generateRequest is the Gemini generateContent request format.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse is the Gemini generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// New creates a new Gemini generator.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Generator{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 1),
	}, nil
}

// Name identifies the variant for logging.
func (g *Generator) Name() string { return "gemini" }

// Answer generates an answer from the assembled context. Failures return an
// error wrapping domain.ErrGenerationFailed so the orchestrator can cascade
// to the fallback variant; a revoked API key returns
// domain.ErrCredentialRevoked instead.
func (g *Generator) Answer(ctx context.Context, req driven.AnswerRequest) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	prompt := buildPrompt(req.Question, req.Context, req.History)
	logger.Debug("gemini: sending prompt, context length %d", len(req.Context))

	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     genTemperature,
			TopP:            genTopP,
			TopK:            genTopK,
			MaxOutputTokens: genMaxOutputTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrGenerationFailed, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrGenerationFailed, err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrGenerationFailed, err)
	}

	if genResp.Error != nil {
		if isCredentialRevoked(genResp.Error.Message) {
			return "", fmt.Errorf("%w: %s", domain.ErrCredentialRevoked, genResp.Error.Message)
		}
		return "", fmt.Errorf("%w: gemini error: %s", domain.ErrGenerationFailed, genResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		if isCredentialRevoked(string(body)) {
			return "", fmt.Errorf("%w: status %d", domain.ErrCredentialRevoked, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: gemini error (status %d)", domain.ErrGenerationFailed, resp.StatusCode)
	}

	answer := extractText(genResp)
	if answer == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrGenerationFailed)
	}

	logger.Debug("gemini: response received, %d chars", len(answer))
	return answer, nil
}

// isCredentialRevoked detects the API's revoked-key signals. These change
// what the user must do, so they are distinguished from generic failures.
func isCredentialRevoked(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "leaked") || strings.Contains(lower, "permission denied")
}

func extractText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

// buildPrompt wraps the context, recent history, and question in the fixed
// instructional framing. Instruction 4's literal sentence is part of the
// answer classification contract and must not be reworded.
func buildPrompt(question, contextText string, history []domain.ConversationTurn) string {
	return fmt.Sprintf(`You are a helpful AI assistant that answers questions based STRICTLY on the user's uploaded documents.

CONTEXT FROM USER'S DOCUMENTS:
%s

CONVERSATION HISTORY:
%s

CURRENT QUESTION: %s

CRITICAL INSTRUCTIONS:
1. You MUST answer using ONLY the information from the context provided above
2. Look for relevant information in the context that relates to the question, even if not an exact match
3. If the context contains information related to the question, extract and present it clearly
4. If the context truly doesn't contain any relevant information, respond with: "I couldn't find this information in your uploaded documents."
5. Do NOT use any external knowledge or make up information
6. Be concise and reference specific details from the context when available

FORMATTING GUIDELINES:
- Use clear headings with **bold text** for main concepts
- Use bullet points for lists of items or strategies
- Use numbered lists (1., 2., etc.) for sequential steps
- Organize information with proper spacing and structure
- Keep paragraphs short and focused on single ideas

ANSWER:`, contextText, domain.FormatHistory(history), question)
}
