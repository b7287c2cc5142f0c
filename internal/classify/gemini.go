package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
)

// maxPromptChars bounds how much document text goes into the prompt.
const maxPromptChars = 6000

// GeminiStrategy asks a Gemini model to pick one canonical garment
// type. Labels from this strategy are advisory and flag the job for
// review.
type GeminiStrategy struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

// NewGeminiStrategy dials the Generative Language API. Callers own the
// returned strategy and should Close it on shutdown.
func NewGeminiStrategy(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiStrategy, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiStrategy{
		client: client,
		model:  client.GenerativeModel(model),
		logger: logger,
	}, nil
}

func (s *GeminiStrategy) Name() string { return "gemini" }

// Close releases the underlying API client.
func (s *GeminiStrategy) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *GeminiStrategy) Classify(ctx context.Context, input string) (string, bool, error) {
	if s.model == nil || strings.TrimSpace(input) == "" {
		return "", false, nil
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildPrompt(input)))
	if err != nil {
		return "", false, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", false, nil
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	label, ok := parseTypeLine(text)
	if !ok {
		s.logger.Debug("classify.gemini.unparsed", "response_len", len(text))
		return "", false, nil
	}
	canonical, ok := constants.Canonicalize(label)
	if !ok {
		s.logger.Debug("classify.gemini.unknown_label", "label", label)
		return "", false, nil
	}
	s.logger.Debug("classify.gemini.ok", "label", string(canonical))
	return string(canonical), true, nil
}

func buildPrompt(input string) string {
	if len(input) > maxPromptChars {
		input = input[:maxPromptChars]
	}
	return fmt.Sprintf(`Identify the garment type described by this tech pack text:

%s

Pick exactly one of the following types:
%s

Respond in this format:
Type: [Selected Type]`, input, strings.Join(constants.AsStringSlice(), ", "))
}

func parseTypeLine(response string) (string, bool) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Type:") {
			continue
		}
		label := strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "Type:")), "[]")
		if label != "" {
			return label, true
		}
	}
	return "", false
}
