package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Kindred/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// maxCoachingItems caps how many misaligned answers go into one prompt.
const maxCoachingItems = 15

type GeminiLLMService interface {
	SummarizeReport(ctx context.Context, view *ReportView) (string, error)
}

type geminiLLMService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Coaching summaries will be unavailable.")
		return &geminiLLMService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.6)
	return &geminiLLMService{client: model, cfg: cfg}, nil
}

func (s *geminiLLMService) SummarizeReport(ctx context.Context, view *ReportView) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("coaching summaries are not configured: %w", ErrUnavailable)
	}

	resp, err := s.client.GenerateContent(ctx, genai.Text(buildCoachingPrompt(view)))
	if err != nil {
		log.Error().Err(err).Uint("assessmentID", view.Assessment.ID).Msg("Gemini API error during coaching summary")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return strings.TrimSpace(text.String()), nil
}

func buildCoachingPrompt(view *ReportView) string {
	var b strings.Builder
	b.WriteString("You are a warm, practical relationship coach. A couple has each answered the same questionnaire about their expectations.\n")
	fmt.Fprintf(&b, "Partners: %s and %s.\n", view.Partner1Name, view.Partner2Name)
	fmt.Fprintf(&b, "They gave matching answers on %d of %d questions (%d%%).\n\n", view.Summary.Aligned, view.Summary.Total, view.Summary.Percentage)

	misaligned := view.Report.Misaligned()
	if len(misaligned) == 0 {
		b.WriteString("They agreed on every question.\n")
	} else {
		b.WriteString("Questions where their answers differ:\n")
		for i, c := range misaligned {
			if i == maxCoachingItems {
				fmt.Fprintf(&b, "...and %d more.\n", len(misaligned)-maxCoachingItems)
				break
			}
			fmt.Fprintf(&b, "- [%s] %s\n  %s: %s\n  %s: %s\n",
				c.Question.Section, c.Question.Text,
				view.Partner1Name, c.Partner1Answer,
				view.Partner2Name, c.Partner2Answer)
		}
	}

	b.WriteString("\nWrite a short summary (at most 200 words) addressed to both partners. ")
	b.WriteString("Acknowledge what they share, name the two or three themes most worth discussing, ")
	b.WriteString("and suggest one concrete conversation to have this week. Do not assign blame and do not give clinical advice.\n")
	return b.String()
}
