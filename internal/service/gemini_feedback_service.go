package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mnhoang/placement-api/config"
	"github.com/mnhoang/placement-api/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FeedbackService produces advisory feedback for answers that require manual
// grading. The feedback is informational for the grading teacher and the
// student; it never contributes to the score.
type FeedbackService interface {
	Enabled() bool
	FeedbackForAnswer(ctx context.Context, question *model.Question, userAnswer string) (string, error)
}

type geminiFeedbackService struct {
	client *genai.GenerativeModel
}

func NewGeminiFeedbackService(cfg *config.Config) (FeedbackService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Advisory answer feedback is disabled.")
		return &geminiFeedbackService{client: nil}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiFeedbackService{client: client.GenerativeModel("gemini-1.5-flash")}, nil
}

func (s *geminiFeedbackService) Enabled() bool {
	return s.client != nil
}

func (s *geminiFeedbackService) FeedbackForAnswer(ctx context.Context, question *model.Question, userAnswer string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}
	if strings.TrimSpace(userAnswer) == "" {
		return "", fmt.Errorf("cannot generate feedback for an empty answer")
	}

	var prompt strings.Builder
	prompt.WriteString("You are an experienced placement-exam grader.\n")
	prompt.WriteString("A student answered the following free-response question. ")
	prompt.WriteString("Write brief, constructive feedback for the teacher who will grade it: ")
	prompt.WriteString("note strengths, concrete weaknesses, and anything that looks off-topic.\n\n")
	prompt.WriteString("Question:\n---\n")
	prompt.WriteString(question.Prompt)
	prompt.WriteString("\n---\n\nStudent answer:\n---\n")
	prompt.WriteString(userAnswer)
	prompt.WriteString("\n---\n")

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini API error while generating answer feedback")
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return strings.TrimSpace(text.String()), nil
}
