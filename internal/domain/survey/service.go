package survey

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

// Service synthesizes a user's survey answers into a ranked health summary.
type Service interface {
	Summarize(ctx context.Context, userID int64) (string, error)
}

type service struct {
	cfg    Config
	repo   Repository
	client ChatClient
	logger *slog.Logger
}

// NewService wires up the survey summarizer.
func NewService(cfg Config, repo Repository, client ChatClient, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		client: client,
		logger: logger.With("component", "survey.service"),
	}
}

// Summarize decodes the user's survey row and asks the model to rank the
// concerns. The model is never called when nothing decodes.
func (s *service) Summarize(ctx context.Context, userID int64) (string, error) {
	if userID == 0 {
		return "", apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	row, found, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorageError, "failed to load survey row", err)
	}
	if !found {
		return "", apperrors.Wrap(apperrors.CodeNoSurveyData, "no survey row for user", nil)
	}

	answers := Decode(row)
	if len(answers) == 0 {
		return "", apperrors.Wrap(apperrors.CodeNoSurveyData, "survey row has no usable answers", nil)
	}
	s.logger.Debug("survey decoded", "user_id", userID, "answers", len(answers))

	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: summarizerSystemPrompt},
			{Role: "user", Content: buildRankingPrompt(buildContext(answers))},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   500,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "summary model call failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "summary model returned no choices", nil)
	}
	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "summary model returned empty content", nil)
	}
	return summary, nil
}
