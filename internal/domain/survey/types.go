package survey

import (
	"context"

	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
)

// NotApplicable is the sentinel enum code for questions the user skipped.
const NotApplicable = "NOT_APPLICABLE"

// Row is one user's raw survey row: enum codes keyed by column name plus the
// optional free-text purpose field.
type Row struct {
	Answers       map[string]string
	HealthPurpose string
}

// Answer is one decoded survey entry, constructed fresh per request.
type Answer struct {
	Question          string   `json:"question"`
	Answer            string   `json:"answer"`
	Concern           string   `json:"concern"`
	RequiredNutrients []string `json:"required_nutrients"`
}

// Config tunes the summarizer model call.
type Config struct {
	Model       string
	Temperature float32
}

// Repository loads raw survey rows.
type Repository interface {
	FindByUser(ctx context.Context, userID int64) (Row, bool, error)
}

// ChatClient is the slice of the LLM client the summarizer needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}
