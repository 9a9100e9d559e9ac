package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
)

// stay well below the provider's 300k tokens-per-request cap
const maxBatchTokens = 200_000

// ChatGPTEmbedder calls an OpenAI-compatible embeddings API.
type ChatGPTEmbedder struct {
	client  *chatgpt.Client
	model   string
	encoder *tiktoken.Tiktoken
	logger  *slog.Logger
}

// NewChatGPTEmbedder constructs an embedder backed by the chatgpt client.
func NewChatGPTEmbedder(client *chatgpt.Client, model string, logger *slog.Logger) *ChatGPTEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	encoder, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Korean catalog text tokenizes poorly under the fallback anyway,
		// so a rune heuristic is acceptable here.
		logger.Warn("no tokenizer for embedding model, using rune estimate", "model", model, "error", err)
		encoder = nil
	}
	return &ChatGPTEmbedder{
		client:  client,
		model:   strings.TrimSpace(model),
		encoder: encoder,
		logger:  logger.With("component", "embedder.chatgpt"),
	}
}

// Embed requests embeddings for the given texts, batching under the provider
// token cap. Result order matches input order.
func (e *ChatGPTEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var (
		out         [][]float32
		batch       []string
		batchTokens int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
			Model: e.model,
			Input: batch,
		})
		if err != nil {
			return fmt.Errorf("create embedding: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return fmt.Errorf("embedding result count mismatch: expected %d got %d", len(batch), len(resp.Data))
		}
		// place each vector by its declared index; the provider does not
		// guarantee response order matches input order
		vectors := make([][]float32, len(batch))
		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(batch) {
				return fmt.Errorf("embedding result index %d out of range for batch of %d", item.Index, len(batch))
			}
			if vectors[item.Index] != nil {
				return fmt.Errorf("duplicate embedding result index %d", item.Index)
			}
			vec := make([]float32, len(item.Embedding))
			copy(vec, item.Embedding)
			vectors[item.Index] = vec
		}
		out = append(out, vectors...)
		batch = batch[:0]
		batchTokens = 0
		return nil
	}

	for _, text := range texts {
		tokens := e.countTokens(text)
		if tokens > maxBatchTokens {
			return nil, fmt.Errorf("text too large for embedding request: tokens=%d", tokens)
		}
		if batchTokens+tokens > maxBatchTokens && len(batch) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		batch = append(batch, text)
		batchTokens += tokens
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *ChatGPTEmbedder) countTokens(text string) int {
	if e.encoder != nil {
		return len(e.encoder.Encode(text, nil, nil))
	}
	return estimateTokens(text)
}

// estimateTokens is an upper-biased fallback when no tokenizer is available.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	runes := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	byRunes := (runes + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}

var _ recommend.Embedder = (*ChatGPTEmbedder)(nil)
