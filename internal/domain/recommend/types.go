package recommend

import (
	"context"

	"github.com/google/uuid"

	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
	"github.com/pillmein/supplement-advisor/pkg/metrics"
)

// NoImagePlaceholder is returned when image enrichment finds nothing. The
// field is contractually never empty.
const NoImagePlaceholder = "이미지 없음"

// NoSupplementsMarker keeps the prompt well formed when the user takes nothing.
const NoSupplementsMarker = "사용자는 현재 복용 중인 영양제가 없습니다."

// Config tunes the retrieval-augmented recommendation pipeline.
type Config struct {
	Model       string
	Temperature float32
	TopK        int
	MaxAttempts int
}

// SupplementRecord is a read-only snapshot of one catalog row. The
// authoritative copy lives in the backing store; this copy is refreshed only
// when the index is rebuilt.
type SupplementRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Effects     string `json:"effects"`
	Ingredients string `json:"ingredients"`
	Warnings    string `json:"warnings"`
}

// UserSupplement describes one product the user currently takes.
type UserSupplement struct {
	Name        string `json:"supplementName"`
	Ingredients string `json:"ingredients"`
}

// Candidate is one parsed recommendation slot.
type Candidate struct {
	HealthIssue  string `json:"healthIssue"`
	Name         string `json:"name"`
	Ingredients  string `json:"ingredients"`
	Effect       string `json:"effect"`
	ImageURL     string `json:"imageUrl"`
	SupplementID *int64 `json:"supplementId,omitempty"`
}

// Result carries the three enriched recommendations for one request.
type Result struct {
	RequestID  uuid.UUID           `json:"requestId"`
	UserID     int64               `json:"userId"`
	Candidates []Candidate         `json:"candidates"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// SearchResult pairs a retrieved record with its distance to the query.
type SearchResult struct {
	Record   SupplementRecord
	Distance float64
}

// CatalogRepository reads supplement data from the backing store.
type CatalogRepository interface {
	FetchCatalog(ctx context.Context) ([]SupplementRecord, error)
	FetchUserSupplements(ctx context.Context, userID int64) ([]UserSupplement, error)
}

// Embedder produces embeddings for free form text. The same embedder must be
// used for index build and query; mixing models silently corrupts distances.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatClient is the slice of the LLM client the recommender needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ImageSearcher looks up a product image URL. An empty string means no match;
// errors are treated the same way (enrichment is best effort).
type ImageSearcher interface {
	SearchImageURL(ctx context.Context, supplementName string) (string, error)
}

// SnapshotStore persists the catalog snapshot together with its vectors.
// Implementations must load and save both sides atomically so the positional
// alignment between records and vectors survives restarts.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, bool, error)
}
