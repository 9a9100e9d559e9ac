package recommend

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
	"github.com/pillmein/supplement-advisor/pkg/metrics"
)

// Service holds the index, the catalog snapshot, and the encoder behind one
// explicitly constructed object. It is created once at startup and injected
// into the transport; requests share the index read-only while each pipeline
// run keeps its own state.
type Service struct {
	cfg       Config
	catalog   CatalogRepository
	embedder  Embedder
	chat      ChatClient
	images    ImageSearcher
	snapshots SnapshotStore
	logger    *slog.Logger

	index atomic.Pointer[Index]
}

// NewService constructs the recommender. images and snapshots may be nil;
// both concerns are best effort.
func NewService(cfg Config, catalog CatalogRepository, embedder Embedder, chat ChatClient, images ImageSearcher, snapshots SnapshotStore, logger *slog.Logger) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Service{
		cfg:       cfg,
		catalog:   catalog,
		embedder:  embedder,
		chat:      chat,
		images:    images,
		snapshots: snapshots,
		logger:    logger.With("component", "recommend.service"),
	}
}

// WarmIndex restores the index from a persisted snapshot when one exists,
// otherwise rebuilds it from the live catalog. Called once at startup; queries
// must not run before it succeeds.
func (s *Service) WarmIndex(ctx context.Context) error {
	if s.snapshots != nil {
		snap, found, err := s.snapshots.Load(ctx)
		if err != nil {
			s.logger.Warn("snapshot load failed, rebuilding from catalog", "error", err)
		} else if found {
			idx, err := NewIndexFromSnapshot(snap)
			if err != nil {
				s.logger.Warn("snapshot rejected, rebuilding from catalog", "error", err)
			} else {
				s.index.Store(idx)
				s.logger.Info("index restored from snapshot", "records", idx.Len(), "dim", idx.Dim())
				return nil
			}
		}
	}
	return s.RebuildIndex(ctx)
}

// RebuildIndex fetches the catalog, builds a fresh index, persists the
// snapshot, and swaps the active index atomically. In-flight queries keep
// reading the old index until the swap.
func (s *Service) RebuildIndex(ctx context.Context) error {
	records, err := s.catalog.FetchCatalog(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDataUnavailable, "failed to fetch supplement catalog", err)
	}
	idx, err := BuildIndex(ctx, records, s.embedder)
	if err != nil {
		return err
	}
	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, idx.Snapshot()); err != nil {
			s.logger.Warn("snapshot save failed", "error", err)
		}
	}
	s.index.Store(idx)
	s.logger.Info("index rebuilt", "records", idx.Len(), "dim", idx.Dim())
	return nil
}

// IndexSize reports the number of indexed records, zero before warmup.
func (s *Service) IndexSize() int {
	idx := s.index.Load()
	if idx == nil {
		return 0
	}
	return idx.Len()
}

// Search embeds the query text with the index's embedder and returns the k
// nearest records ascending by distance.
func (s *Service) Search(ctx context.Context, text string, k int) ([]SearchResult, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, apperrors.Wrap(apperrors.CodeEmptyCatalog, "index has not been built", nil)
	}
	query, err := s.embedText(ctx, text)
	if err != nil {
		return nil, err
	}
	return idx.Nearest(query, k), nil
}

// Recommend runs the full retrieval-augmented pipeline for one user: retrieve
// candidates for the health summary, ground the prompt, call the model, parse
// and validate, then enrich. The chat call is retried within bounded attempts
// when the reply fails parsing or grounding; every other failure is final.
func (s *Service) Recommend(ctx context.Context, userID int64, healthSummary string) (Result, error) {
	if userID == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	if strings.TrimSpace(healthSummary) == "" {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "health summary cannot be empty", nil)
	}
	idx := s.index.Load()
	if idx == nil {
		return Result{}, apperrors.Wrap(apperrors.CodeEmptyCatalog, "index has not been built", nil)
	}

	requestID := uuid.New()
	logger := s.logger.With("request_id", requestID, "user_id", userID)

	question := buildQuestion(healthSummary)
	query, err := s.embedText(ctx, question)
	if err != nil {
		return Result{}, err
	}
	retrieved := idx.Nearest(query, s.cfg.TopK)
	if len(retrieved) == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeNoCandidates, "retrieval returned no candidates", nil)
	}

	supplements, err := s.catalog.FetchUserSupplements(ctx, userID)
	if err != nil {
		// Degrades to the no-supplements marker, never retried.
		logger.Warn("user supplement lookup failed", "error", err)
		supplements = nil
	}

	prompt := buildRecommendPrompt(
		buildCandidateContext(retrieved),
		buildUserSupplementContext(supplements),
		question,
	)

	candidates, usage, err := s.generateCandidates(ctx, logger, prompt, retrieved)
	if err != nil {
		return Result{}, err
	}

	s.enrich(ctx, logger, idx, candidates)

	logger.Info("recommendation complete", "candidates", len(candidates), "retrieved", len(retrieved))
	return Result{
		RequestID:  requestID,
		UserID:     userID,
		Candidates: candidates,
		TokenUsage: usage,
	}, nil
}

// generateCandidates calls the model and parses its reply, retrying the call
// when the reply violates the output contract.
func (s *Service) generateCandidates(ctx context.Context, logger *slog.Logger, prompt string, retrieved []SearchResult) ([]Candidate, *metrics.TokenUsage, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		resp, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
			Model: s.cfg.Model,
			Messages: []chatgpt.Message{
				{Role: "system", Content: recommenderSystemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: s.cfg.Temperature,
			MaxTokens:   800,
		})
		if err != nil {
			lastErr = apperrors.Wrap(apperrors.CodeLLMError, "recommendation model call failed", err)
			logger.Warn("recommendation model call failed", "attempt", attempt, "error", err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = apperrors.Wrap(apperrors.CodeLLMError, "recommendation model returned no choices", nil)
			continue
		}
		raw := resp.Choices[0].Message.Content
		candidates, parseErr := ParseRecommendations(raw)
		if parseErr == nil {
			parseErr = validateGrounding(candidates, retrieved)
		}
		if parseErr != nil {
			// Raw output is logged for diagnosis, never padded into a result.
			logger.Warn("model reply rejected", "attempt", attempt, "error", parseErr, "raw", raw)
			lastErr = parseErr
			continue
		}
		usage := &metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		if usage.IsZero() {
			usage = nil
		}
		return candidates, usage, nil
	}
	return nil, nil, lastErr
}

// enrich attaches catalog ids and image URLs. Both lookups are best effort; a
// failed image search yields the documented placeholder, never an empty field.
func (s *Service) enrich(ctx context.Context, logger *slog.Logger, idx *Index, candidates []Candidate) {
	for i := range candidates {
		if rec, ok := idx.FindByName(candidates[i].Name); ok {
			id := rec.ID
			candidates[i].SupplementID = &id
		}
		candidates[i].ImageURL = s.lookupImage(ctx, logger, candidates[i].Name)
	}
}

func (s *Service) lookupImage(ctx context.Context, logger *slog.Logger, name string) string {
	if s.images == nil || name == "" {
		return NoImagePlaceholder
	}
	url, err := s.images.SearchImageURL(ctx, name)
	if err != nil {
		logger.Warn("image lookup failed", "supplement", name, "error", err)
		return NoImagePlaceholder
	}
	if strings.TrimSpace(url) == "" {
		return NoImagePlaceholder
	}
	return url
}

func (s *Service) embedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLLMError, "failed to embed query", err)
	}
	if len(vectors) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeLLMError, "no embedding returned", nil)
	}
	return vectors[0], nil
}
