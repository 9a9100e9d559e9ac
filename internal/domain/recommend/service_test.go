package recommend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

type stubCatalog struct {
	records     []SupplementRecord
	supplements []UserSupplement
	catalogErr  error
	suppErr     error
}

func (s *stubCatalog) FetchCatalog(context.Context) ([]SupplementRecord, error) {
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	return s.records, nil
}

func (s *stubCatalog) FetchUserSupplements(context.Context, int64) ([]UserSupplement, error) {
	if s.suppErr != nil {
		return nil, s.suppErr
	}
	return s.supplements, nil
}

type scriptedChat struct {
	replies  []string
	err      error
	calls    int
	requests []chatgpt.ChatCompletionRequest
}

func (s *scriptedChat) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	s.calls++
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	reply := s.replies[idx]
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: reply}}},
		Usage:   chatgpt.Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
	}, nil
}

type stubImages struct {
	urls map[string]string
	err  error
}

func (s *stubImages) SearchImageURL(_ context.Context, name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.urls[name], nil
}

type memorySnapshots struct {
	snap   Snapshot
	stored bool
}

func (m *memorySnapshots) Save(_ context.Context, snap Snapshot) error {
	m.snap = snap
	m.stored = true
	return nil
}

func (m *memorySnapshots) Load(context.Context) (Snapshot, bool, error) {
	return m.snap, m.stored, nil
}

func serviceCatalog() []SupplementRecord {
	return []SupplementRecord{
		{ID: 11, Name: "오메가3", Effects: "혈행 개선", Ingredients: "EPA, DHA", Warnings: "주의"},
		{ID: 12, Name: "비타민D", Effects: "뼈 건강", Ingredients: "비타민D3", Warnings: "주의"},
		{ID: 13, Name: "아연", Effects: "면역", Ingredients: "아연", Warnings: "주의"},
	}
}

func catalogReply() string {
	return `1. 건강 문제: 혈행
추천 영양제: 오메가3
주요 원재료: EPA, DHA
효과: 혈행 개선
2. 건강 문제: 뼈
추천 영양제: 비타민D
주요 원재료: 비타민D3
효과: 뼈 건강
3. 건강 문제: 면역
추천 영양제: 아연
주요 원재료: 아연
효과: 면역 유지`
}

func staticEmbedder() Embedder {
	return &plantedEmbedder{points: map[string][]float32{}}
}

func newServiceUnderTest(t *testing.T, catalog *stubCatalog, chat ChatClient, images ImageSearcher, snapshots SnapshotStore) *Service {
	t.Helper()
	svc := NewService(
		Config{Model: "test-model", TopK: 3, MaxAttempts: 2},
		catalog,
		staticEmbedder(),
		chat,
		images,
		snapshots,
		newTestLogger(),
	)
	require.NoError(t, svc.WarmIndex(context.Background()))
	return svc
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecommendSuccess(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	images := &stubImages{urls: map[string]string{"오메가3": "https://img.example/omega3.jpg"}}
	svc := newServiceUnderTest(t, catalog, chat, images, nil)

	result, err := svc.Recommend(context.Background(), 7, "1순위: 혈행 개선")
	require.NoError(t, err)
	require.Equal(t, int64(7), result.UserID)
	require.NotEqual(t, "", result.RequestID.String())
	require.Len(t, result.Candidates, 3)

	first := result.Candidates[0]
	require.Equal(t, "오메가3", first.Name)
	require.Equal(t, "https://img.example/omega3.jpg", first.ImageURL)
	require.NotNil(t, first.SupplementID)
	require.Equal(t, int64(11), *first.SupplementID)

	// records without a shopping hit get the placeholder, never an empty field
	require.Equal(t, NoImagePlaceholder, result.Candidates[1].ImageURL)

	require.NotNil(t, result.TokenUsage)
	require.Equal(t, 200, result.TokenUsage.TotalTokens)
}

func TestSearchReturnsNearestRecords(t *testing.T) {
	records, emb := plantedCatalog()
	emb.points["혈행 개선"] = []float32{2.2, 0}

	catalog := &stubCatalog{records: records}
	svc := NewService(Config{Model: "m", TopK: 3, MaxAttempts: 1}, catalog, emb, &scriptedChat{}, nil, nil, newTestLogger())
	require.NoError(t, svc.WarmIndex(context.Background()))

	results, err := svc.Search(context.Background(), "혈행 개선", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "B", results[0].Record.Name)
	require.Equal(t, "C", results[1].Record.Name)
}

func TestSearchWithoutIndex(t *testing.T) {
	svc := NewService(Config{Model: "m"}, &stubCatalog{}, staticEmbedder(), &scriptedChat{}, nil, nil, newTestLogger())
	_, err := svc.Search(context.Background(), "혈행", 3)
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmptyCatalog))
}

func TestRecommendRejectsEmptySummary(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	_, err := svc.Recommend(context.Background(), 7, "   ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, chat.calls)
}

func TestRecommendRejectsMissingUser(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	_, err := svc.Recommend(context.Background(), 0, "1순위: 혈행")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestRecommendWithoutIndex(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	svc := NewService(Config{Model: "m", TopK: 3, MaxAttempts: 1}, catalog, staticEmbedder(), chat, nil, nil, newTestLogger())

	_, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmptyCatalog))
}

func TestRecommendRetriesRejectedReply(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{"뭔가 잘못된 응답", catalogReply()}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	result, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.NoError(t, err)
	require.Equal(t, 2, chat.calls)
	require.Len(t, result.Candidates, 3)
}

func TestRecommendExhaustsAttempts(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{"잘못된 응답"}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	_, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedRec))
	require.Equal(t, 2, chat.calls)
}

func TestRecommendUngroundedNameRejected(t *testing.T) {
	ungrounded := strings.Replace(catalogReply(), "추천 영양제: 아연", "추천 영양제: 존재하지 않는 제품", 1)
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{ungrounded, ungrounded}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	_, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedRec))
	require.Equal(t, 2, chat.calls)
}

func TestRecommendModelFailure(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{err: errors.New("upstream 500")}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	_, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLMError))
}

func TestRecommendSupplementLookupDegrades(t *testing.T) {
	catalog := &stubCatalog{
		records: serviceCatalog(),
		suppErr: errors.New("table missing"),
	}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	result, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)

	// the degraded lookup is represented by the marker, not an error
	require.Contains(t, chat.requests[0].Messages[1].Content, NoSupplementsMarker)
}

func TestRecommendPromptCarriesUserSupplements(t *testing.T) {
	catalog := &stubCatalog{
		records:     serviceCatalog(),
		supplements: []UserSupplement{{Name: "종합비타민", Ingredients: "비타민A, 비타민C"}},
	}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	_, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.NoError(t, err)
	require.Contains(t, chat.requests[0].Messages[1].Content, "종합비타민")
	require.NotContains(t, chat.requests[0].Messages[1].Content, NoSupplementsMarker)
}

func TestRecommendImageFailureUsesPlaceholder(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	images := &stubImages{err: errors.New("api quota")}
	svc := newServiceUnderTest(t, catalog, chat, images, nil)

	result, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.NoError(t, err)
	for _, cand := range result.Candidates {
		require.Equal(t, NoImagePlaceholder, cand.ImageURL)
	}
}

func TestRebuildIndexFailureKeepsServing(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}
	svc := newServiceUnderTest(t, catalog, chat, nil, nil)

	catalog.catalogErr = errors.New("connection refused")
	err := svc.RebuildIndex(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeDataUnavailable))

	// old index stays active
	result, err := svc.Recommend(context.Background(), 7, "1순위: 혈행")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)
}

func TestWarmIndexPrefersSnapshot(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}

	snapshots := &memorySnapshots{}
	first := NewService(Config{Model: "m", TopK: 3, MaxAttempts: 1}, catalog, staticEmbedder(), chat, nil, snapshots, newTestLogger())
	require.NoError(t, first.WarmIndex(context.Background()))
	require.True(t, snapshots.stored)

	// second boot restores without touching the catalog store
	catalog.catalogErr = errors.New("connection refused")
	second := NewService(Config{Model: "m", TopK: 3, MaxAttempts: 1}, catalog, staticEmbedder(), chat, nil, snapshots, newTestLogger())
	require.NoError(t, second.WarmIndex(context.Background()))
	require.Equal(t, len(serviceCatalog()), second.IndexSize())
}

func TestWarmIndexFallsBackOnCorruptSnapshot(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}

	snapshots := &memorySnapshots{stored: true}
	snapshots.snap = Snapshot{
		Records: serviceCatalog(),
		Vectors: [][]float32{{1, 0}},
	}
	svc := NewService(Config{Model: "m", TopK: 3, MaxAttempts: 1}, catalog, staticEmbedder(), chat, nil, snapshots, newTestLogger())
	require.NoError(t, svc.WarmIndex(context.Background()))
	require.Equal(t, len(serviceCatalog()), svc.IndexSize())
}

func TestWarmIndexFallsBackOnEmptySnapshot(t *testing.T) {
	catalog := &stubCatalog{records: serviceCatalog()}
	chat := &scriptedChat{replies: []string{catalogReply()}}

	snapshots := &memorySnapshots{stored: true}
	svc := NewService(Config{Model: "m", TopK: 3, MaxAttempts: 1}, catalog, staticEmbedder(), chat, nil, snapshots, newTestLogger())
	require.NoError(t, svc.WarmIndex(context.Background()))
	require.Equal(t, len(serviceCatalog()), svc.IndexSize())
}
