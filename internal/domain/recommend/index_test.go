package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

// planted embedder places each record at a fixed point so nearest-neighbour
// ordering is known in advance.
type plantedEmbedder struct {
	points map[string][]float32
	err    error
}

func (e *plantedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := e.points[text]
		if !ok {
			vec = []float32{0, 0}
		}
		out[i] = vec
	}
	return out, nil
}

// catalog order deliberately differs from distance order so tests prove
// ranking does not depend on record position.
func plantedCatalog() ([]SupplementRecord, *plantedEmbedder) {
	records := []SupplementRecord{
		{ID: 4, Name: "D", Effects: "ed", Ingredients: "id", Warnings: "wd"},
		{ID: 2, Name: "B", Effects: "eb", Ingredients: "ib", Warnings: "wb"},
		{ID: 5, Name: "E", Effects: "ee", Ingredients: "ie", Warnings: "we"},
		{ID: 1, Name: "A", Effects: "ea", Ingredients: "ia", Warnings: "wa"},
		{ID: 3, Name: "C", Effects: "ec", Ingredients: "ic", Warnings: "wc"},
	}
	points := map[string][]float32{
		encodeRecord(records[0]): {10, 0},
		encodeRecord(records[1]): {2, 0},
		encodeRecord(records[2]): {20, 0},
		encodeRecord(records[3]): {1, 0},
		encodeRecord(records[4]): {3, 0},
	}
	return records, &plantedEmbedder{points: points}
}

func TestBuildIndexCountMatchesCatalog(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)
	require.Equal(t, len(records), idx.Len())
	require.Equal(t, 2, idx.Dim())
}

func TestBuildIndexEmptyCatalog(t *testing.T) {
	_, err := BuildIndex(context.Background(), nil, &plantedEmbedder{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmptyCatalog))
}

func TestBuildIndexEmbedderFailure(t *testing.T) {
	records, _ := plantedCatalog()
	emb := &plantedEmbedder{err: errors.New("quota exceeded")}
	_, err := BuildIndex(context.Background(), records, emb)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLMError))
}

func TestNearestOrdering(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)

	results := idx.Nearest([]float32{0, 0}, 3)
	require.Len(t, results, 3)
	require.Equal(t, "A", results[0].Record.Name)
	require.Equal(t, "B", results[1].Record.Name)
	require.Equal(t, "C", results[2].Record.Name)

	prev := -1.0
	for _, res := range results {
		require.GreaterOrEqual(t, res.Distance, 0.0)
		require.GreaterOrEqual(t, res.Distance, prev)
		prev = res.Distance
	}
}

func TestNearestDeterministic(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)

	first := idx.Nearest([]float32{2.5, 0}, 5)
	second := idx.Nearest([]float32{2.5, 0}, 5)
	require.Equal(t, first, second)
}

func TestNearestKExceedsCatalog(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)

	results := idx.Nearest([]float32{0, 0}, 50)
	require.Len(t, results, len(records))
}

func TestNearestDimensionMismatch(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)

	require.Nil(t, idx.Nearest([]float32{1, 2, 3}, 3))
}

func TestSnapshotRoundTrip(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)

	restored, err := NewIndexFromSnapshot(idx.Snapshot())
	require.NoError(t, err)
	require.Equal(t, idx.Len(), restored.Len())
	require.Equal(t, idx.Nearest([]float32{0, 0}, 3), restored.Nearest([]float32{0, 0}, 3))
}

func TestSnapshotEmptyRejected(t *testing.T) {
	_, err := NewIndexFromSnapshot(Snapshot{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmptyCatalog))

	_, err = NewIndexFromSnapshot(Snapshot{Records: []SupplementRecord{}, Vectors: [][]float32{}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmptyCatalog))
}

func TestSnapshotCountMismatchRejected(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)

	snap := idx.Snapshot()
	snap.Vectors = snap.Vectors[:len(snap.Vectors)-1]
	_, err = NewIndexFromSnapshot(snap)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
}

func TestFindByName(t *testing.T) {
	records, emb := plantedCatalog()
	idx, err := BuildIndex(context.Background(), records, emb)
	require.NoError(t, err)

	rec, ok := idx.FindByName("D")
	require.True(t, ok)
	require.Equal(t, int64(4), rec.ID)

	_, ok = idx.FindByName("Z")
	require.False(t, ok)
}
