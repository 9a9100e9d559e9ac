package recommend

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

// Index is an immutable flat nearest-neighbour index over the catalog
// snapshot. Records and vectors are parallel slices keyed by the same offset;
// both are built in one step and never mutated afterwards. Rebuilds construct
// a whole new Index which callers swap atomically.
type Index struct {
	records []SupplementRecord
	vectors [][]float32
	dim     int
}

// Snapshot is the serializable form of an Index.
type Snapshot struct {
	Records []SupplementRecord
	Vectors [][]float32
}

// encodeRecord flattens one catalog row into the embedding input text.
func encodeRecord(rec SupplementRecord) string {
	return fmt.Sprintf("제품명: %s, 효과: %s, 원재료: %s, 경고사항: %s",
		rec.Name, rec.Effects, rec.Ingredients, rec.Warnings)
}

// BuildIndex encodes every record and assembles the flat index. The vector at
// offset i always belongs to records[i].
func BuildIndex(ctx context.Context, records []SupplementRecord, embedder Embedder) (*Index, error) {
	if len(records) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeEmptyCatalog, "cannot build index from empty catalog", nil)
	}
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = encodeRecord(rec)
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLLMError, "failed to embed catalog records", err)
	}
	return newIndex(records, vectors)
}

// NewIndexFromSnapshot restores an index from persisted state. Records and
// vectors must have been saved together; a count mismatch means the snapshot
// is corrupt and must be rebuilt instead.
func NewIndexFromSnapshot(snap Snapshot) (*Index, error) {
	return newIndex(snap.Records, snap.Vectors)
}

func newIndex(records []SupplementRecord, vectors [][]float32) (*Index, error) {
	if len(vectors) != len(records) {
		return nil, apperrors.Wrap(apperrors.CodeStorageError,
			fmt.Sprintf("vector count %d does not match record count %d", len(vectors), len(records)), nil)
	}
	if len(records) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeEmptyCatalog, "cannot build index without records", nil)
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "embedding dimension cannot be zero", nil)
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, apperrors.Wrap(apperrors.CodeStorageError,
				fmt.Sprintf("vector %d has dimension %d, want %d", i, len(vec), dim), nil)
		}
	}
	recs := make([]SupplementRecord, len(records))
	copy(recs, records)
	vecs := make([][]float32, len(vectors))
	for i, vec := range vectors {
		v := make([]float32, len(vec))
		copy(v, vec)
		vecs[i] = v
	}
	return &Index{records: recs, vectors: vecs, dim: dim}, nil
}

// Len reports the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Dim reports the embedding dimension fixed at build time.
func (idx *Index) Dim() int {
	return idx.dim
}

// Records returns the catalog snapshot backing the index.
func (idx *Index) Records() []SupplementRecord {
	return idx.records
}

// Snapshot exports the index for persistence.
func (idx *Index) Snapshot() Snapshot {
	return Snapshot{Records: idx.records, Vectors: idx.vectors}
}

// FindByName resolves a record by its exact product name.
func (idx *Index) FindByName(name string) (SupplementRecord, bool) {
	for _, rec := range idx.records {
		if rec.Name == name {
			return rec, true
		}
	}
	return SupplementRecord{}, false
}

// Nearest returns the k records closest to the query vector, ascending by
// squared Euclidean distance. The scan is exhaustive; the catalog is small
// enough that no approximate structure pays off. Ties keep record order.
func (idx *Index) Nearest(query []float32, k int) []SearchResult {
	if k <= 0 || len(query) != idx.dim {
		return nil
	}
	results := make([]SearchResult, len(idx.records))
	for i, vec := range idx.vectors {
		results[i] = SearchResult{
			Record:   idx.records[i],
			Distance: squaredL2(query, vec),
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
