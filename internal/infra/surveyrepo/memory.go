package surveyrepo

import (
	"context"
	"sync"

	"github.com/pillmein/supplement-advisor/internal/domain/survey"
)

// MemoryRepository is an in-memory survey.Repository used for tests/dev.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[int64]survey.Row
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]survey.Row)}
}

// SetRow seeds a survey row for a user.
func (r *MemoryRepository) SetRow(userID int64, row survey.Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[userID] = row
}

// FindByUser implements survey.Repository.
func (r *MemoryRepository) FindByUser(_ context.Context, userID int64) (survey.Row, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[userID]
	return row, ok, nil
}

var _ survey.Repository = (*MemoryRepository)(nil)
