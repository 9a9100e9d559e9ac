package catalogrepo

import (
	"context"
	"sync"

	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

// MemoryRepository is an in-memory CatalogRepository used for tests/dev.
type MemoryRepository struct {
	mu          sync.RWMutex
	catalog     []recommend.SupplementRecord
	userSupps   map[int64][]recommend.UserSupplement
	failCatalog bool
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository(catalog []recommend.SupplementRecord) *MemoryRepository {
	return &MemoryRepository{
		catalog:   catalog,
		userSupps: make(map[int64][]recommend.UserSupplement),
	}
}

// SetUserSupplements seeds the products a user currently takes.
func (r *MemoryRepository) SetUserSupplements(userID int64, supplements []recommend.UserSupplement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userSupps[userID] = supplements
}

// FailCatalog makes FetchCatalog simulate an unreachable store.
func (r *MemoryRepository) FailCatalog(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failCatalog = fail
}

// FetchCatalog implements recommend.CatalogRepository.
func (r *MemoryRepository) FetchCatalog(_ context.Context) ([]recommend.SupplementRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failCatalog {
		return nil, apperrors.Wrap(apperrors.CodeDataUnavailable, "catalog store unreachable", nil)
	}
	out := make([]recommend.SupplementRecord, len(r.catalog))
	copy(out, r.catalog)
	return out, nil
}

// FetchUserSupplements implements recommend.CatalogRepository.
func (r *MemoryRepository) FetchUserSupplements(_ context.Context, userID int64) ([]recommend.UserSupplement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]recommend.UserSupplement, len(r.userSupps[userID]))
	copy(out, r.userSupps[userID])
	return out, nil
}

var _ recommend.CatalogRepository = (*MemoryRepository)(nil)
