package storesvc

import (
	"context"

	"github.com/gal-ch/green-market/internal/dal/interfaces/istorerepo"
	"github.com/gal-ch/green-market/internal/service/models/store"
)

// StoreService exposes read access to pickup stores. Store CRUD lives in the
// back office; this service only serves lookups.
type StoreService struct {
	storeRepo istorerepo.IStoreRepository
}

// option is a function that configures the StoreService.
type option func(*StoreService)

// MustNewStoreService creates a new StoreService.
func MustNewStoreService(opts ...option) *StoreService {
	s := &StoreService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithStoreRepository sets the store repository for the StoreService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStoreRepository(repo istorerepo.IStoreRepository) option {
	return func(s *StoreService) {
		s.storeRepo = repo
	}
}

// GetStores retrieves stores based on filter.
func (s *StoreService) GetStores(ctx context.Context, filter *store.QueryStoresModel) ([]store.Store, error) {
	return s.storeRepo.Query(ctx, filter)
}

// GetStoresWithOpenOrders retrieves the distinct stores of an account that
// currently have open orders, i.e. the ones eligible for a day closing.
func (s *StoreService) GetStoresWithOpenOrders(ctx context.Context, accountID int64) ([]store.Store, error) {
	return s.storeRepo.Query(ctx, &store.QueryStoresModel{
		AccountID:      accountID,
		WithOpenOrders: true,
	})
}
