package istorerepo

import (
	"context"

	"github.com/gal-ch/green-market/internal/service/models/store"
)

// IStoreRepository is an interface for the store postgres repository.
type IStoreRepository interface {
	Query(ctx context.Context, filter *store.QueryStoresModel) ([]store.Store, error)
}
