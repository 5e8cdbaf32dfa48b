package iorderrepo

import (
	"context"

	"github.com/gal-ch/green-market/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	BulkInsert(ctx context.Context, orders []order.Order) ([]order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// SetCompleted flips the open flag to false for every open order of the
	// given stores within the account and returns the number of affected
	// rows.
	SetCompleted(ctx context.Context, storeIDs []int64, accountID int64) (int64, error)
}
