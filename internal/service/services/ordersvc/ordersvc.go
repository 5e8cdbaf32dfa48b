package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gal-ch/green-market/internal/dal/interfaces/iorderitemrepo"
	"github.com/gal-ch/green-market/internal/dal/interfaces/iorderrepo"
	"github.com/gal-ch/green-market/internal/dal/interfaces/ioutboxrepo"
	"github.com/gal-ch/green-market/internal/dal/postgres"
	"github.com/gal-ch/green-market/internal/dal/uow"
	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/orderitem"
	"github.com/gal-ch/green-market/internal/service/models/outbox"
)

// DayClosedRoutingKey is the queue day-closing events are published to.
const DayClosedRoutingKey = "market.store.day_closed"

// OrderService is a service for managing orders.
type OrderService struct {
	pgClient   *postgres.Client
	uowFactory func() unitOfWork
}

func (s *OrderService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}

	return uow.NewUnitOfWork(s.pgClient)
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// BatchInsert creates multiple orders with their items in a transaction.
// Orders are created open, eligible for the next day closing.
func (s *OrderService) BatchInsert(
	ctx context.Context,
	orders []order.Order,
) ([]order.Order, error) {
	now := time.Now()

	work := s.newUOW()

	err := work.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	for i := range orders {
		orders[i].Open = true
		orders[i].CreatedAt = now
		orders[i].UpdatedAt = now
	}

	orders, err = work.OrderRepository().BulkInsert(ctx, orders)
	if err != nil {
		return nil, err
	}

	orderItems := make([]orderitem.OrderItem, 0)
	for _, o := range orders {
		for _, item := range o.OrderItems {
			item.OrderID = o.ID
			orderItems = append(orderItems, item)
		}
	}
	orderItems, err = work.OrderItemRepository().BulkInsert(ctx, orderItems)
	if err != nil {
		return nil, err
	}

	offset := 0
	for i := range orders {
		n := len(orders[i].OrderItems)
		orders[i].OrderItems = orderItems[offset : offset+n]
		offset += n
	}

	err = work.Commit(ctx)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrders retrieves orders with their items based on filter.
func (s *OrderService) GetOrders(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderItemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		orderItemQuery.OrderIds = append(orderItemQuery.OrderIds, o.ID)
	}
	orderItems, err := work.OrderItemRepository().Query(ctx, orderItemQuery)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range orderItems {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// SetCompleted marks every open order of the given stores as completed and
// records a day-closed event in the outbox within the same transaction.
func (s *OrderService) SetCompleted(
	ctx context.Context,
	storeIDs []int64,
	accountID int64,
) (int64, error) {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return 0, err
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	count, err := work.OrderRepository().SetCompleted(ctx, storeIDs, accountID)
	if err != nil {
		return 0, err
	}

	// No event when nothing was flipped, e.g. every requested store was
	// already closed.
	if count > 0 {
		now := time.Now()
		payload, err := json.Marshal(outbox.DayClosedEvent{
			AccountID:       accountID,
			StoreIds:        storeIDs,
			OrdersCompleted: count,
			ClosedAt:        now,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to marshal day closed event: %w", err)
		}

		err = work.OutboxRepository().Insert(ctx, outbox.Message{
			RoutingKey:  DayClosedRoutingKey,
			Payload:     payload,
			ContentType: "application/json",
			MaxRetries:  10,
			CreatedAt:   now,
			UpdatedAt:   now,
			NextRetryAt: now,
		})
		if err != nil {
			return 0, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return 0, err
	}

	return count, nil
}
