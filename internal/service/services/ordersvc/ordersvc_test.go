package ordersvc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gal-ch/green-market/internal/dal/interfaces/iorderitemrepo"
	"github.com/gal-ch/green-market/internal/dal/interfaces/iorderrepo"
	"github.com/gal-ch/green-market/internal/dal/interfaces/ioutboxrepo"
	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/outbox"
)

type fakeOrderRepo struct {
	completedCount int64
	completedErr   error
}

func (f *fakeOrderRepo) BulkInsert(_ context.Context, orders []order.Order) ([]order.Order, error) {
	return orders, nil
}

func (f *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) SetCompleted(_ context.Context, _ []int64, _ int64) (int64, error) {
	return f.completedCount, f.completedErr
}

type fakeOutboxRepo struct {
	inserted []outbox.Message
}

func (f *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	f.inserted = append(f.inserted, msg)

	return nil
}

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

func (f *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

type fakeUOW struct {
	orderRepo  *fakeOrderRepo
	outboxRepo *fakeOutboxRepo
	committed  bool
	rolledBack bool
}

func (f *fakeUOW) Begin(_ context.Context) error {
	return nil
}

func (f *fakeUOW) Commit(_ context.Context) error {
	f.committed = true

	return nil
}

func (f *fakeUOW) Rollback(_ context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}

	return nil
}

func (f *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return f.orderRepo
}

func (f *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return nil
}

func (f *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return f.outboxRepo
}

func newServiceWithUOW(work *fakeUOW) *OrderService {
	s := MustNewOrderService()
	s.uowFactory = func() unitOfWork { return work }

	return s
}

func TestSetCompletedWritesDayClosedEvent(t *testing.T) {
	work := &fakeUOW{
		orderRepo:  &fakeOrderRepo{completedCount: 3},
		outboxRepo: &fakeOutboxRepo{},
	}

	count, err := newServiceWithUOW(work).SetCompleted(context.Background(), []int64{1, 2}, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.True(t, work.committed)

	require.Len(t, work.outboxRepo.inserted, 1)
	msg := work.outboxRepo.inserted[0]
	assert.Equal(t, DayClosedRoutingKey, msg.RoutingKey)

	var event outbox.DayClosedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, int64(10), event.AccountID)
	assert.Equal(t, []int64{1, 2}, event.StoreIds)
	assert.Equal(t, int64(3), event.OrdersCompleted)
}

func TestSetCompletedSkipsEventWhenNothingFlipped(t *testing.T) {
	work := &fakeUOW{
		orderRepo:  &fakeOrderRepo{completedCount: 0},
		outboxRepo: &fakeOutboxRepo{},
	}

	count, err := newServiceWithUOW(work).SetCompleted(context.Background(), []int64{1}, 10)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, work.committed)
	assert.Empty(t, work.outboxRepo.inserted)
}
