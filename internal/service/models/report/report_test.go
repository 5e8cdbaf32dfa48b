package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/orderitem"
)

func TestAggregateEmptyInput(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoOrders)

	_, err = Aggregate([]order.Order{})
	assert.ErrorIs(t, err, ErrNoOrders)
}

func TestAggregateSumsQuantitiesPerProduct(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	orders := []order.Order{
		{
			ID:        1,
			CreatedAt: day1,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Apples", Quantity: 2, PriceCents: 500},
			},
		},
		{
			ID:        2,
			CreatedAt: day2,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Apples", Quantity: 1, PriceCents: 500},
			},
		},
	}

	rep, err := Aggregate(orders)
	require.NoError(t, err)

	require.Len(t, rep.Lines, 1)
	assert.Equal(t, "Apples", rep.Lines[0].Product)
	assert.Equal(t, 3, rep.Lines[0].Quantity)
	assert.Equal(t, int64(500), rep.Lines[0].PriceCents)
	assert.Equal(t, day1, rep.StartAt)
	assert.Equal(t, day2, rep.EndAt)
}

func TestAggregateQuantityConservation(t *testing.T) {
	now := time.Now()

	orders := []order.Order{
		{
			CreatedAt: now,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Tomatoes", Quantity: 4, PriceCents: 300},
				{ProductTitle: "Cucumbers", Quantity: 2, PriceCents: 200},
			},
		},
		{
			CreatedAt: now.Add(time.Hour),
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Cucumbers", Quantity: 5, PriceCents: 200},
				{ProductTitle: "Tomatoes", Quantity: 1, PriceCents: 300},
				{ProductTitle: "Basil", Quantity: 1, PriceCents: 150},
			},
		},
	}

	rep, err := Aggregate(orders)
	require.NoError(t, err)

	want := map[string]int{}
	for _, o := range orders {
		for _, item := range o.OrderItems {
			want[item.ProductTitle] += item.Quantity
		}
	}

	got := map[string]int{}
	for _, line := range rep.Lines {
		got[line.Product] = line.Quantity
	}
	assert.Equal(t, want, got)
}

func TestAggregateKeepsFirstAppearanceOrder(t *testing.T) {
	now := time.Now()

	orders := []order.Order{
		{
			CreatedAt: now,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Carrots", Quantity: 1, PriceCents: 100},
				{ProductTitle: "Apples", Quantity: 1, PriceCents: 500},
			},
		},
		{
			CreatedAt: now,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Apples", Quantity: 2, PriceCents: 500},
				{ProductTitle: "Beets", Quantity: 1, PriceCents: 250},
			},
		},
	}

	rep, err := Aggregate(orders)
	require.NoError(t, err)

	products := make([]string, 0, len(rep.Lines))
	for _, line := range rep.Lines {
		products = append(products, line.Product)
	}
	assert.Equal(t, []string{"Carrots", "Apples", "Beets"}, products)
}

func TestWindowMinMax(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	orders := []order.Order{
		{CreatedAt: base.Add(2 * time.Hour)},
		{CreatedAt: base},
		{CreatedAt: base.Add(26 * time.Hour)},
	}

	start, end, err := Window(orders)
	require.NoError(t, err)
	assert.Equal(t, base, start)
	assert.Equal(t, base.Add(26*time.Hour), end)
}
