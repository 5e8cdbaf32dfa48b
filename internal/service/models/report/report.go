package report

import (
	"errors"
	"time"

	"github.com/gal-ch/green-market/internal/service/models/order"
)

// ErrNoOrders is returned when aggregation is invoked with an empty order
// set. Callers are expected to pre-filter and skip stores without open
// orders instead of aggregating nothing.
var ErrNoOrders = errors.New("no orders to aggregate")

// Line is one aggregated product row: total quantity across all orders and
// the unit price the product was sold at.
type Line struct {
	Product    string `json:"product"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

// Report is the per-store product summary for one reporting window.
// Lines keep the order in which products first appear in the input.
type Report struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Lines   []Line    `json:"lines"`
}

// Window computes the reporting window [min(createdAt), max(createdAt)]
// over the given orders.
func Window(orders []order.Order) (time.Time, time.Time, error) {
	if len(orders) == 0 {
		return time.Time{}, time.Time{}, ErrNoOrders
	}

	start, end := orders[0].CreatedAt, orders[0].CreatedAt
	for _, o := range orders[1:] {
		if o.CreatedAt.Before(start) {
			start = o.CreatedAt
		}
		if o.CreatedAt.After(end) {
			end = o.CreatedAt
		}
	}

	return start, end, nil
}

// Aggregate groups the line items of the given orders by product title,
// summing quantities, and computes the reporting window. The input is not
// mutated.
func Aggregate(orders []order.Order) (*Report, error) {
	start, end, err := Window(orders)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		StartAt: start,
		EndAt:   end,
	}

	index := make(map[string]int)
	for _, o := range orders {
		for _, item := range o.OrderItems {
			i, ok := index[item.ProductTitle]
			if !ok {
				index[item.ProductTitle] = len(rep.Lines)
				rep.Lines = append(rep.Lines, Line{
					Product:    item.ProductTitle,
					Quantity:   item.Quantity,
					PriceCents: item.PriceCents,
				})

				continue
			}
			rep.Lines[i].Quantity += item.Quantity
		}
	}

	return rep, nil
}
