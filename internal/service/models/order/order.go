package order

import (
	"time"

	"github.com/gal-ch/green-market/internal/service/models/orderitem"
)

// Order represents a customer order tied to a pickup store. Open orders are
// the ones not yet swept by an end-of-day closing.
type Order struct {
	ID          int64                 `json:"id"`
	AccountID   int64                 `json:"accountId"`
	StoreID     int64                 `json:"storeId"`
	ClientName  string                `json:"clientName"`
	ClientPhone string                `json:"clientPhone"`
	Open        bool                  `json:"open"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
	OrderItems  []orderitem.OrderItem `json:"orderItems"`
}
