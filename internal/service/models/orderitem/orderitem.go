package orderitem

import (
	"time"

	"github.com/gal-ch/green-market/internal/service/models/currency"
)

// OrderItem represents a single product line within an order. The product
// title is free text captured at checkout, not a foreign key.
type OrderItem struct {
	ID            int64             `json:"id"`
	OrderID       int64             `json:"orderId"`
	ProductTitle  string            `json:"productTitle"`
	Quantity      int               `json:"quantity"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
