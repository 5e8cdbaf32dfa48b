package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/gal-ch/green-market/internal/service/models/currency"
	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/orderitem"
	"github.com/gal-ch/green-market/pkg/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	BatchInsert(ctx context.Context, orders []order.Order) ([]order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProductTitle  string `json:"productTitle"  validate:"required"`
	Quantity      int    `json:"quantity"      validate:"gt=0"`
	PriceCents    int64  `json:"priceCents"    validate:"gt=0"`
	PriceCurrency string `json:"priceCurrency" validate:"required"`
}

// toModel converts itemInCreateOrderRequest to orderitem.OrderItem.
func (r *itemInCreateOrderRequest) toModel() (*orderitem.OrderItem, error) {
	cur, err := currency.ParseCurrency(r.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &orderitem.OrderItem{
		ProductTitle:  r.ProductTitle,
		Quantity:      r.Quantity,
		PriceCents:    r.PriceCents,
		PriceCurrency: cur,
	}, nil
}

// orderInCreateOrderRequest represents an order in a create order request.
type orderInCreateOrderRequest struct {
	StoreID     int64                      `json:"storeId"     validate:"gt=0"`
	ClientName  string                     `json:"clientName"  validate:"required"`
	ClientPhone string                     `json:"clientPhone"`
	OrderItems  []itemInCreateOrderRequest `json:"orderItems"  validate:"required,min=1,dive"`
}

// toModel converts orderInCreateOrderRequest to order.Order.
func (r *orderInCreateOrderRequest) toModel(accountID int64) (*order.Order, error) {
	items := make([]orderitem.OrderItem, len(r.OrderItems))
	for i := range r.OrderItems {
		item, err := r.OrderItems[i].toModel()
		if err != nil {
			return nil, err
		}
		items[i] = *item
	}

	return &order.Order{
		AccountID:   accountID,
		StoreID:     r.StoreID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		OrderItems:  items,
	}, nil
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	Orders []orderInCreateOrderRequest `json:"orders" validate:"required,min=1,dive"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// BatchInsert handles the checkout batch insert request.
func BatchInsert(w http.ResponseWriter, r *http.Request, service service) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)

		return
	}

	ordersReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&ordersReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for batch insert", "error", err)

		return
	}

	if err := ordersReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for batch insert", "error", err)

		return
	}

	orders := make([]order.Order, len(ordersReq.Orders))
	for i, req := range ordersReq.Orders {
		model, err := req.toModel(accountID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			slog.Error("Error converting request to model", "error", err)

			return
		}
		orders[i] = *model
	}

	insertedOrders, err := service.BatchInsert(r.Context(), orders)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error performing batch insert", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(insertedOrders); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response for batch insert", "error", err)
	}
}
