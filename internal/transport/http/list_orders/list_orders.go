package listorders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/schema"

	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/pkg/http/middleware/auth"
)

type service interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids         []int64 `schema:"ids,omitempty"`
	StoreIds    []int64 `schema:"storeIds,omitempty"`
	Open        *bool   `schema:"open,omitempty"`
	CreatedFrom string  `schema:"createdFrom,omitempty"`
	CreatedTo   string  `schema:"createdTo,omitempty"`
	Limit       int     `schema:"limit,omitempty"`
	Offset      int     `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) ToModel(accountID int64) (*order.QueryOrdersModel, error) {
	filter := &order.QueryOrdersModel{
		Ids:       q.Ids,
		StoreIds:  q.StoreIds,
		AccountID: accountID,
		Open:      q.Open,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}

	if q.CreatedFrom != "" {
		t, err := time.Parse(time.RFC3339, q.CreatedFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid createdFrom: %w", err)
		}
		filter.CreatedFrom = t
	}
	if q.CreatedTo != "" {
		t, err := time.Parse(time.RFC3339, q.CreatedTo)
		if err != nil {
			return nil, fmt.Errorf("invalid createdTo: %w", err)
		}
		filter.CreatedTo = t
	}

	return filter, nil
}

// DecodeFilter parses the order list query string into a service filter.
// Unknown parameters are rejected.
func DecodeFilter(r *http.Request, accountID int64) (*order.QueryOrdersModel, error) {
	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		return nil, err
	}

	return query.ToModel(accountID)
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)

		return
	}

	filter, err := DecodeFilter(r, accountID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
