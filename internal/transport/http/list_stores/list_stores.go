package liststores

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/gal-ch/green-market/internal/service/models/store"
	"github.com/gal-ch/green-market/pkg/http/middleware/auth"
)

type service interface {
	GetStores(ctx context.Context, filter *store.QueryStoresModel) ([]store.Store, error)
}

type queryStoresRequest struct {
	Ids            []int64 `schema:"ids,omitempty"`
	ActiveOnly     bool    `schema:"activeOnly,omitempty"`
	WithOpenOrders bool    `schema:"withOpenOrders,omitempty"`
}

func (q *queryStoresRequest) ToModel(accountID int64) *store.QueryStoresModel {
	return &store.QueryStoresModel{
		Ids:            q.Ids,
		AccountID:      accountID,
		ActiveOnly:     q.ActiveOnly,
		WithOpenOrders: q.WithOpenOrders,
	}
}

func ListStores(w http.ResponseWriter, r *http.Request, service service) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)

		return
	}

	decoder := schema.NewDecoder()
	query := &queryStoresRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	stores, err := service.GetStores(r.Context(), query.ToModel(accountID))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting stores", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stores); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
