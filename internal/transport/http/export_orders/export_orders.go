package exportorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gal-ch/green-market/internal/service/models/order"
	listorders "github.com/gal-ch/green-market/internal/transport/http/list_orders"
	"github.com/gal-ch/green-market/pkg/http/middleware/auth"
)

const contentTypeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type service interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

type encoder interface {
	Orders(orders []order.Order) ([]byte, error)
}

// ExportOrders handles the admin collection export: the same filters as the
// order list, rendered as an xlsx download.
func ExportOrders(w http.ResponseWriter, r *http.Request, service service, encoder encoder) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)

		return
	}

	filter, err := listorders.DecodeFilter(r, accountID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders for export", "error", err)

		return
	}

	artifact, err := encoder.Orders(orders)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error encoding orders export", "error", err)

		return
	}

	w.Header().Set("Content-Type", contentTypeXlsx)
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	if _, err := w.Write(artifact); err != nil {
		slog.Error("Error sending orders export", "error", err)
	}
}
