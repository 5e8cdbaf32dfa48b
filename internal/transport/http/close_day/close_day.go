package closeday

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gal-ch/green-market/internal/service/services/closingsvc"
	"github.com/gal-ch/green-market/pkg/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	CloseDay(ctx context.Context, accountID int64, storeIDs []int64) closingsvc.CloseDayResult
}

// closeDayRequest represents a close day request. Unknown fields are
// rejected instead of being passed through as untyped filters.
type closeDayRequest struct {
	StoreIds []int64 `json:"storeIds"`
}

// CloseDay handles the end-of-day closing request. Per-store failures are
// reported in the manifest, not as an HTTP error.
func CloseDay(w http.ResponseWriter, r *http.Request, service service) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)

		return
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	req := closeDayRequest{}
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for close day", "error", err)

		return
	}

	if len(req.StoreIds) == 0 {
		http.Error(w, "storeIds must not be empty", http.StatusBadRequest)

		return
	}

	result := service.CloseDay(r.Context(), accountID, req.StoreIds)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error sending response for close day", "error", err)
	}
}
