package store

// QueryStoresModel represents filter parameters for querying stores.
type QueryStoresModel struct {
	Ids        []int64 `json:"ids,omitempty"`
	AccountID  int64   `json:"accountId,omitempty"`
	ActiveOnly bool    `json:"activeOnly,omitempty"`

	// WithOpenOrders restricts the result to stores that currently have at
	// least one open order.
	WithOpenOrders bool `json:"withOpenOrders,omitempty"`
}
