package order

import "time"

// QueryOrdersModel represents filter parameters for querying orders.
// Zero values mean the filter is not applied.
type QueryOrdersModel struct {
	Ids         []int64   `json:"ids,omitempty"`
	StoreIds    []int64   `json:"storeIds,omitempty"`
	AccountID   int64     `json:"accountId,omitempty"`
	Open        *bool     `json:"open,omitempty"`
	CreatedFrom time.Time `json:"createdFrom,omitempty"`
	CreatedTo   time.Time `json:"createdTo,omitempty"`
	Limit       int       `json:"limit,omitempty"`
	Offset      int       `json:"offset,omitempty"`
}
