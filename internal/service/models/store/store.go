package store

import "time"

// Store represents a pickup point where customers collect their orders.
// Stores are managed through the back office and are read-only to the
// day-closing pipeline.
type Store struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"accountId"`
	Name         string    `json:"name"`
	ManagerEmail string    `json:"managerEmail"`
	Status       bool      `json:"status"`
	OpeningDay   string    `json:"openingDay"`
	ClosingDay   string    `json:"closingDay"`
	OpeningHour  int       `json:"openingHour"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
