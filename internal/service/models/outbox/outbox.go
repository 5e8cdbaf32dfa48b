package outbox

import (
	"time"
)

// Message is an event waiting to be published to RabbitMQ. Rows are written
// in the same transaction as the mutation they describe and removed once the
// worker manages to publish them.
type Message struct {
	ID           int64
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// DayClosedEvent is the payload published after a day-closing run marks a
// set of stores' orders completed.
type DayClosedEvent struct {
	AccountID       int64     `json:"accountId"`
	StoreIds        []int64   `json:"storeIds"`
	OrdersCompleted int64     `json:"ordersCompleted"`
	ClosedAt        time.Time `json:"closedAt"`
}
