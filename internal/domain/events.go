package domain

// Payloads published to the order_events topic through the outbox.

type OrderCreatedEvent struct {
	OrderID   int64   `json:"order_id"`
	Reference string  `json:"reference"`
	UserEmail string  `json:"user_email"`
	Total     float64 `json:"total"`
}

type OrderStatusChangedEvent struct {
	OrderID   int64  `json:"order_id"`
	Reference string `json:"reference"`
	UserEmail string `json:"user_email"`
	Status    string `json:"status"`
}
