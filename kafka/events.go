package kafka

import "time"

// OrderLinePayload is one order line inside an event payload
type OrderLinePayload struct {
	VariantID uint   `json:"variant_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

// OrderPlacedEvent is emitted after an order placement commits
type OrderPlacedEvent struct {
	EventID   string             `json:"event_id"`
	EventType string             `json:"event_type"`
	OrderID   uint               `json:"order_id"`
	OrderCode string             `json:"order_code"`
	UserID    uint               `json:"user_id,omitempty"`
	Lines     []OrderLinePayload `json:"lines"`
	Total     string             `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

// PaymentCompletedEvent is emitted when a gateway callback completes a payment
type PaymentCompletedEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	PaymentID       uint      `json:"payment_id"`
	OrderID         uint      `json:"order_id"`
	OrderCode       string    `json:"order_code"`
	Amount          string    `json:"amount"`
	PaymentMethodID int       `json:"payment_method_id"`
	TransactionCode string    `json:"transaction_code"`
	Timestamp       time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderPlaced      = "order.placed"
	EventTypePaymentCompleted = "payment.completed"
)

// Kafka topics
const (
	TopicOrderPlaced      = "order-placed"
	TopicPaymentCompleted = "payment-completed"
)
