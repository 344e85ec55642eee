package orders

import (
	"encoding/json"
	"time"
)

const (
	EventTicketOpened   = "TicketOpened"
	EventOrderPaid      = "OrderPaid"
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderCancelled = "OrderCancelled"
	EventItemDelivered  = "ItemDelivered"
	EventDeliveryFailed = "DeliveryFailed"
	EventPaymentAnomaly = "PaymentAnomaly"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "ticket-bot"
	CorrelationID string          `json:"correlation_id,omitempty"` // order code
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type TicketOpenedPayload struct {
	OrderCode   int64  `json:"order_code"`
	BuyerID     string `json:"buyer_id"`
	ChannelID   string `json:"channel_id"`
	ProductKey  string `json:"product_key"`
	AmountCents int    `json:"amount_cents"`
}

type OrderPaidPayload struct {
	OrderCode   int64  `json:"order_code"`
	BuyerID     string `json:"buyer_id"`
	ChannelID   string `json:"channel_id"`
	ProductKey  string `json:"product_key"`
	AmountCents int    `json:"amount_cents"`
}

type StaffActionPayload struct {
	OrderCode int64  `json:"order_code"`
	BuyerID   string `json:"buyer_id"`
	ChannelID string `json:"channel_id"`
	StaffID   string `json:"staff_id"`
}

type DeliveryPayload struct {
	OrderCode int64  `json:"order_code"`
	BuyerID   string `json:"buyer_id"`
	ChannelID string `json:"channel_id"`
	Reason    string `json:"reason,omitempty"` // diisi kalau gagal
}

// PaymentAnomalyPayload: pembayaran masuk untuk order yang tidak bisa
// menerimanya (mis. sudah CANCELLED). Untuk review manual operator.
type PaymentAnomalyPayload struct {
	OrderCode   int64  `json:"order_code"`
	Status      string `json:"status"`
	AmountCents int    `json:"amount_cents"`
	Reason      string `json:"reason"`
}
