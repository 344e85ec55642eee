package payment

import (
	"context"
	"errors"
)

const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

var ErrInvalidSignature = errors.New("webhook signature mismatch")

// Event: hasil verifikasi webhook. Sudah trusted saat sampai ke reconciler.
type Event struct {
	EventID     string // id event dari provider, dipakai untuk dedup
	EventType   string // EventPaymentSucceeded | EventPaymentFailed
	OrderCode   int64
	AmountCents int
}

// Gateway: adapter penyedia pembayaran. Algoritma signature dan bentuk API
// provider adalah urusan implementasi, bukan core.
type Gateway interface {
	// CreatePaymentRequest bikin link checkout untuk satu order.
	// idempotencyKey = order code, biar retry tidak double-charge.
	CreatePaymentRequest(ctx context.Context, orderCode int64, amountCents int, description, idempotencyKey string) (checkoutURL string, err error)

	// VerifyWebhook cek keaslian payload mentah. ErrInvalidSignature kalau untrusted.
	VerifyWebhook(raw []byte) (Event, error)
}
