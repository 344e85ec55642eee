package orders

import "time"

type Product struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	PriceCents  int    `json:"price_cents"`
	Description string `json:"description,omitempty"`
}

// Order: AmountCents di-copy dari harga produk saat dibuat.
// Perubahan katalog belakangan tidak mengubah order yang sudah ada.
type Order struct {
	Code        int64     `json:"order_code"`
	BuyerID     string    `json:"buyer_id"`
	ChannelID   string    `json:"channel_id"`
	ProductKey  string    `json:"product_key"`
	AmountCents int       `json:"amount_cents"`
	Status      Status    `json:"status"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
