package redisx

import "time"

const (
	// Dedup event processing: dedup:{service}:{id}
	// (id = provider event id utk webhook, event_id envelope utk notifier)
	KeyDedup = "dedup:%s:%s"

	// Cache status order: order_status:{order_code} -> JSON ringkas
	KeyOrderStatus = "order_status:%d"

	// Cache checkout link: order_checkout:{order_code} -> url
	KeyCheckout = "order_checkout:%d"
)

var (
	TTLDedup       = 48 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLCheckout    = 24 * time.Hour
)
