package webhook

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ariefcatur/go-ticket-store.git/internal/catalog"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/ariefcatur/go-ticket-store.git/internal/payment"
	"github.com/ariefcatur/go-ticket-store.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Fulfiller: dipenuhi oleh *fulfill.Dispatcher.
type Fulfiller interface {
	Fulfill(ctx context.Context, o orders.Order, p orders.Product) error
}

// Reconciler: konsumsi payment event (at-least-once) dan lakukan transisi
// PENDING -> PAID tepat sekali. CAS di store adalah pengaman utamanya;
// dedup redis per event id cuma short-circuit.
type Reconciler struct {
	gateway payment.Gateway
	store   orders.Store
	catalog *catalog.Catalog
	ful     Fulfiller
	pub     orders.EventPublisher
	rdb     *redis.Client // boleh nil
	name    string
}

func NewReconciler(
	gateway payment.Gateway,
	store orders.Store,
	cat *catalog.Catalog,
	ful Fulfiller,
	pub orders.EventPublisher,
	rdb *redis.Client,
	serviceName string,
) *Reconciler {
	return &Reconciler{
		gateway: gateway,
		store:   store,
		catalog: cat,
		ful:     ful,
		pub:     pub,
		rdb:     rdb,
		name:    serviceName,
	}
}

// HandleEvent memproses raw payload webhook. Error untuk dua kasus: payload
// gagal verifikasi (payment.ErrInvalidSignature, satu-satunya 4xx) dan store
// yang lagi bermasalah (5xx, biar provider retry). Event yang hasil CAS-nya
// sudah durable SELALU di-ack, termasuk saat order tidak dikenal atau
// fulfillment gagal: retry provider tidak berguna lagi begitu event
// finansialnya tercatat.
func (r *Reconciler) HandleEvent(ctx context.Context, raw []byte) error {
	ev, err := r.gateway.VerifyWebhook(raw)
	if err != nil {
		return err
	}

	if ev.EventType != payment.EventPaymentSucceeded {
		log.Printf("webhook: ignoring %s for order %d", ev.EventType, ev.OrderCode)
		return nil
	}

	// dedup cuma dibaca di sini; key-nya BARU ditulis setelah hasil CAS
	// durable. Kalau ditulis sebelum transisi, satu kegagalan store bikin
	// event id keburu terpakai dan semua retry provider mental.
	dkey := fmt.Sprintf(redisx.KeyDedup, "webhook", ev.EventID)
	if redisx.Exists(ctx, r.rdb, dkey) {
		log.Printf("webhook: duplicate event %s (order %d), skip", ev.EventID, ev.OrderCode)
		return nil
	}

	o, err := r.store.Transition(ctx, ev.OrderCode, orders.StatusPending, orders.StatusPaid)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		// order tidak pernah dibuat sistem ini; ack supaya provider berhenti retry
		log.Printf("webhook: no order for code %d, acking anyway", ev.OrderCode)
		redisx.MarkOnce(ctx, r.rdb, dkey)
		return nil

	case errors.Is(err, orders.ErrConflict):
		if o.Status == orders.StatusCancelled {
			// uang masuk untuk order yang sudah dibatalkan: anomali, review manual
			log.Printf("webhook: ANOMALY payment for cancelled order %d amount %d", o.Code, ev.AmountCents)
			orders.PublishEvent(r.pub, r.name, orders.EventPaymentAnomaly, o.Code, orders.PaymentAnomalyPayload{
				OrderCode:   o.Code,
				Status:      string(o.Status),
				AmountCents: ev.AmountCents,
				Reason:      "payment received for cancelled order",
			})
			redisx.MarkOnce(ctx, r.rdb, dkey)
			return nil
		}
		// sudah PAID/CONFIRMED oleh delivery sebelumnya: idempotent, bukan error
		log.Printf("webhook: order %d already %s, skip re-dispatch", o.Code, o.Status)
		redisx.MarkOnce(ctx, r.rdb, dkey)
		return nil

	case err != nil:
		// store transient (mis. koneksi pg putus): jangan ack dan jangan
		// sentuh dedup, supaya retry provider berikutnya bisa mendarat
		return fmt.Errorf("transition order %d: %w", ev.OrderCode, err)
	}

	// menang CAS: order baru saja jadi PAID, aman menandai event terpakai
	redisx.MarkOnce(ctx, r.rdb, dkey)
	if ev.AmountCents != o.AmountCents {
		log.Printf("webhook: ANOMALY amount mismatch order %d: got %d want %d", o.Code, ev.AmountCents, o.AmountCents)
	}
	r.cacheStatus(ctx, o)

	orders.PublishEvent(r.pub, r.name, orders.EventOrderPaid, o.Code, orders.OrderPaidPayload{
		OrderCode:   o.Code,
		BuyerID:     o.BuyerID,
		ChannelID:   o.ChannelID,
		ProductKey:  o.ProductKey,
		AmountCents: o.AmountCents,
	})

	// fulfillment di luar critical section store, dan cuma di jalur menang CAS
	p, ok := r.catalog.Get(o.ProductKey)
	if !ok {
		// katalog sudah berubah sejak order dibuat; pakai key sebagai nama
		log.Printf("webhook: product %s for order %d missing from catalog", o.ProductKey, o.Code)
		p = orders.Product{Key: o.ProductKey, Name: o.ProductKey, PriceCents: o.AmountCents}
	}
	if err := r.ful.Fulfill(ctx, o, p); err != nil {
		// order tetap PAID; delivery diurus manual, jangan bikin provider retry
		log.Printf("webhook: fulfillment order %d: %v", o.Code, err)
		orders.PublishEvent(r.pub, r.name, orders.EventDeliveryFailed, o.Code, orders.DeliveryPayload{
			OrderCode: o.Code,
			BuyerID:   o.BuyerID,
			ChannelID: o.ChannelID,
			Reason:    err.Error(),
		})
		return nil
	}
	orders.PublishEvent(r.pub, r.name, orders.EventItemDelivered, o.Code, orders.DeliveryPayload{
		OrderCode: o.Code,
		BuyerID:   o.BuyerID,
		ChannelID: o.ChannelID,
	})
	return nil
}

func (r *Reconciler) cacheStatus(ctx context.Context, o orders.Order) {
	if r.rdb == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.Code)
	_ = r.rdb.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, o.Status), redisx.TTLStatusCache).Err()
}
