package fulfill

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ariefcatur/go-ticket-store.git/internal/chat"
	"github.com/ariefcatur/go-ticket-store.git/internal/inventory"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
)

var ErrDeliveryFailed = errors.New("delivery failed")

// Dispatcher: kirim barang ke buyer setelah order jadi PAID.
// Dipanggil tepat sekali per order (reconciler yang jamin lewat CAS).
// Gagal kirim TIDAK me-rollback status: uang sudah masuk, sisanya manual.
type Dispatcher struct {
	source inventory.Source
	notif  chat.Notifier
}

func NewDispatcher(source inventory.Source, notif chat.Notifier) *Dispatcher {
	return &Dispatcher{source: source, notif: notif}
}

func (d *Dispatcher) Fulfill(ctx context.Context, o orders.Order, p orders.Product) error {
	payload, err := d.source.TakeItem(ctx, o.ProductKey)
	if err != nil {
		d.notifyChannel(ctx, o.ChannelID,
			fmt.Sprintf("⚠️ Auto-delivery failed for order **%d** (%v). Staff, please deliver manually.", o.Code, err))
		return fmt.Errorf("%w: take item %s: %v", ErrDeliveryFailed, o.ProductKey, err)
	}

	msg := fmt.Sprintf(
		"🛒 Order **%d** paid successfully.\nProduct: **%s**\nHere is your item:\n```%s```\nThanks for your purchase!",
		o.Code, p.Name, payload)
	if err := d.notif.SendToUser(ctx, o.BuyerID, msg); err != nil {
		d.notifyChannel(ctx, o.ChannelID,
			fmt.Sprintf("⚠️ Could not DM the buyer for order **%d**. Staff, please deliver manually.", o.Code))
		return fmt.Errorf("%w: dm buyer: %v", ErrDeliveryFailed, err)
	}

	d.notifyChannel(ctx, o.ChannelID,
		fmt.Sprintf("📦 Item for order **%d** was delivered automatically via DM.", o.Code))
	return nil
}

// notify best-effort; jangan sampai error kirim pesan menutupi hasil delivery.
func (d *Dispatcher) notifyChannel(ctx context.Context, channelID, msg string) {
	if err := d.notif.SendToChannel(ctx, channelID, msg); err != nil {
		log.Printf("notify channel %s: %v", channelID, err)
	}
}
