package ticket

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
)

// Aksi staff. Dua-duanya cuma memanggil CAS transition di store; keputusan
// menang/kalah race lawan webhook ada di sana, bukan di sini.

// Confirm: PAID -> CONFIRMED. ErrConflict kalau order belum dibayar
// (atau sudah confirmed/cancelled).
func (s *Service) Confirm(ctx context.Context, code int64, staffID string) (orders.Order, error) {
	o, err := s.store.Transition(ctx, code, orders.StatusPaid, orders.StatusConfirmed)
	if err != nil {
		return o, err
	}
	s.cacheStatus(ctx, o)

	s.say(ctx, o.ChannelID, fmt.Sprintf(
		"✅ Order **%d** has been **CONFIRMED**.\nBuyer: <@%s>\nThanks for your purchase, a vouch is appreciated!",
		code, o.BuyerID))

	orders.PublishEvent(s.pub, s.name, orders.EventOrderConfirmed, code, orders.StaffActionPayload{
		OrderCode: code,
		BuyerID:   o.BuyerID,
		ChannelID: o.ChannelID,
		StaffID:   staffID,
	})
	return o, nil
}

// Cancel: PENDING -> CANCELLED. Order yang sudah dibayar tidak bisa
// dibatalkan lewat jalur ini.
func (s *Service) Cancel(ctx context.Context, code int64, staffID string) (orders.Order, error) {
	o, err := s.store.Transition(ctx, code, orders.StatusPending, orders.StatusCancelled)
	if err != nil {
		return o, err
	}
	s.cacheStatus(ctx, o)

	s.say(ctx, o.ChannelID, fmt.Sprintf("🚫 Order **%d** was cancelled by staff.", code))

	orders.PublishEvent(s.pub, s.name, orders.EventOrderCancelled, code, orders.StaffActionPayload{
		OrderCode: code,
		BuyerID:   o.BuyerID,
		ChannelID: o.ChannelID,
		StaffID:   staffID,
	})
	return o, nil
}
