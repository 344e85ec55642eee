package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-ticket-store.git/internal/chat"
	kafkax "github.com/ariefcatur/go-ticket-store.git/internal/kafka"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/ariefcatur/go-ticket-store.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Service: konsumsi event lifecycle dan tulis ringkasannya ke log channel
// operator. Dedup via redis per event_id (konsumsi at-least-once).
type Service struct {
	Notif        chat.Notifier
	Redis        *redis.Client
	LogChannelID string
}

// HandleLifecycle dipasang sebagai handler consumer.
func (s *Service) HandleLifecycle(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if redisx.Exists(ctx, s.Redis, dkey) {
		return nil
	}

	msg, err := formatEvent(env)
	if err != nil {
		return err
	}
	if msg == "" {
		return nil // event type yang tidak perlu dilaporkan
	}
	if err := s.Notif.SendToChannel(ctx, s.LogChannelID, msg); err != nil {
		return err
	}
	// tandai sesudah terkirim; kalau sebelum, satu kegagalan kirim bikin
	// retry berikutnya ke-skip dan pesannya hilang
	redisx.MarkOnce(ctx, s.Redis, dkey)
	return nil
}

func formatEvent(env orders.Envelope) (string, error) {
	switch env.EventType {
	case orders.EventTicketOpened:
		p, err := kafkax.UnwrapPayload[orders.TicketOpenedPayload](env.Payload)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🎫 New ticket | order **%d** | buyer <@%s> | %s (%d)",
			p.OrderCode, p.BuyerID, p.ProductKey, p.AmountCents), nil

	case orders.EventOrderPaid:
		p, err := kafkax.UnwrapPayload[orders.OrderPaidPayload](env.Payload)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("💰 Payment received | order **%d** | amount **%d** | buyer <@%s>",
			p.OrderCode, p.AmountCents, p.BuyerID), nil

	case orders.EventOrderConfirmed:
		p, err := kafkax.UnwrapPayload[orders.StaffActionPayload](env.Payload)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🧾 **CONFIRM** by <@%s> | order **%d** | buyer <@%s>",
			p.StaffID, p.OrderCode, p.BuyerID), nil

	case orders.EventOrderCancelled:
		p, err := kafkax.UnwrapPayload[orders.StaffActionPayload](env.Payload)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🚫 **CANCEL** by <@%s> | order **%d**", p.StaffID, p.OrderCode), nil

	case orders.EventItemDelivered:
		p, err := kafkax.UnwrapPayload[orders.DeliveryPayload](env.Payload)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("📦 Auto-delivery ok | order **%d**", p.OrderCode), nil

	case orders.EventDeliveryFailed:
		p, err := kafkax.UnwrapPayload[orders.DeliveryPayload](env.Payload)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("⚠️ Auto-delivery FAILED | order **%d** | %s | manual delivery needed",
			p.OrderCode, p.Reason), nil

	case orders.EventPaymentAnomaly:
		p, err := kafkax.UnwrapPayload[orders.PaymentAnomalyPayload](env.Payload)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("❗ ANOMALY | payment for %s order **%d** (amount %d) | manual review needed",
			p.Status, p.OrderCode, p.AmountCents), nil
	}
	return "", nil
}
