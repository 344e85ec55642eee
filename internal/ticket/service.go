package ticket

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/ariefcatur/go-ticket-store.git/internal/catalog"
	"github.com/ariefcatur/go-ticket-store.git/internal/chat"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/ariefcatur/go-ticket-store.git/internal/payment"
	"github.com/ariefcatur/go-ticket-store.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Service: orkestrasi buka ticket + aksi staff.
// Semua panggilan eksternal (gateway, chat) jalan di luar critical section
// store; store cuma dipanggil untuk create/transition yang instan.
type Service struct {
	catalog *catalog.Catalog
	store   orders.Store
	gateway payment.Gateway
	prov    chat.Provisioner
	notif   chat.Notifier
	pub     orders.EventPublisher
	rdb     *redis.Client // boleh nil: cache/dedup saja, bukan source of truth
	name    string        // producer name utk envelope
}

func NewService(
	cat *catalog.Catalog,
	store orders.Store,
	gateway payment.Gateway,
	prov chat.Provisioner,
	notif chat.Notifier,
	pub orders.EventPublisher,
	rdb *redis.Client,
	serviceName string,
) *Service {
	return &Service{
		catalog: cat,
		store:   store,
		gateway: gateway,
		prov:    prov,
		notif:   notif,
		pub:     pub,
		rdb:     rdb,
		name:    serviceName,
	}
}

type OpenTicketResult struct {
	OrderCode   int64  `json:"order_code"`
	ChannelID   string `json:"channel_id"`
	CheckoutURL string `json:"checkout_url"`
}

// OpenTicket: channel dulu, lalu payment link, baru order PENDING.
// Kalau payment link gagal, channel yang sudah ada dipakai untuk lapor
// error (bukan dead end tanpa order).
func (s *Service) OpenTicket(ctx context.Context, buyerID, productKey string) (OpenTicketResult, error) {
	product, ok := s.catalog.Get(productKey)
	if !ok {
		return OpenTicketResult{}, orders.ErrUnknownProduct
	}

	channelID, err := s.prov.CreatePrivateChannel(ctx, buyerID)
	if err != nil {
		return OpenTicketResult{}, fmt.Errorf("%w: create channel: %v", orders.ErrAdapter, err)
	}

	code := orders.NewCode()
	checkoutURL, err := s.gateway.CreatePaymentRequest(ctx, code, product.PriceCents,
		fmt.Sprintf("Order %d - %s", code, product.Name), strconv.FormatInt(code, 10))
	if err != nil {
		s.say(ctx, channelID, "❌ Failed to create the payment link. Staff will follow up here.")
		return OpenTicketResult{}, fmt.Errorf("%w: payment link: %v", orders.ErrAdapter, err)
	}

	o := orders.Order{
		Code:        code,
		BuyerID:     buyerID,
		ChannelID:   channelID,
		ProductKey:  product.Key,
		AmountCents: product.PriceCents, // snapshot harga saat ini
		Status:      orders.StatusPending,
		CheckoutURL: checkoutURL,
	}
	if err := s.store.Create(ctx, o); err != nil {
		s.say(ctx, channelID, "❌ Could not register the order. Staff will follow up here.")
		return OpenTicketResult{}, fmt.Errorf("register order %d: %w", code, err)
	}
	s.cacheStatus(ctx, o)

	s.say(ctx, channelID, fmt.Sprintf(
		"🎫 New ticket for <@%s>\nProduct: **%s** (**%d**)\nOrder code: **%d**\nStatus: ⏳ awaiting payment\n🔗 Payment link: %s",
		buyerID, product.Name, product.PriceCents, code, checkoutURL))

	orders.PublishEvent(s.pub, s.name, orders.EventTicketOpened, code, orders.TicketOpenedPayload{
		OrderCode:   code,
		BuyerID:     buyerID,
		ChannelID:   channelID,
		ProductKey:  product.Key,
		AmountCents: product.PriceCents,
	})

	return OpenTicketResult{OrderCode: code, ChannelID: channelID, CheckoutURL: checkoutURL}, nil
}

func (s *Service) GetOrder(ctx context.Context, code int64) (orders.Order, error) {
	return s.store.Get(ctx, code)
}

// CheckoutLink: kirim ulang link pembayaran (cache redis -> store).
func (s *Service) CheckoutLink(ctx context.Context, code int64) (string, error) {
	if s.rdb != nil {
		if url, err := s.rdb.Get(ctx, fmt.Sprintf(redisx.KeyCheckout, code)).Result(); err == nil && url != "" {
			return url, nil
		}
	}
	o, err := s.store.Get(ctx, code)
	if err != nil {
		return "", err
	}
	return o.CheckoutURL, nil
}

// CloseTicket: hapus channel setelah order selesai (CONFIRMED/CANCELLED).
func (s *Service) CloseTicket(ctx context.Context, code int64) error {
	o, err := s.store.Get(ctx, code)
	if err != nil {
		return err
	}
	if !o.Status.Terminal() {
		return orders.ErrConflict
	}
	if err := s.prov.DeleteChannel(ctx, o.ChannelID); err != nil {
		return fmt.Errorf("%w: delete channel: %v", orders.ErrAdapter, err)
	}
	return nil
}

func (s *Service) say(ctx context.Context, channelID, msg string) {
	if err := s.notif.SendToChannel(ctx, channelID, msg); err != nil {
		log.Printf("send to channel %s: %v", channelID, err)
	}
}

func (s *Service) cacheStatus(ctx context.Context, o orders.Order) {
	if s.rdb == nil {
		return
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, o.Code)
	_ = s.rdb.Set(ctx, statusKey, fmt.Sprintf(`{"status":%q}`, o.Status), redisx.TTLStatusCache).Err()
	if o.CheckoutURL != "" {
		_ = s.rdb.Set(ctx, fmt.Sprintf(redisx.KeyCheckout, o.Code), o.CheckoutURL, redisx.TTLCheckout).Err()
	}
}
