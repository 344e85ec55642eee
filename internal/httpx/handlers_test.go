package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/ariefcatur/go-ticket-store.git/internal/catalog"
	"github.com/ariefcatur/go-ticket-store.git/internal/fulfill"
	"github.com/ariefcatur/go-ticket-store.git/internal/inventory"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/ariefcatur/go-ticket-store.git/internal/payment"
	"github.com/ariefcatur/go-ticket-store.git/internal/ticket"
	"github.com/ariefcatur/go-ticket-store.git/internal/webhook"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakePublisher struct{}

func (fakePublisher) Publish(_, _ []byte, _ ...kafkago.Header) {}

// stubGateway: payment link statis; VerifyWebhook decode raw sebagai Event,
// body yang bukan JSON dianggap signature invalid.
type stubGateway struct{}

func (stubGateway) CreatePaymentRequest(_ context.Context, code int64, _ int, _, _ string) (string, error) {
	return "https://pay.example/" + strconv.FormatInt(code, 10), nil
}

func (stubGateway) VerifyWebhook(raw []byte) (payment.Event, error) {
	var ev payment.Event
	if err := json.Unmarshal(raw, &ev); err != nil || ev.EventType == "" {
		return payment.Event{}, payment.ErrInvalidSignature
	}
	return ev, nil
}

type stubChat struct {
	mu   sync.Mutex
	next int
}

func (c *stubChat) CreatePrivateChannel(context.Context, string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return "chan-" + strconv.Itoa(c.next), nil
}

func (c *stubChat) DeleteChannel(context.Context, string) error         { return nil }
func (c *stubChat) SendToUser(context.Context, string, string) error    { return nil }
func (c *stubChat) SendToChannel(context.Context, string, string) error { return nil }

// ---- wiring ----

func newTestServer(t *testing.T) (*httptest.Server, *orders.MemoryStore) {
	t.Helper()

	cat, err := catalog.New([]orders.Product{
		{Key: "netflix-1m", Name: "Netflix 1 Month", PriceCents: 100000},
	})
	require.NoError(t, err)

	store := orders.NewMemoryStore()
	ch := &stubChat{}
	pub := fakePublisher{}
	gw := stubGateway{}

	svc := ticket.NewService(cat, store, gw, ch, ch, pub, nil, "test-bot")
	disp := fulfill.NewDispatcher(inventory.NewStaticSource(map[string][]string{
		"netflix-1m": {"item-1", "item-2", "item-3"},
	}), ch)
	rec := webhook.NewReconciler(gw, store, cat, disp, pub, nil, "test-bot")

	r := NewRouter()
	(&OrdersHandler{Svc: svc, Store: store, Catalog: cat}).Register(r)
	(&WebhookHandler{Rec: rec}).Register(r, "/payos-webhook")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func openTicket(t *testing.T, srv *httptest.Server) int64 {
	t.Helper()
	resp, out := doJSON(t, http.MethodPost, srv.URL+"/tickets",
		map[string]string{"buyer_id": "buyer-1", "product_key": "netflix-1m"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return int64(out["order_code"].(float64))
}

// ---- tests ----

func TestOpenTicketEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	resp, out := doJSON(t, http.MethodPost, srv.URL+"/tickets",
		map[string]string{"buyer_id": "buyer-1", "product_key": "netflix-1m"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, out["channel_id"])
	require.Contains(t, out["checkout_url"], "https://pay.example/")

	code := int64(out["order_code"].(float64))
	o, err := store.Get(context.Background(), code)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, o.Status)
}

func TestOpenTicketEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/tickets", map[string]string{"buyer_id": "buyer-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/tickets",
		map[string]string{"buyer_id": "buyer-1", "product_key": "nope"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetOrderEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	code := openTicket(t, srv)

	resp, out := doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d", srv.URL, code), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "PENDING", out["status"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/orders/424242", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/orders/abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	code := openTicket(t, srv)

	resp, out := doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d/checkout", srv.URL, code), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, out["checkout_url"], "https://pay.example/")
}

func TestConfirmEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	code := openTicket(t, srv)

	// belum dibayar: conflict
	resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/confirm", srv.URL, code),
		map[string]string{"staff_id": "staff-1"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	_, err := store.Transition(context.Background(), code, orders.StatusPending, orders.StatusPaid)
	require.NoError(t, err)

	resp, out := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/confirm", srv.URL, code),
		map[string]string{"staff_id": "staff-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "CONFIRMED", out["status"])

	// tanpa staff_id
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/confirm", srv.URL, code), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCancelEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	code := openTicket(t, srv)

	resp, out := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/cancel", srv.URL, code),
		map[string]string{"staff_id": "staff-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "CANCELLED", out["status"])

	// sudah terminal: cancel kedua conflict
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/cancel", srv.URL, code),
		map[string]string{"staff_id": "staff-1"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCloseEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	code := openTicket(t, srv)

	resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/close", srv.URL, code), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/cancel", srv.URL, code),
		map[string]string{"staff_id": "staff-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/close", srv.URL, code), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProductsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []orders.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	require.Equal(t, "netflix-1m", list[0].Key)
}

func TestWebhookEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	code := openTicket(t, srv)

	body := payment.Event{
		EventID:     "ev-1",
		EventType:   payment.EventPaymentSucceeded,
		OrderCode:   code,
		AmountCents: 100000,
	}
	resp, out := doJSON(t, http.MethodPost, srv.URL+"/payos-webhook", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", out["message"])

	o, err := store.Get(context.Background(), code)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPaid, o.Status)
}

func TestWebhookEndpointInvalidSignature(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/payos-webhook",
		bytes.NewReader([]byte("definitely not a webhook")))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "invalid webhook", out["message"])
}

// Retry provider untuk event yang sama: tetap 200, state tidak berubah lagi.
func TestWebhookEndpointRetry(t *testing.T) {
	srv, store := newTestServer(t)
	code := openTicket(t, srv)

	body := payment.Event{
		EventID:     "ev-1",
		EventType:   payment.EventPaymentSucceeded,
		OrderCode:   code,
		AmountCents: 100000,
	}
	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/payos-webhook", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	o, err := store.Get(context.Background(), code)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPaid, o.Status)
}
