package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const checksumKey = "test-checksum-key"

func signedWebhook(t *testing.T, data string) []byte {
	t.Helper()
	body := map[string]any{
		"code":      "00",
		"desc":      "success",
		"data":      json.RawMessage(data),
		"signature": Sign(checksumKey, []byte(data)),
	}
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return b
}

func TestVerifyWebhook(t *testing.T) {
	c := NewPayOSClient("https://example.invalid", "cid", "key", checksumKey)

	data := `{"orderCode":1756700000123,"amount":100000,"reference":"ref-1","code":"00","desc":"success"}`
	ev, err := c.VerifyWebhook(signedWebhook(t, data))
	require.NoError(t, err)
	require.Equal(t, EventPaymentSucceeded, ev.EventType)
	require.Equal(t, int64(1756700000123), ev.OrderCode)
	require.Equal(t, 100000, ev.AmountCents)
	require.Equal(t, "ref-1", ev.EventID)
}

func TestVerifyWebhookFailedPayment(t *testing.T) {
	c := NewPayOSClient("https://example.invalid", "cid", "key", checksumKey)

	data := `{"orderCode":5,"amount":100000,"reference":"ref-2","code":"01","desc":"declined"}`
	ev, err := c.VerifyWebhook(signedWebhook(t, data))
	require.NoError(t, err)
	require.Equal(t, EventPaymentFailed, ev.EventType)
}

func TestVerifyWebhookRejectsTampering(t *testing.T) {
	c := NewPayOSClient("https://example.invalid", "cid", "key", checksumKey)

	data := `{"orderCode":5,"amount":100000,"reference":"ref-3","code":"00"}`
	raw := signedWebhook(t, data)

	// ubah amount setelah ditandatangani
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	body["data"] = json.RawMessage(`{"orderCode":5,"amount":1,"reference":"ref-3","code":"00"}`)
	tampered, err := json.Marshal(body)
	require.NoError(t, err)

	_, err = c.VerifyWebhook(tampered)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookMalformed(t *testing.T) {
	c := NewPayOSClient("https://example.invalid", "cid", "key", checksumKey)

	for _, raw := range [][]byte{
		[]byte("not json"),
		[]byte(`{}`),
		[]byte(`{"data":{"orderCode":1},"signature":""}`),
	} {
		_, err := c.VerifyWebhook(raw)
		require.ErrorIs(t, err, ErrInvalidSignature)
	}
}

func TestCreatePaymentRequest(t *testing.T) {
	var gotIdem string
	var gotBody paymentRequestBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/payment-requests", r.URL.Path)
		require.Equal(t, "cid", r.Header.Get("x-client-id"))
		require.Equal(t, "api-key", r.Header.Get("x-api-key"))
		gotIdem = r.Header.Get("x-idempotency-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"00","desc":"success","data":{"checkoutUrl":"https://pay.example/abc","paymentLinkId":"pl-1"}}`))
	}))
	defer srv.Close()

	c := NewPayOSClient(srv.URL, "cid", "api-key", checksumKey)
	url, err := c.CreatePaymentRequest(context.Background(), 123, 100000, "Order 123", "123")
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/abc", url)
	require.Equal(t, "123", gotIdem)
	require.Equal(t, int64(123), gotBody.OrderCode)
	require.Equal(t, 100000, gotBody.Amount)
}

func TestCreatePaymentRequestProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"231","desc":"duplicate order"}`))
	}))
	defer srv.Close()

	c := NewPayOSClient(srv.URL, "cid", "api-key", checksumKey)
	_, err := c.CreatePaymentRequest(context.Background(), 123, 100000, "Order 123", "123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "231")
}
