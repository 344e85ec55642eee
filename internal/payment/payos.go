package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// PayOSClient: implementasi Gateway gaya PayOS.
// Webhook di-sign HMAC-SHA256(checksumKey, raw data JSON), field "signature".
type PayOSClient struct {
	http        *resty.Client
	checksumKey string
}

func NewPayOSClient(baseURL, clientID, apiKey, checksumKey string) *PayOSClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("x-client-id", clientID).
		SetHeader("x-api-key", apiKey)
	return &PayOSClient{http: c, checksumKey: checksumKey}
}

type paymentRequestBody struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl,omitempty"`
	CancelURL   string `json:"cancelUrl,omitempty"`
}

type paymentRequestResp struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		CheckoutURL   string `json:"checkoutUrl"`
		PaymentLinkID string `json:"paymentLinkId"`
	} `json:"data"`
}

func (c *PayOSClient) CreatePaymentRequest(ctx context.Context, orderCode int64, amountCents int, description, idempotencyKey string) (string, error) {
	var out paymentRequestResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-idempotency-key", idempotencyKey).
		SetBody(paymentRequestBody{
			OrderCode:   orderCode,
			Amount:      amountCents,
			Description: description,
		}).
		SetResult(&out).
		Post("/v2/payment-requests")
	if err != nil {
		return "", fmt.Errorf("create payment request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create payment request: http %d", resp.StatusCode())
	}
	if out.Code != "00" {
		return "", fmt.Errorf("create payment request: provider code=%s desc=%s", out.Code, out.Desc)
	}
	if out.Data.CheckoutURL == "" {
		return "", fmt.Errorf("create payment request: empty checkout url")
	}
	return out.Data.CheckoutURL, nil
}

type webhookBody struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

type webhookData struct {
	OrderCode int64  `json:"orderCode"`
	Amount    int    `json:"amount"`
	Reference string `json:"reference"`
	Code      string `json:"code"`
	Desc      string `json:"desc"`
}

func (c *PayOSClient) VerifyWebhook(raw []byte) (Event, error) {
	var body webhookBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return Event{}, fmt.Errorf("%w: malformed payload", ErrInvalidSignature)
	}
	if body.Signature == "" || len(body.Data) == 0 {
		return Event{}, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(c.checksumKey))
	mac.Write(body.Data)
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(body.Signature)) {
		return Event{}, ErrInvalidSignature
	}

	var data webhookData
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return Event{}, fmt.Errorf("%w: malformed data", ErrInvalidSignature)
	}

	ev := Event{
		EventID:     data.Reference,
		EventType:   EventPaymentFailed,
		OrderCode:   data.OrderCode,
		AmountCents: data.Amount,
	}
	if data.Code == "00" {
		ev.EventType = EventPaymentSucceeded
	}
	// provider lama kadang tidak kirim reference; tetap butuh id utk dedup
	if ev.EventID == "" {
		ev.EventID = strconv.FormatInt(data.OrderCode, 10) + ":" + uuid.NewString()
	}
	return ev, nil
}

// Sign dipakai di test & simulasi: bikin payload webhook yang valid.
func Sign(checksumKey string, data []byte) string {
	mac := hmac.New(sha256.New, []byte(checksumKey))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}
