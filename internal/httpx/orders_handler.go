package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-ticket-store.git/internal/catalog"
	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/ariefcatur/go-ticket-store.git/internal/redisx"
	"github.com/ariefcatur/go-ticket-store.git/internal/ticket"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// OrdersHandler: command entry points buat layer parsing perintah chat.
// Argumen sudah tervalidasi bentuknya di sini (JSON), bukan raw text.
type OrdersHandler struct {
	Svc     *ticket.Service
	Store   orders.Store
	Catalog *catalog.Catalog
	Redis   *redis.Client // boleh nil
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/tickets", h.openTicket)
	r.Get("/orders/{code}", h.getOrder)
	r.Get("/orders/{code}/checkout", h.checkoutLink)
	r.Post("/orders/{code}/confirm", h.confirm)
	r.Post("/orders/{code}/cancel", h.cancel)
	r.Post("/orders/{code}/close", h.closeTicket)
	r.Get("/products", h.listProducts)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// mapping taksonomi error -> HTTP
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, orders.ErrUnknownProduct):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown product"})
	case errors.Is(err, orders.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict: order is not in the required status"})
	case errors.Is(err, orders.ErrAdapter):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func orderCode(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
}

type openTicketReq struct {
	BuyerID    string `json:"buyer_id"`
	ProductKey string `json:"product_key"`
}

func (h *OrdersHandler) openTicket(w http.ResponseWriter, r *http.Request) {
	var req openTicketReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.BuyerID == "" || req.ProductKey == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Svc.OpenTicket(ctx, req.BuyerID, req.ProductKey)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	code, err := orderCode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order code"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache status ringkas
	key := fmt.Sprintf(redisx.KeyOrderStatus, code)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	// 2) fallback store
	o, err := h.Store.Get(ctx, code)
	if err != nil {
		writeErr(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, o.Status), redisx.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) checkoutLink(w http.ResponseWriter, r *http.Request) {
	code, err := orderCode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order code"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	url, err := h.Svc.CheckoutLink(ctx, code)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

type staffActionReq struct {
	StaffID string `json:"staff_id"`
}

func (h *OrdersHandler) confirm(w http.ResponseWriter, r *http.Request) {
	h.staffAction(w, r, h.Svc.Confirm)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.staffAction(w, r, h.Svc.Cancel)
}

func (h *OrdersHandler) staffAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, code int64, staffID string) (orders.Order, error)) {

	code, err := orderCode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order code"})
		return
	}
	var req staffActionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StaffID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing staff_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := action(ctx, code, req.StaffID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) closeTicket(w http.ResponseWriter, r *http.Request) {
	code, err := orderCode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order code"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.CloseTicket(ctx, code); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ticket closed"})
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.List())
}
