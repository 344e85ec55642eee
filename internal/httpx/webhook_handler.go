package httpx

import (
	"errors"
	"io"
	"net/http"

	"github.com/ariefcatur/go-ticket-store.git/internal/payment"
	"github.com/ariefcatur/go-ticket-store.git/internal/webhook"
	"github.com/go-chi/chi/v5"
)

// WebhookHandler: satu-satunya endpoint yang menerima payload untrusted.
// 2xx = event dikonsumsi, provider jangan retry; 400 untuk verifikasi
// gagal, 5xx untuk store transient (provider silakan retry).
type WebhookHandler struct {
	Rec *webhook.Reconciler
}

func (h *WebhookHandler) Register(r *chi.Mux, path string) {
	r.Post(path, h.handle)
}

func (h *WebhookHandler) handle(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unreadable body"})
		return
	}

	if err := h.Rec.HandleEvent(r.Context(), raw); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid webhook"})
			return
		}
		// store lagi bermasalah: 5xx supaya provider retry event-nya
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}
