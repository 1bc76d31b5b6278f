package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fjod/xpawto-store/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout *service.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
}

// Checkout builds the chat handoff for the session's cart. An empty body is
// a checkout without a payment method.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getCartSession(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing cart session")
		return
	}

	var req CheckoutRequestDTO
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	handoff, err := h.checkout.Checkout(ctx, sessionID, req.PaymentMethod)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	log.Printf("checkout handoff for session %s: %d items (request %s)", sessionID, handoff.TotalItems, getRequestID(r.Context()))
	respondJSON(w, http.StatusOK, handoff)
}
