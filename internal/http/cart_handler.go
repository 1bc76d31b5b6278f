package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/xpawto-store/internal/cart"
	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/fjod/xpawto-store/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	carts   *service.CartService
	timeout time.Duration
}

func NewCartHandler(carts *service.CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	Product      domain.Product `json:"product"`
	Quantity     int            `json:"quantity"`
	CanIncrement bool           `json:"can_increment"`
}

type CartResponse struct {
	SessionID     string             `json:"session_id"`
	Items         []CartLineResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	// Added is only set by AddItem; false means the add hit the stock cap.
	Added *bool `json:"added,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getCartSession(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing cart session")
		return
	}

	c := h.carts.CurrentCart(ctx, sessionID)
	respondJSON(w, http.StatusOK, toCartResponse(sessionID, c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getCartSession(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing cart session")
		return
	}

	// Parse request body
	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	c, added, err := h.carts.AddItem(ctx, sessionID, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := toCartResponse(sessionID, c)
	resp.Added = &added
	respondJSON(w, http.StatusOK, resp)
}

// UpdateQuantity sets a line's quantity. The quantity is clamped to stock
// and zero or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getCartSession(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing cart session")
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.carts.SetQuantity(ctx, sessionID, productID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(sessionID, c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getCartSession(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing cart session")
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	c, err := h.carts.RemoveItem(ctx, sessionID, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(sessionID, c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getCartSession(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing cart session")
		return
	}

	c, err := h.carts.ClearCart(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(sessionID, c))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func toCartResponse(sessionID string, c *cart.Cart) CartResponse {
	lines := c.Lines()
	items := make([]CartLineResponse, len(lines))
	for i, l := range lines {
		items[i] = CartLineResponse{
			Product:      l.Product,
			Quantity:     l.Quantity,
			CanIncrement: l.CanIncrement(),
		}
	}
	return CartResponse{
		SessionID:     sessionID,
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
	}
}
