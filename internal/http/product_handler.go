package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/fjod/xpawto-store/internal/service"
	"github.com/go-chi/chi/v5"
)

const CatalogStaleHeader = "X-Catalog-Stale"

type ProductHandler struct {
	catalog *service.CatalogService
	timeout time.Duration
}

func NewProductHandler(catalog *service.CatalogService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type DeleteRequestDTO struct {
	ID int64 `json:"id"`
}

// List returns the catalog in store order, optionally narrowed by ?category=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		listing service.Listing
		err     error
	)
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, perr := domain.ParseCategory(raw)
		if perr != nil {
			respondError(w, http.StatusBadRequest, "invalid_category", perr.Error())
			return
		}
		listing, err = h.catalog.ListByCategory(ctx, category)
	} else {
		listing, err = h.catalog.ListProducts(ctx)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	markStale(w, listing)
	respondJSON(w, http.StatusOK, listing.Products)
}

// Catalog returns the listing grouped into the storefront's three sections.
func (h *ProductHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	listing, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	markStale(w, listing)
	respondJSON(w, http.StatusOK, listing.Partition())
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var draft domain.ProductDraft
	if err := decodeJSON(r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body: "+err.Error())
		return
	}

	session := domain.NewDraftSession()
	session.Apply(draft)
	p, err := session.Submit(ctx, h.catalog)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// Update replaces every field of an existing product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.Product
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body: "+err.Error())
		return
	}
	if req.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "Pet ID is required")
		return
	}

	existing, err := h.catalog.GetProduct(ctx, req.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	session := domain.EditExisting(existing)
	session.Apply(domain.ProductDraft{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		Status:      req.Status,
		Category:    req.Category,
	})
	p, err := session.Submit(ctx, h.catalog)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req DeleteRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "Pet ID is required")
		return
	}

	if err := h.catalog.DeleteProduct(ctx, req.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DeleteResponse{Success: true, Message: "Pet deleted successfully"})
}

func markStale(w http.ResponseWriter, listing service.Listing) {
	if listing.Stale {
		w.Header().Set(CatalogStaleHeader, "true")
	}
}
