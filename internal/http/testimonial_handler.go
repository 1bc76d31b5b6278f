package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/fjod/xpawto-store/internal/service"
)

type TestimonialHandler struct {
	testimonials *service.TestimonialService
	timeout      time.Duration
}

func NewTestimonialHandler(testimonials *service.TestimonialService, timeout time.Duration) *TestimonialHandler {
	return &TestimonialHandler{
		testimonials: testimonials,
		timeout:      timeout,
	}
}

type UpdateTestimonialRequestDTO struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var filter *domain.TestimonialStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseTestimonialStatus(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		filter = &status
	}

	testimonials, err := h.testimonials.List(ctx, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, testimonials)
}

// Create accepts a public submission; it stays pending until moderated.
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var draft domain.TestimonialDraft
	if err := decodeJSON(r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	t, err := h.testimonials.Create(ctx, draft)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateTestimonialRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID <= 0 || req.Status == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "ID and status are required")
		return
	}
	status, err := domain.ParseTestimonialStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_status", "Invalid status")
		return
	}

	t, err := h.testimonials.SetStatus(ctx, req.ID, status)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req DeleteRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "Testimonial ID is required")
		return
	}

	if err := h.testimonials.Delete(ctx, req.ID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DeleteResponse{Success: true, Message: "Testimonial deleted successfully"})
}
