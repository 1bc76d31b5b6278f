package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Products     *ProductHandler
	Testimonials *TestimonialHandler
	Cart         *CartHandler
	Checkout     *CheckoutHandler
}

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	AdminUsername      string
	AdminPassword      string
}

func NewRouter(h Handlers, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}

	admin := AdminAuthMiddleware(cfg.AdminUsername, cfg.AdminPassword)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/pets", func(r chi.Router) {
			r.With(middleware.NoCache).Get("/", h.Products.List)
			r.Get("/{id}", h.Products.Get)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", h.Products.Create)
				r.Put("/", h.Products.Update)
				r.Delete("/", h.Products.Delete)
			})
		})
		r.With(middleware.NoCache).Get("/catalog", h.Products.Catalog)

		r.Route("/testimonials", func(r chi.Router) {
			r.With(middleware.NoCache).Get("/", h.Testimonials.List)
			r.Post("/", h.Testimonials.Create)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Put("/", h.Testimonials.Update)
				r.Delete("/", h.Testimonials.Delete)
			})
		})

		r.With(admin).Get("/admin/session", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
		})

		r.Group(func(r chi.Router) {
			r.Use(CartSessionMiddleware)
			r.Route("/cart", func(r chi.Router) {
				r.With(middleware.NoCache).Get("/", h.Cart.GetCart)
				r.Delete("/", h.Cart.ClearCart)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			})
			r.Post("/checkout", h.Checkout.Checkout)
		})
	})

	return r
}
