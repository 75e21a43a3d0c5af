package rest

import (
	"net/http"
	"time"

	"velora-be/internal/logger"
	appmw "velora-be/internal/middleware"
	"velora-be/internal/payment/webhook"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Cart      *CartHandler
	Checkout  *CheckoutHandler
	Order     *OrderHandler
	Webhook   *webhook.Handler
	JWTSecret string
}

// NewRouter wires all routes behind the shared middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(1 << 20)) // 1MB
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.AccessLogMiddleware)
	r.Use(appmw.AuthMiddleware(deps.JWTSecret))
	r.Use(appmw.RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", deps.Cart.GetCart)
		r.Delete("/", deps.Cart.ClearCart)
		r.Post("/items", deps.Cart.AddItem)
		r.Put("/items/{product_id}/{variant_id}", deps.Cart.UpdateQuantity)
		r.Delete("/items/{product_id}/{variant_id}", deps.Cart.RemoveItem)
		r.Post("/items/{product_id}/{variant_id}/switch", deps.Cart.SwitchVariant)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/quote", deps.Checkout.Quote)
		r.Post("/initialize", deps.Checkout.Initialize)
		r.Get("/verify", deps.Checkout.Verify)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", deps.Order.ListOrders)
		r.Get("/{order_id}", deps.Order.GetOrder)
		r.Patch("/{order_id}/status", deps.Order.UpdateStatus)
		r.Patch("/{order_id}/tracking", deps.Order.SetTracking)
	})

	r.Method(http.MethodPost, "/webhook/paystack", deps.Webhook)

	return r
}
