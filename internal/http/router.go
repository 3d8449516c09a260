package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Cart     *CartHandler
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/", d.Cart.Page)

	r.Route("/cart", func(r chi.Router) {
		r.Post("/items", d.Cart.AddItem)                 // add or merge
		r.Post("/items/{index}/remove", d.Cart.RemoveAt) // positional remove
		r.Post("/checkout", d.Cart.Checkout)             // simulated purchase
	})
	r.Post("/notifications/{id}/dismiss", d.Cart.DismissNotification)

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", d.Cart.GetCart)
		r.Post("/items", d.Cart.AddItem)
		r.Delete("/items/{productId}", d.Cart.RemoveByID)
		r.Post("/checkout", d.Cart.Checkout)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "storefront"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
