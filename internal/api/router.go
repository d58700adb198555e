package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/billaxle/paygate/internal/billing"
	"github.com/billaxle/paygate/internal/paystack"
	"github.com/billaxle/paygate/internal/settlement"
	"github.com/billaxle/paygate/internal/webhook"
)

// NewRouter creates the Chi router with the gateway callback routes
// mounted. Both notification channels share one path: the processor posts
// webhooks to it and payer browsers return to it.
func NewRouter(
	bs billing.System,
	client *paystack.Client,
	engine *settlement.Engine,
	dispatcher *webhook.Dispatcher,
	module string,
) http.Handler {
	h := &Handlers{
		billing:    bs,
		client:     client,
		engine:     engine,
		dispatcher: dispatcher,
		module:     module,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/modules/gateways/callback", func(r chi.Router) {
		r.Post("/"+module, h.HandleWebhook)
		r.Get("/"+module, h.HandleReturn)
	})

	return r
}
