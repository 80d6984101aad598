package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-profile-flow/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/http/middleware"
)

type routes struct {
	webhook   *handlers.WebhookHandler
	customers *handlers.CustomerHandler
	templates *handlers.TemplateConfigHandler
	campaigns *handlers.CampaignHandler
	health    *handlers.HealthHandler
}

func newRouter(h routes, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	r.Get("/health", h.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/webhook", h.webhook.Verify)
		r.Post("/webhook", h.webhook.Receive)

		r.Post("/customer", h.customers.Create)
		r.Get("/customers", h.customers.List)
		r.Get("/customer/{mobile}", h.customers.GetByMobile)
		r.Delete("/customer/{id}", h.customers.Delete)

		r.Route("/template-configs", func(r chi.Router) {
			r.Post("/", h.templates.Create)
			r.Get("/", h.templates.List)
			r.Get("/{id}", h.templates.Get)
			r.Put("/{id}", h.templates.Update)
			r.Delete("/{id}", h.templates.Delete)
		})

		r.Get("/send-template/configs", h.templates.Configs)
		r.Post("/send-template", h.campaigns.SendSingle)
		r.Post("/campaigns", h.campaigns.Send)
	})

	return r
}
