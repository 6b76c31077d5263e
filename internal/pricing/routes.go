package pricing

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/rate-cards", func(r chi.Router) {
		r.Get("/", h.ListRateCards)
		r.Post("/", h.CreateRateCard)
		r.Get("/{id}", h.GetRateCard)
		r.Put("/{id}", h.UpdateRateCard)
		r.Delete("/{id}", h.DeleteRateCard)
		r.Post("/{id}/prices/generate", h.GeneratePrices)
	})
	r.Route("/costs", func(r chi.Router) {
		r.Get("/", h.ListCosts)
		r.Post("/", h.CreateCost)
		r.Get("/{id}", h.GetCost)
		r.Put("/{id}", h.UpdateCost)
		r.Delete("/{id}", h.DeleteCost)
		r.Get("/{id}/margin", h.CostMargin)
	})
	r.Route("/prices", func(r chi.Router) {
		r.Get("/", h.ListPrices)
		r.Post("/", h.CreatePrice)
		r.Get("/{id}", h.GetPrice)
		r.Put("/{id}", h.UpdatePrice)
		r.Delete("/{id}", h.DeletePrice)
	})
	// Margin is a read-time join across costs and prices, served per product.
	r.Get("/products/{id}/margin", h.ProductMargin)
}
