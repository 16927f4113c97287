package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/susold/marketplace-core/internal/application"
	"github.com/susold/marketplace-core/internal/ports"
)

type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(handler.optionalAuthMiddleware)
				r.Get("/", handler.listItems)
				r.Get("/{item_id}", handler.getItem)
			})

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.createItem)
				r.Get("/unpriced", handler.listUnpricedItems)
				r.Put("/{item_id}", handler.updateItem)
				r.Delete("/{item_id}", handler.removeItem)
				r.Post("/{item_id}/out-of-stock", handler.markOutOfStock)
				r.Post("/{item_id}/price", handler.assignPrice)
				r.Post("/{item_id}/discount", handler.applyDiscount)
			})
		})

		r.Route("/basket", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/", handler.getBasket)
			r.Post("/toggle", handler.toggleBasketItem)
			r.Post("/merge", handler.mergeLocalBasket)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/", handler.listFavorites)
			r.Post("/toggle", handler.toggleFavorite)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/", handler.createOrder)
			r.Get("/", handler.listMyOrders)
			r.Get("/{order_id}", handler.getOrder)
			r.Post("/{order_id}/status", handler.advanceOrderStatus)
			r.Post("/{order_id}/cancel", handler.cancelOrder)
			r.Post("/{order_id}/refund", handler.requestRefund)
			r.Post("/{order_id}/refund/resolve", handler.resolveRefund)
		})

		r.Route("/refund-requests", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/", handler.listRefundRequests)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/sales", handler.salesReport)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/sellers/{seller_id}", handler.listSellerFeedback)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.submitFeedback)
				r.Get("/pending", handler.listPendingFeedback)
				r.Post("/{feedback_id}/approve", handler.approveFeedback)
				r.Post("/{feedback_id}/reject", handler.rejectFeedback)
			})
		})
	})
	return r
}
