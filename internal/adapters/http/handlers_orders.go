package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/application"
	"github.com/susold/marketplace-core/internal/contracts"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	order, err := h.service.CreateOrder(r.Context(), actorFromContext(r.Context()), application.CreateOrderInput{
		ShippingAddress: req.ShippingAddress,
		PaymentRef:      req.PaymentRef,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.OrderFromDomain(order))
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListMyOrders(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OrdersFromDomain(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}
	order, err := h.service.GetOrder(r.Context(), actorFromContext(r.Context()), orderID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OrderFromDomain(order))
}

func (h *Handler) advanceOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}
	var req contracts.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	order, err := h.service.AdvanceOrderStatus(r.Context(), actorFromContext(r.Context()), orderID, req.Status)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OrderFromDomain(order))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}
	order, err := h.service.CancelOrder(r.Context(), actorFromContext(r.Context()), orderID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OrderFromDomain(order))
}

func (h *Handler) requestRefund(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}
	var req contracts.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	order, err := h.service.RequestRefund(r.Context(), actorFromContext(r.Context()), orderID, application.RequestRefundInput{ItemIDs: req.ItemIDs})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OrderFromDomain(order))
}

func (h *Handler) resolveRefund(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}
	var req contracts.ResolveRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	order, err := h.service.ResolveRefund(r.Context(), actorFromContext(r.Context()), orderID, req.Approve)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OrderFromDomain(order))
}

func (h *Handler) listRefundRequests(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListRefundRequests(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OrdersFromDomain(orders))
}

func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'from' timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'to' timestamp")
		return
	}
	report, err := h.service.GetSalesReport(r.Context(), actorFromContext(r.Context()), application.SalesReportInput{From: from, To: to})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.SalesReportResponse{
		From:         report.From,
		To:           report.To,
		OrderCount:   report.OrderCount,
		TotalRevenue: report.TotalRevenue,
		Orders:       contracts.OrdersFromDomain(report.Orders),
	})
}
