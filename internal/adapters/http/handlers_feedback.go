package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/application"
	"github.com/susold/marketplace-core/internal/contracts"
)

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req contracts.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	fb, err := h.service.SubmitFeedback(r.Context(), actorFromContext(r.Context()), application.SubmitFeedbackInput{
		OrderID: req.OrderID,
		ItemID:  req.ItemID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.FeedbackFromDomain(fb))
}

func (h *Handler) listSellerFeedback(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.Parse(chi.URLParam(r, "seller_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid seller id")
		return
	}
	page, err := h.service.ListSellerFeedback(r.Context(), sellerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.SellerFeedbackFromPage(page))
}

func (h *Handler) listPendingFeedback(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListPendingFeedback(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	out := make([]contracts.FeedbackResponse, 0, len(entries))
	for _, fb := range entries {
		out = append(out, contracts.FeedbackFromDomain(fb))
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) approveFeedback(w http.ResponseWriter, r *http.Request) {
	feedbackID, err := uuid.Parse(chi.URLParam(r, "feedback_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid feedback id")
		return
	}
	fb, err := h.service.ApproveFeedback(r.Context(), actorFromContext(r.Context()), feedbackID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.FeedbackFromDomain(fb))
}

func (h *Handler) rejectFeedback(w http.ResponseWriter, r *http.Request) {
	feedbackID, err := uuid.Parse(chi.URLParam(r, "feedback_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid feedback id")
		return
	}
	if err := h.service.RejectFeedback(r.Context(), actorFromContext(r.Context()), feedbackID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "feedback rejected")
}
