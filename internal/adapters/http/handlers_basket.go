package http

import (
	"encoding/json"
	"net/http"

	"github.com/susold/marketplace-core/internal/application"
	"github.com/susold/marketplace-core/internal/contracts"
	"github.com/susold/marketplace-core/internal/domain"
)

func (h *Handler) getBasket(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetBasket(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	resp := contracts.BasketResponse{Items: make([]contracts.ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, contracts.ItemFromDomain(item))
		if price, err := domain.EffectivePrice(item); err == nil {
			resp.Total += price
		}
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) toggleBasketItem(w http.ResponseWriter, r *http.Request) {
	var req contracts.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	result, err := h.service.ToggleBasketItem(r.Context(), actorFromContext(r.Context()), req.ItemID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ToggleResponse{ItemID: result.ItemID, Added: result.Added})
}

func (h *Handler) mergeLocalBasket(w http.ResponseWriter, r *http.Request) {
	var req contracts.MergeBasketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	result, err := h.service.MergeLocalBasket(r.Context(), actorFromContext(r.Context()), application.MergeLocalBasketInput{LocalItemIDs: req.ItemIDs})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.MergeBasketResponse{
		BasketItemIDs:    result.BasketItemIDs,
		SkippedItemIDs:   result.SkippedItemIDs,
		DiscardLocalList: result.DiscardLocalList,
	})
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListFavorites(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ItemsFromViews(views))
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req contracts.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	result, err := h.service.ToggleFavorite(r.Context(), actorFromContext(r.Context()), req.ItemID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ToggleResponse{ItemID: result.ItemID, Added: result.Added})
}
