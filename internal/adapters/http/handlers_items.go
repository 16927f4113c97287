package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/application"
	"github.com/susold/marketplace-core/internal/contracts"
)

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	item, err := h.service.CreateItem(r.Context(), actorFromContext(r.Context()), application.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Brand:       req.Brand,
		Condition:   req.Condition,
		AgeYears:    req.AgeYears,
		Returnable:  req.Returnable,
		Images:      req.Images,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.ItemFromDomain(item))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}
	view, err := h.service.GetItem(r.Context(), actorFromContext(r.Context()), itemID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ItemFromView(view))
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := application.ListItemsInput{
		Title:       q.Get("title"),
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Brand:       q.Get("brand"),
		Condition:   q.Get("condition"),
		SortBy:      q.Get("sort_by"),
	}
	var parseErr error
	in.MinPrice, parseErr = floatQuery(q.Get("min_price"), parseErr)
	in.MaxPrice, parseErr = floatQuery(q.Get("max_price"), parseErr)
	in.Verified, parseErr = boolQuery(q.Get("verified"), parseErr)
	in.InStock, parseErr = boolQuery(q.Get("in_stock"), parseErr)
	in.Returnable, parseErr = boolQuery(q.Get("returnable"), parseErr)
	if raw := q.Get("seller_id"); raw != "" {
		sellerID, err := uuid.Parse(raw)
		if err != nil {
			parseErr = err
		} else {
			in.SellerID = &sellerID
		}
	}
	if raw := q.Get("limit"); raw != "" {
		in.Limit, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("offset"); raw != "" {
		in.Offset, _ = strconv.Atoi(raw)
	}
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid query parameter")
		return
	}
	views, err := h.service.ListItems(r.Context(), actorFromContext(r.Context()), in)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ItemsFromViews(views))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}
	var req contracts.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	item, err := h.service.UpdateItem(r.Context(), actorFromContext(r.Context()), itemID, application.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Brand:       req.Brand,
		Condition:   req.Condition,
		AgeYears:    req.AgeYears,
		Returnable:  req.Returnable,
		Images:      req.Images,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ItemFromDomain(item))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}
	if err := h.service.RemoveItem(r.Context(), actorFromContext(r.Context()), itemID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "item removed")
}

func (h *Handler) markOutOfStock(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}
	if err := h.service.MarkOutOfStock(r.Context(), actorFromContext(r.Context()), itemID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "item marked out of stock")
}

func (h *Handler) assignPrice(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}
	var req contracts.AssignPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	item, err := h.service.AssignPrice(r.Context(), actorFromContext(r.Context()), itemID, req.Price)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ItemFromDomain(item))
}

func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}
	var req contracts.ApplyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	item, err := h.service.ApplyDiscount(r.Context(), actorFromContext(r.Context()), itemID, req.Rate)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ItemFromDomain(item))
}

func (h *Handler) listUnpricedItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListUnpricedItems(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	out := make([]contracts.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, contracts.ItemFromDomain(item))
	}
	writeSuccess(w, http.StatusOK, out)
}

func floatQuery(raw string, prior error) (*float64, error) {
	if prior != nil || raw == "" {
		return nil, prior
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func boolQuery(raw string, prior error) (*bool, error) {
	if prior != nil || raw == "" {
		return nil, prior
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
