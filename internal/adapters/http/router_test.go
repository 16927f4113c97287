package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/adapters/memory"
	"github.com/susold/marketplace-core/internal/application"
	"github.com/susold/marketplace-core/internal/contracts"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
)

// staticVerifier maps opaque test tokens to claims so routing tests run
// without signing real JWTs.
type staticVerifier struct {
	tokens map[string]ports.AuthClaims
}

func (v *staticVerifier) Verify(_ context.Context, token string) (ports.AuthClaims, error) {
	claims, ok := v.tokens[token]
	if !ok {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

type testServer struct {
	router   http.Handler
	verifier *staticVerifier
}

func newTestServer() *testServer {
	svc := application.NewService(application.Dependencies{
		Items:       memory.NewItemRepository(),
		Orders:      memory.NewOrderRepository(),
		Feedback:    memory.NewFeedbackRepository(),
		Basket:      memory.NewSetStore(),
		Favorites:   memory.NewSetStore(),
		Outbox:      memory.NewOutboxRepository(),
		Idempotency: memory.NewIdempotencyRepository(),
	})
	verifier := &staticVerifier{tokens: map[string]ports.AuthClaims{}}
	return &testServer{
		router:   NewRouter(NewHandler(svc, verifier)),
		verifier: verifier,
	}
}

func (s *testServer) registerUser(roles ...string) string {
	token := "tok-" + uuid.NewString()
	s.verifier.tokens[token] = ports.AuthClaims{UserID: uuid.NewString(), Roles: roles}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rr.Body.String())
	}
	if envelope.Status != "success" {
		t.Fatalf("expected success envelope, got %s", rr.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := s.do(t, http.MethodGet, path, "", nil); rr.Code != http.StatusOK {
			t.Errorf("%s: got %d", path, rr.Code)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	s := newTestServer()

	rr := s.do(t, http.MethodPost, "/v1/items", "", contracts.CreateItemRequest{Title: "Bike"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
	rr = s.do(t, http.MethodGet, "/v1/basket", "garbage-token", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", rr.Code)
	}
	// Listing items is public.
	rr = s.do(t, http.MethodGet, "/v1/items", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected public listing, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCheckoutOverHTTP(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	seller := s.registerUser("seller")
	buyer := s.registerUser("buyer")
	manager := s.registerUser("sales_manager")

	rr := s.do(t, http.MethodPost, "/v1/items", seller, contracts.CreateItemRequest{
		Title: "Road Bike", Category: "sports", Condition: "good",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create item: %d body=%s", rr.Code, rr.Body.String())
	}
	var item contracts.ItemResponse
	decodeData(t, rr, &item)
	if !item.Verified {
		t.Fatalf("expected seller listing to be verified")
	}

	rr = s.do(t, http.MethodPost, "/v1/items/"+item.ItemID.String()+"/price", manager, contracts.AssignPriceRequest{Price: 120})
	if rr.Code != http.StatusOK {
		t.Fatalf("assign price: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = s.do(t, http.MethodPost, "/v1/basket/toggle", buyer, contracts.ToggleRequest{ItemID: item.ItemID})
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle basket: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = s.do(t, http.MethodPost, "/v1/orders", buyer, contracts.CreateOrderRequest{ShippingAddress: "12 Campus Way"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("checkout: %d body=%s", rr.Code, rr.Body.String())
	}
	var order contracts.OrderResponse
	decodeData(t, rr, &order)
	if order.TotalPrice != 120 || order.Status != "processing" {
		t.Fatalf("unexpected order: %+v", order)
	}

	// The basket is empty afterwards, so repeating the checkout fails.
	rr = s.do(t, http.MethodPost, "/v1/orders", buyer, contracts.CreateOrderRequest{ShippingAddress: "12 Campus Way"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty basket, got %d body=%s", rr.Code, rr.Body.String())
	}

	// The reservation shows up on the public item view.
	rr = s.do(t, http.MethodGet, "/v1/items/"+item.ItemID.String(), "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get item: %d body=%s", rr.Code, rr.Body.String())
	}
	var reserved contracts.ItemResponse
	decodeData(t, rr, &reserved)
	if reserved.AvailableNow {
		t.Fatalf("expected reserved item to read unavailable")
	}
	if reserved.Fulfillment != "processing" {
		t.Fatalf("expected processing fulfillment on reserved item, got %q", reserved.Fulfillment)
	}
}

func TestErrorEnvelope(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	buyer := s.registerUser("buyer")

	rr := s.do(t, http.MethodGet, "/v1/orders/"+uuid.NewString(), buyer, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var apiErr apiError
	if err := json.Unmarshal(rr.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if apiErr.Status != "error" || apiErr.Code != "NOT_FOUND" {
		t.Fatalf("unexpected envelope: %+v", apiErr)
	}

	rr = s.do(t, http.MethodPost, "/v1/orders", buyer, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rr.Code)
	}
}

func TestRoleGatesOverHTTP(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	buyer := s.registerUser("buyer")

	if rr := s.do(t, http.MethodGet, "/v1/refund-requests", buyer, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on refund queue, got %d", rr.Code)
	}
	if rr := s.do(t, http.MethodGet, "/v1/feedback/pending", buyer, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on moderation queue, got %d", rr.Code)
	}
	reportURL := "/v1/reports/sales?from=" + url.QueryEscape("2026-01-01T00:00:00Z") + "&to=" + url.QueryEscape("2026-02-01T00:00:00Z")
	if rr := s.do(t, http.MethodGet, reportURL, buyer, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on sales report, got %d", rr.Code)
	}
}
