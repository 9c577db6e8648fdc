package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	client, err := NewClient(context.Background(), config.ShopifyConfig{
		ShopDomain:    "acme.myshopify.com",
		AccessToken:   "token",
		APIVersion:    "2024-10",
		Timeout:       time.Second,
		WebhookSecret: "secret",
	}, logg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.endpoint = server.URL
	return client, server
}

func TestGetOrderParsesPayload(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(accessTokenHeader); got != "token" {
			t.Errorf("missing access token header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"order":{
			"id":"gid://shopify/Order/123",
			"name":"#1001",
			"displayFinancialStatus":"PARTIALLY_PAID",
			"displayFulfillmentStatus":"IN_PROGRESS",
			"customer":{"id":"gid://shopify/Customer/77"},
			"totalPriceSet":{"shopMoney":{"amount":"200.00"}}}}}`))
	})

	order, err := client.GetOrder(context.Background(), "123")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.ID != "123" || order.CustomerID != "77" {
		t.Fatalf("unexpected ids: %+v", order)
	}
	if order.TotalPrice.String() != "200" {
		t.Fatalf("unexpected total: %s", order.TotalPrice)
	}
	if order.FinancialStatus != "PARTIALLY_PAID" {
		t.Fatalf("unexpected financial status: %s", order.FinancialStatus)
	}
}

func TestCreateDraftOrderSurfacesUserErrors(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"draftOrderCreate":{
			"draftOrder":null,
			"userErrors":[{"field":["lineItems"],"message":"variant unavailable"}]}}}`))
	})

	_, err := client.CreateDraftOrder(context.Background(), DraftOrderCreateParams{
		CustomerID: "77",
		LineItems:  []DraftOrderLineItem{{VariantID: "1", Quantity: 2}},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUpstreamSync) {
		t.Fatalf("expected upstream sync failure, got %v", err)
	}
}

func TestExecuteMapsGraphQLErrors(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"throttled"}]}`))
	})

	_, err := client.GetOrder(context.Background(), "123")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUpstreamSync) {
		t.Fatalf("expected upstream sync failure, got %v", err)
	}
}

func TestGIDHelpers(t *testing.T) {
	t.Parallel()

	if got := OrderGID("55"); got != "gid://shopify/Order/55" {
		t.Fatalf("unexpected gid: %s", got)
	}
	if got := OrderGID("gid://shopify/Order/55"); got != "gid://shopify/Order/55" {
		t.Fatalf("gid mangled: %s", got)
	}
	if got := LegacyID("gid://shopify/Customer/91"); got != "91" {
		t.Fatalf("unexpected legacy id: %s", got)
	}
}
