package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	shopifywebhook "github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/webhooks/shopify"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

const testSecret = "shpss_test"

func TestShopifyWebhook_SuccessAndIdempotent(t *testing.T) {
	payload := []byte(`{"id":5001,"total_price":"100.00"}`)
	service := &fakeWebhookService{}
	guard := newTestGuard(t)
	handler := ShopifyWebhook(service, &fakeSigningClient{secret: testSecret}, guard, nil)

	rec := deliver(t, handler, payload, testSecret, "wh-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected service called once, got %d", service.calls)
	}
	if service.lastTopic != "orders/create" || service.lastShop != "acme.myshopify.com" {
		t.Fatalf("unexpected dispatch: %s %s", service.lastTopic, service.lastShop)
	}

	rec2 := deliver(t, handler, payload, testSecret, "wh-1")
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d", rec2.Code)
	}
	if service.calls != 1 {
		t.Fatalf("duplicate should not increment calls, got %d", service.calls)
	}
	if service.replays != 1 {
		t.Fatalf("expected one replay observation, got %d", service.replays)
	}
}

func TestShopifyWebhook_InvalidSignature(t *testing.T) {
	payload := []byte(`{"id":5001}`)
	service := &fakeWebhookService{}
	handler := ShopifyWebhook(service, &fakeSigningClient{secret: testSecret}, newTestGuard(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/shopify", bytes.NewReader(payload))
	req.Header.Set(hmacHeader, "bm90LXRoZS1zaWduYXR1cmU=")
	req.Header.Set(topicHeader, "orders/create")
	req.Header.Set(shopHeader, "acme.myshopify.com")
	req.Header.Set(webhookIDHeader, "wh-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid signature, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not be invoked on invalid signature")
	}
}

func TestShopifyWebhook_MissingHeaders(t *testing.T) {
	payload := []byte(`{"id":5001}`)
	handler := ShopifyWebhook(&fakeWebhookService{}, &fakeSigningClient{secret: testSecret}, newTestGuard(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/shopify", bytes.NewReader(payload))
	req.Header.Set(hmacHeader, signPayload(payload, testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing headers, got %d", rec.Code)
	}
}

func TestShopifyWebhook_FailureReleasesGuard(t *testing.T) {
	payload := []byte(`{"id":5001}`)
	service := &fakeWebhookService{err: pkgerrors.New(pkgerrors.CodeDependency, "downstream unavailable")}
	handler := ShopifyWebhook(service, &fakeSigningClient{secret: testSecret}, newTestGuard(t), nil)

	rec := deliver(t, handler, payload, testSecret, "wh-3")
	if rec.Code == http.StatusOK {
		t.Fatalf("expected failure status, got 200")
	}

	service.err = nil
	rec2 := deliver(t, handler, payload, testSecret, "wh-3")
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected retry to succeed, got %d", rec2.Code)
	}
	if service.calls != 2 {
		t.Fatalf("expected retry to reach the service, got %d calls", service.calls)
	}
}

func deliver(t *testing.T, handler http.HandlerFunc, payload []byte, secret, webhookID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/shopify", bytes.NewReader(payload))
	req.Header.Set(hmacHeader, signPayload(payload, secret))
	req.Header.Set(topicHeader, "orders/create")
	req.Header.Set(shopHeader, "acme.myshopify.com")
	req.Header.Set(webhookIDHeader, webhookID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestGuard(t *testing.T) *shopifywebhook.IdempotencyGuard {
	t.Helper()
	guard, err := shopifywebhook.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "shopify-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	return guard
}

type fakeWebhookService struct {
	calls     int
	replays   int
	lastTopic string
	lastShop  string
	err       error
}

func (f *fakeWebhookService) HandleEvent(ctx context.Context, topic, shopID string, payload []byte) error {
	f.calls++
	f.lastTopic = topic
	f.lastShop = shopID
	return f.err
}

func (f *fakeWebhookService) ObserveReplay(topic string) {
	f.replays++
}

type fakeSigningClient struct {
	secret string
}

func (f *fakeSigningClient) SigningSecret() string {
	return f.secret
}

type inMemoryStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{keys: map[string]struct{}{}}
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return strings.Join([]string{"test", scope, id}, ":")
}
