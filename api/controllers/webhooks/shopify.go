package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/responses"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
)

const (
	hmacHeader      = "X-Shopify-Hmac-Sha256"
	topicHeader     = "X-Shopify-Topic"
	shopHeader      = "X-Shopify-Shop-Domain"
	webhookIDHeader = "X-Shopify-Webhook-Id"
)

type ShopifyWebhookService interface {
	HandleEvent(ctx context.Context, topic, shopID string, payload []byte) error
	ObserveReplay(topic string)
}

type shopifyWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type shopifyClient interface {
	SigningSecret() string
}

// ShopifyWebhook ingests order and draft order lifecycle events. Deliveries
// are at-least-once; the guard short-circuits redeliveries before they reach
// the credit engine.
func ShopifyWebhook(svc ShopifyWebhookService, client shopifyClient, guard shopifyWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopify client unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := strings.TrimSpace(r.Header.Get(hmacHeader))
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature missing"))
			return
		}
		if !validateShopifySignature(payload, client.SigningSecret(), signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		topic := strings.TrimSpace(r.Header.Get(topicHeader))
		shopID := strings.TrimSpace(r.Header.Get(shopHeader))
		webhookID := strings.TrimSpace(r.Header.Get(webhookIDHeader))
		if topic == "" || shopID == "" || webhookID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook headers missing"))
			return
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, webhookID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			svc.ObserveReplay(topic)
			responses.WriteSuccess(w, nil)
			return
		}

		if err := svc.HandleEvent(ctx, topic, shopID, payload); err != nil {
			// Release the marker so Shopify's retry can reprocess.
			_ = guard.Delete(ctx, webhookID)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{"topic": topic, "webhook_id": webhookID}), "webhook.processed")
		}
		responses.WriteSuccess(w, nil)
	}
}

// Shopify signs the raw body with the app's webhook secret and base64-encodes
// the digest.
func validateShopifySignature(payload []byte, secret, header string) bool {
	if header == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
