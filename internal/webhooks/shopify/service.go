package shopifywebhook

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/orders"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/metrics"
)

// Webhook topics the portal subscribes to.
const (
	TopicOrdersCreate      = "orders/create"
	TopicOrdersPaid        = "orders/paid"
	TopicOrdersEdited      = "orders/edited"
	TopicDraftOrdersCreate = "draft_orders/create"
	TopicDraftOrdersUpdate = "draft_orders/update"
	TopicDraftOrdersDelete = "draft_orders/delete"
)

type orderLifecycle interface {
	HandleOrderCreated(ctx context.Context, event orders.OrderEvent) error
	HandleOrderPaid(ctx context.Context, event orders.OrderEvent) error
	HandleOrderEdited(ctx context.Context, event orders.OrderEvent) error
	HandleDraftOrderUpsert(ctx context.Context, event orders.DraftOrderEvent) error
	HandleDraftOrderDeleted(ctx context.Context, event orders.DraftOrderEvent) error
}

// Service translates raw Shopify webhook payloads into lifecycle events.
// Topics outside the subscription list are acknowledged and dropped.
type Service struct {
	lifecycle orderLifecycle
	metrics   *metrics.WebhookMetrics
}

// NewService builds the webhook dispatch service.
func NewService(lifecycle orderLifecycle, webhookMetrics *metrics.WebhookMetrics) (*Service, error) {
	if lifecycle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order lifecycle required")
	}
	return &Service{lifecycle: lifecycle, metrics: webhookMetrics}, nil
}

type webhookCustomer struct {
	ID int64 `json:"id"`
}

type orderWebhookPayload struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Customer          *webhookCustomer `json:"customer"`
	TotalPrice        string           `json:"total_price"`
	FinancialStatus   string           `json:"financial_status"`
	FulfillmentStatus *string          `json:"fulfillment_status"`
}

type orderEditWebhookPayload struct {
	OrderEdit struct {
		OrderID int64 `json:"order_id"`
	} `json:"order_edit"`
}

type draftOrderWebhookPayload struct {
	ID         int64            `json:"id"`
	Customer   *webhookCustomer `json:"customer"`
	TotalPrice string           `json:"total_price"`
	Status     string           `json:"status"`
	UpdatedAt  string           `json:"updated_at"`
}

// HandleEvent dispatches one verified webhook delivery.
func (s *Service) HandleEvent(ctx context.Context, topic, shopID string, payload []byte) error {
	started := time.Now()
	err := s.dispatch(ctx, topic, shopID, payload)
	if err != nil {
		s.metrics.ObserveFailed(topic)
		return err
	}
	s.metrics.ObserveProcessed(topic, time.Since(started))
	return nil
}

// ObserveReplay records a delivery absorbed by the idempotency guard.
func (s *Service) ObserveReplay(topic string) {
	s.metrics.ObserveReplayed(topic)
}

func (s *Service) dispatch(ctx context.Context, topic, shopID string, payload []byte) error {
	switch topic {
	case TopicOrdersCreate:
		event, err := decodeOrderEvent(shopID, payload)
		if err != nil {
			return err
		}
		return s.lifecycle.HandleOrderCreated(ctx, *event)
	case TopicOrdersPaid:
		event, err := decodeOrderEvent(shopID, payload)
		if err != nil {
			return err
		}
		return s.lifecycle.HandleOrderPaid(ctx, *event)
	case TopicOrdersEdited:
		var body orderEditWebhookPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode order edit payload")
		}
		if body.OrderEdit.OrderID == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order edit payload missing order id")
		}
		return s.lifecycle.HandleOrderEdited(ctx, orders.OrderEvent{
			ShopID:          shopID,
			ExternalOrderID: strconv.FormatInt(body.OrderEdit.OrderID, 10),
		})
	case TopicDraftOrdersCreate, TopicDraftOrdersUpdate:
		event, err := decodeDraftOrderEvent(shopID, payload)
		if err != nil {
			return err
		}
		return s.lifecycle.HandleDraftOrderUpsert(ctx, *event)
	case TopicDraftOrdersDelete:
		event, err := decodeDraftOrderEvent(shopID, payload)
		if err != nil {
			return err
		}
		return s.lifecycle.HandleDraftOrderDeleted(ctx, *event)
	default:
		return nil
	}
}

func decodeOrderEvent(shopID string, payload []byte) (*orders.OrderEvent, error) {
	var body orderWebhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode order payload")
	}
	if body.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order payload missing id")
	}
	total, err := parseMoney(body.TotalPrice)
	if err != nil {
		return nil, err
	}

	event := &orders.OrderEvent{
		ShopID:          shopID,
		ExternalOrderID: strconv.FormatInt(body.ID, 10),
		Name:            body.Name,
		Total:           total,
		FinancialStatus: body.FinancialStatus,
	}
	if body.Customer != nil {
		event.CustomerID = strconv.FormatInt(body.Customer.ID, 10)
	}
	if body.FulfillmentStatus != nil {
		event.FulfillmentStatus = *body.FulfillmentStatus
	}
	return event, nil
}

func decodeDraftOrderEvent(shopID string, payload []byte) (*orders.DraftOrderEvent, error) {
	var body draftOrderWebhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode draft order payload")
	}
	if body.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft order payload missing id")
	}
	total, err := parseMoney(body.TotalPrice)
	if err != nil {
		return nil, err
	}

	event := &orders.DraftOrderEvent{
		ShopID:          shopID,
		ExternalDraftID: strconv.FormatInt(body.ID, 10),
		Total:           total,
		Status:          body.Status,
		UpdatedAt:       body.UpdatedAt,
	}
	if body.Customer != nil {
		event.CustomerID = strconv.FormatInt(body.Customer.ID, 10)
	}
	return event, nil
}

func parseMoney(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse total price")
	}
	return amount, nil
}
