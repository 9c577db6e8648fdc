package shopify

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// Order is the authoritative order snapshot fetched from the Admin API. Edited
// webhooks carry partial payloads, so lifecycle handling re-fetches this
// instead of trusting the event body.
type Order struct {
	ID                string
	Name              string
	CustomerID        string
	TotalPrice        decimal.Decimal
	FinancialStatus   string
	FulfillmentStatus string
	UpdatedAt         string
}

const orderQuery = `
query Order($id: ID!) {
  order(id: $id) {
    id
    name
    displayFinancialStatus
    displayFulfillmentStatus
    updatedAt
    customer { id }
    totalPriceSet { shopMoney { amount } }
  }
}`

type moneyBag struct {
	ShopMoney struct {
		Amount string `json:"amount"`
	} `json:"shopMoney"`
}

type orderPayload struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	FinancialStatus   string   `json:"displayFinancialStatus"`
	FulfillmentStatus string   `json:"displayFulfillmentStatus"`
	UpdatedAt         string   `json:"updatedAt"`
	Customer          *struct {
		ID string `json:"id"`
	} `json:"customer"`
	TotalPriceSet moneyBag `json:"totalPriceSet"`
}

// GetOrder fetches the authoritative totals and statuses for an order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var data struct {
		Order *orderPayload `json:"order"`
	}
	if err := c.execute(ctx, "order_fetch", orderQuery, map[string]any{"id": OrderGID(orderID)}, &data); err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("shopify order %s not found", orderID))
	}
	return orderFromPayload(data.Order)
}

func orderFromPayload(payload *orderPayload) (*Order, error) {
	total, err := decimal.NewFromString(payload.TotalPriceSet.ShopMoney.Amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse shopify order total")
	}
	order := &Order{
		ID:                LegacyID(payload.ID),
		Name:              payload.Name,
		TotalPrice:        total,
		FinancialStatus:   payload.FinancialStatus,
		FulfillmentStatus: payload.FulfillmentStatus,
		UpdatedAt:         payload.UpdatedAt,
	}
	if payload.Customer != nil {
		order.CustomerID = LegacyID(payload.Customer.ID)
	}
	return order, nil
}

// OrderGID converts a legacy numeric id into an Admin API global id. Values
// already in gid form pass through unchanged.
func OrderGID(id string) string {
	return gid("Order", id)
}

// CustomerGID converts a legacy customer id into its global id form.
func CustomerGID(id string) string {
	return gid("Customer", id)
}

// DraftOrderGID converts a legacy draft order id into its global id form.
func DraftOrderGID(id string) string {
	return gid("DraftOrder", id)
}

// LegacyID strips the gid prefix, returning the trailing numeric id.
func LegacyID(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}

func gid(resource, id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return fmt.Sprintf("gid://shopify/%s/%s", resource, id)
}
