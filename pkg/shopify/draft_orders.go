package shopify

import (
	"context"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// DraftOrderLineItem is one requested line on a draft order.
type DraftOrderLineItem struct {
	VariantID string
	Quantity  int
}

// DraftOrderCreateParams carries the inputs for draftOrderCreate.
type DraftOrderCreateParams struct {
	CustomerID string
	LineItems  []DraftOrderLineItem
	Note       string
	Tags       []string
}

// DraftOrder is the created draft order snapshot.
type DraftOrder struct {
	ID         string
	Name       string
	TotalPrice decimal.Decimal
}

const draftOrderCreateMutation = `
mutation DraftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      name
      totalPrice
    }
    userErrors { field message }
  }
}`

const draftOrderDeleteMutation = `
mutation DraftOrderDelete($input: DraftOrderDeleteInput!) {
  draftOrderDelete(input: $input) {
    deletedId
    userErrors { field message }
  }
}`

// CreateDraftOrder creates a draft order for the given customer and returns
// the upstream identity and total.
func (c *Client) CreateDraftOrder(ctx context.Context, params DraftOrderCreateParams) (*DraftOrder, error) {
	lineItems := make([]map[string]any, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		lineItems = append(lineItems, map[string]any{
			"variantId": gid("ProductVariant", item.VariantID),
			"quantity":  item.Quantity,
		})
	}
	input := map[string]any{
		"purchasingEntity": map[string]any{"customerId": CustomerGID(params.CustomerID)},
		"lineItems":        lineItems,
	}
	if params.Note != "" {
		input["note"] = params.Note
	}
	if len(params.Tags) > 0 {
		input["tags"] = params.Tags
	}

	var data struct {
		DraftOrderCreate struct {
			DraftOrder *struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				TotalPrice string `json:"totalPrice"`
			} `json:"draftOrder"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}
	if err := c.execute(ctx, "draft_order_create", draftOrderCreateMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if err := userErrorsToError("draft_order_create", data.DraftOrderCreate.UserErrors); err != nil {
		return nil, err
	}
	if data.DraftOrderCreate.DraftOrder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamSync, "shopify draft_order_create returned no draft order")
	}

	total, err := decimal.NewFromString(data.DraftOrderCreate.DraftOrder.TotalPrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse draft order total")
	}
	return &DraftOrder{
		ID:         LegacyID(data.DraftOrderCreate.DraftOrder.ID),
		Name:       data.DraftOrderCreate.DraftOrder.Name,
		TotalPrice: total,
	}, nil
}

// DeleteDraftOrder removes a draft order upstream.
func (c *Client) DeleteDraftOrder(ctx context.Context, draftOrderID string) error {
	var data struct {
		DraftOrderDelete struct {
			DeletedID  *string     `json:"deletedId"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderDelete"`
	}
	input := map[string]any{"input": map[string]any{"id": DraftOrderGID(draftOrderID)}}
	if err := c.execute(ctx, "draft_order_delete", draftOrderDeleteMutation, input, &data); err != nil {
		return err
	}
	return userErrorsToError("draft_order_delete", data.DraftOrderDelete.UserErrors)
}
