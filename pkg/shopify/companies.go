package shopify

import (
	"context"

	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// CompanyCreateParams carries the inputs for companyCreate during registration
// approval.
type CompanyCreateParams struct {
	Name         string
	ExternalID   string
	ContactEmail string
}

const companyCreateMutation = `
mutation CompanyCreate($input: CompanyCreateInput!) {
  companyCreate(input: $input) {
    company { id }
    userErrors { field message }
  }
}`

const companyAssignCustomerMutation = `
mutation CompanyAssignCustomerAsContact($companyId: ID!, $customerId: ID!) {
  companyAssignCustomerAsContact(companyId: $companyId, customerId: $customerId) {
    companyContact { id }
    userErrors { field message }
  }
}`

const metafieldsSetMutation = `
mutation MetafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields { id }
    userErrors { field message }
  }
}`

// CreateCompany provisions the company at Shopify and returns its id.
func (c *Client) CreateCompany(ctx context.Context, params CompanyCreateParams) (string, error) {
	input := map[string]any{
		"company": map[string]any{
			"name":       params.Name,
			"externalId": params.ExternalID,
		},
	}
	var data struct {
		CompanyCreate struct {
			Company *struct {
				ID string `json:"id"`
			} `json:"company"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"companyCreate"`
	}
	if err := c.execute(ctx, "company_create", companyCreateMutation, map[string]any{"input": input}, &data); err != nil {
		return "", err
	}
	if err := userErrorsToError("company_create", data.CompanyCreate.UserErrors); err != nil {
		return "", err
	}
	if data.CompanyCreate.Company == nil {
		return "", pkgerrors.New(pkgerrors.CodeUpstreamSync, "shopify company_create returned no company")
	}
	return data.CompanyCreate.Company.ID, nil
}

// AssignCompanyContact attaches a customer to a company as a contact. Callers
// pre-check the local mapping before invoking this, so an upstream duplicate
// indicates drift and surfaces as a sync failure.
func (c *Client) AssignCompanyContact(ctx context.Context, companyGID, customerID string) error {
	variables := map[string]any{
		"companyId":  companyGID,
		"customerId": CustomerGID(customerID),
	}
	var data struct {
		CompanyAssignCustomerAsContact struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"companyAssignCustomerAsContact"`
	}
	if err := c.execute(ctx, "company_assign_contact", companyAssignCustomerMutation, variables, &data); err != nil {
		return err
	}
	return userErrorsToError("company_assign_contact", data.CompanyAssignCustomerAsContact.UserErrors)
}

// Metafield is one ownerId-scoped metafield write.
type Metafield struct {
	OwnerID   string
	Namespace string
	Key       string
	Type      string
	Value     string
}

// SetMetafields writes metafields in one batch.
func (c *Client) SetMetafields(ctx context.Context, metafields []Metafield) error {
	if len(metafields) == 0 {
		return nil
	}
	inputs := make([]map[string]any, 0, len(metafields))
	for _, mf := range metafields {
		inputs = append(inputs, map[string]any{
			"ownerId":   mf.OwnerID,
			"namespace": mf.Namespace,
			"key":       mf.Key,
			"type":      mf.Type,
			"value":     mf.Value,
		})
	}
	var data struct {
		MetafieldsSet struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := c.execute(ctx, "metafields_set", metafieldsSetMutation, map[string]any{"metafields": inputs}, &data); err != nil {
		return err
	}
	return userErrorsToError("metafields_set", data.MetafieldsSet.UserErrors)
}
