package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
)

const accessTokenHeader = "X-Shopify-Access-Token"

var (
	errAccessTokenRequired = errors.New("shopify access token is required")
	errShopDomainRequired  = errors.New("shopify shop domain is required")
	errLoggerRequired      = errors.New("shopify logger is required")
)

// Client wraps the Shopify Admin GraphQL API with centralized auth, logging,
// and error mapping. All mutations treat a non-empty userErrors list as a hard
// failure.
type Client struct {
	http          *resty.Client
	shopDomain    string
	endpoint      string
	webhookSecret string
	logger        *logger.Logger
}

// NewClient initializes the Shopify wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.ShopifyConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	domain := strings.TrimSpace(cfg.ShopDomain)
	if domain == "" {
		return nil, errShopDomainRequired
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errAccessTokenRequired
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader(accessTokenHeader, token).
		SetHeader("Content-Type", "application/json")

	c := &Client{
		http:          httpClient,
		shopDomain:    domain,
		endpoint:      cfg.AdminGraphQLURL(),
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		logger:        logg,
	}

	logg.Info(ctx, "shopify client initialized")
	return c, nil
}

// ShopDomain returns the configured shop domain.
func (c *Client) ShopDomain() string {
	if c == nil {
		return ""
	}
	return c.shopDomain
}

// SigningSecret returns the webhook HMAC secret.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.webhookSecret
}

// UserError is a user-facing validation error returned by Admin API mutations.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// execute posts a GraphQL document and decodes the data payload into out.
func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	c.log(ctx, "request", operation, nil)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(graphqlRequest{Query: query, Variables: variables}).
		Post(c.endpoint)
	if err != nil {
		c.log(ctx, "error", operation, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("shopify %s", operation))
	}
	if resp.StatusCode() != http.StatusOK {
		c.log(ctx, "error", operation, map[string]any{"status": resp.StatusCode()})
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("shopify %s: status %d", operation, resp.StatusCode()))
	}

	var envelope graphqlEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode shopify %s response", operation))
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, gqlErr := range envelope.Errors {
			messages = append(messages, gqlErr.Message)
		}
		c.log(ctx, "error", operation, map[string]any{"graphql_errors": messages})
		return pkgerrors.New(pkgerrors.CodeUpstreamSync, fmt.Sprintf("shopify %s: %s", operation, strings.Join(messages, "; ")))
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode shopify %s data", operation))
		}
	}

	c.log(ctx, "response", operation, nil)
	return nil
}

// userErrorsToError folds mutation userErrors into one typed failure.
func userErrorsToError(operation string, userErrors []UserError) error {
	if len(userErrors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		messages = append(messages, ue.Message)
	}
	return pkgerrors.New(pkgerrors.CodeUpstreamSync, fmt.Sprintf("shopify %s rejected", operation)).
		WithDetails(map[string]any{"user_errors": messages})
}

func (c *Client) log(ctx context.Context, phase, operation string, fields map[string]any) {
	if c.logger == nil {
		return
	}
	merged := map[string]any{
		"shopify_operation": operation,
		"phase":             phase,
	}
	for k, v := range fields {
		merged[k] = v
	}
	c.logger.Info(c.logger.WithFields(ctx, merged), "shopify."+operation)
}
