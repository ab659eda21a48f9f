package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fastchange/fastchange-backend/pkg/config"
	pkgerrors "github.com/fastchange/fastchange-backend/pkg/errors"
	"github.com/fastchange/fastchange-backend/pkg/logger"
	"github.com/fastchange/fastchange-backend/pkg/metrics"
	"github.com/fastchange/fastchange-backend/pkg/pagination"
)

const (
	opGetProducts        = "get_products"
	opProductUpdate      = "product_update"
	opVariantsBulkUpdate = "variants_bulk_update"
	opInventoryAdjust    = "inventory_adjust"
)

var errLoggerRequired = errors.New("shopify logger is required")

// Client speaks the Admin GraphQL API for a single shop, with centralized
// auth, logging, metrics, and error mapping.
type Client struct {
	endpoint    string
	shopDomain  string
	accessToken string
	httpClient  *http.Client
	logger      *logger.Logger
	metrics     *metrics.GatewayMetrics
}

// NewClient initializes the gateway client from the normalized config.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger, gwm *metrics.GatewayMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.ShopDomain, cfg.APIVersion),
		shopDomain:  cfg.ShopDomain,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logg,
		metrics:     gwm,
	}, nil
}

// ShopDomain reports the shop this client is bound to.
func (c *Client) ShopDomain() string {
	if c == nil {
		return ""
	}
	return c.shopDomain
}

// GetProducts fetches one page of the listing plus the first fulfillment
// location, using first/after, last/before, or first-only semantics.
func (c *Client) GetProducts(ctx context.Context, params pagination.Params) (*ProductsResult, error) {
	var (
		query     string
		variables map[string]any
	)
	switch {
	case params.After != "":
		query = productsQueryAfter
		variables = map[string]any{"first": params.First, "after": params.After}
	case params.Before != "":
		query = productsQueryBefore
		variables = map[string]any{"last": params.First, "before": params.Before}
	default:
		query = productsQueryFirst
		variables = map[string]any{"first": params.First}
	}

	var result ProductsResult
	if err := c.execute(ctx, opGetProducts, query, variables, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProduct issues productUpdate with whichever of title/status the
// input carries.
func (c *Client) UpdateProduct(ctx context.Context, input ProductUpdateInput) (*ProductUpdatePayload, error) {
	var result struct {
		ProductUpdate ProductUpdatePayload `json:"productUpdate"`
	}
	variables := map[string]any{"input": input}
	if err := c.execute(ctx, opProductUpdate, productUpdateMutation, variables, &result); err != nil {
		return nil, err
	}
	return &result.ProductUpdate, nil
}

// BulkUpdateVariants issues productVariantsBulkUpdate scoped to a product.
func (c *Client) BulkUpdateVariants(ctx context.Context, productID string, variants []VariantPriceInput) (*VariantsBulkUpdatePayload, error) {
	var result struct {
		ProductVariantsBulkUpdate VariantsBulkUpdatePayload `json:"productVariantsBulkUpdate"`
	}
	variables := map[string]any{"productId": productID, "variants": variants}
	if err := c.execute(ctx, opVariantsBulkUpdate, productVariantsBulkUpdateMutation, variables, &result); err != nil {
		return nil, err
	}
	return &result.ProductVariantsBulkUpdate, nil
}

// AdjustQuantities issues inventoryAdjustQuantities.
func (c *Client) AdjustQuantities(ctx context.Context, input InventoryAdjustInput) (*InventoryAdjustPayload, error) {
	var result struct {
		InventoryAdjustQuantities InventoryAdjustPayload `json:"inventoryAdjustQuantities"`
	}
	variables := map[string]any{"input": input}
	if err := c.execute(ctx, opInventoryAdjust, inventoryAdjustQuantitiesMutation, variables, &result); err != nil {
		return nil, err
	}
	return &result.InventoryAdjustQuantities, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// APIError carries the upstream HTTP status and request id of a failed call.
type APIError struct {
	StatusCode int
	RequestID  string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api status %d: %s", e.StatusCode, e.Body)
}

// GatewayStatus implements the error dump surface.
func (e *APIError) GatewayStatus() int { return e.StatusCode }

// GatewayRequestID implements the error dump surface.
func (e *APIError) GatewayRequestID() string { return e.RequestID }

func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	start := time.Now()
	err := c.doExecute(ctx, operation, query, variables, out)
	c.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(operation)
		return err
	}
	c.metrics.IncSuccess(operation)
	return nil
}

func (c *Client) doExecute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build graphql request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	logCtx := c.logger.WithOperation(ctx, operation)
	logCtx = c.logger.WithShop(logCtx, c.shopDomain)
	c.logger.Debug(logCtx, "gateway request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(logCtx, "gateway transport failure", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("shopify %s failed", operation))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read graphql response")
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  resp.Header.Get("X-Request-Id"),
			Body:       strings.TrimSpace(string(body)),
		}
		c.logger.Error(logCtx, "gateway rejected call", apiErr)
		return pkgerrors.Wrap(domainCodeForStatus(resp.StatusCode), apiErr, fmt.Sprintf("shopify %s failed", operation))
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unmarshal graphql response")
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, gqlErr := range envelope.Errors {
			messages[i] = gqlErr.Message
		}
		err := fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
		c.logger.Error(logCtx, "gateway returned errors", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("shopify %s failed", operation))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode graphql data")
		}
	}

	c.logger.Debug(logCtx, "gateway response")
	return nil
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
