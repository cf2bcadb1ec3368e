package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bargainly/bargainly-backend/pkg/config"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/logger"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"
	defaultTimeout    = 15 * time.Second
)

// Credentials holds the per-merchant access details for the Admin API.
type Credentials struct {
	ShopName    string
	AccessToken string
	APIVersion  string
}

// Client fetches merchant catalogs from the Shopify Admin REST API with
// centralized logging, timeout handling, and error mapping. It performs no
// retries: a failed fetch aborts the surrounding operation.
type Client struct {
	httpClient        *http.Client
	baseURL           string
	defaultAPIVersion string
	logger            *logger.Logger
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger) *Client {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:        &http.Client{Timeout: timeout},
		baseURL:           strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		defaultAPIVersion: strings.TrimSpace(cfg.DefaultAPIVersion),
		logger:            logg,
	}
}

// FetchProducts retrieves the full product list for the shop identified by
// the credentials.
func (c *Client) FetchProducts(ctx context.Context, creds Credentials) ([]Product, error) {
	shop := strings.TrimSpace(creds.ShopName)
	token := strings.TrimSpace(creds.AccessToken)
	if shop == "" || token == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "catalog access is not provisioned")
	}

	url := c.productsURL(shop, creds.APIVersion)
	c.log(ctx, "request", shop, map[string]any{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building catalog request")
	}
	req.Header.Set(accessTokenHeader, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", shop, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("shopify returned status %d", resp.StatusCode)
		c.log(ctx, "error", shop, map[string]any{"status": resp.StatusCode})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching catalog").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var payload productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log(ctx, "error", shop, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding catalog response")
	}

	c.log(ctx, "response", shop, map[string]any{"products": len(payload.Products)})
	return payload.Products, nil
}

func (c *Client) productsURL(shop, apiVersion string) string {
	version := strings.TrimSpace(apiVersion)
	if version == "" {
		version = c.defaultAPIVersion
	}
	host := c.baseURL
	if host == "" {
		host = fmt.Sprintf("https://%s.myshopify.com", shop)
	}
	return fmt.Sprintf("%s/admin/api/%s/products.json", host, version)
}

func (c *Client) log(ctx context.Context, phase, shop string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": "fetch_products",
		"phase":     phase,
		"shop":      shop,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	if phase == "error" {
		c.logger.Warn(ctx, "shopify fetch_products failed")
		return
	}
	c.logger.Info(ctx, fmt.Sprintf("shopify %s", phase))
}
