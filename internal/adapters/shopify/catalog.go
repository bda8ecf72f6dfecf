package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CatalogVariant is one orderable variant from the admin product catalog.
type CatalogVariant struct {
	ID  int64
	SKU string
}

type CatalogClient struct {
	domain     string
	token      string
	apiVersion string
	httpClient *http.Client
}

type CatalogConfig struct {
	Domain     string
	Token      string
	APIVersion string
	Timeout    time.Duration
}

func NewCatalogClient(cfg CatalogConfig) *CatalogClient {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &CatalogClient{
		domain:     cfg.Domain,
		token:      cfg.Token,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type productsResponse struct {
	Products []struct {
		Variants []struct {
			ID  int64  `json:"id"`
			SKU string `json:"sku"`
		} `json:"variants"`
	} `json:"products"`
}

// ListVariants fetches the full admin product catalog and flattens it to
// (variant id, sku) pairs. Read-only; callers cache the result.
func (c *CatalogClient) ListVariants(ctx context.Context) ([]CatalogVariant, error) {
	url := fmt.Sprintf("https://%s/admin/api/%s/products.json", c.domain, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify catalog fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("shopify catalog fetch: status %d: %s", resp.StatusCode, string(body))
	}

	var out productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("shopify catalog decode: %w", err)
	}

	var variants []CatalogVariant
	for _, p := range out.Products {
		for _, v := range p.Variants {
			variants = append(variants, CatalogVariant{ID: v.ID, SKU: v.SKU})
		}
	}
	return variants, nil
}
