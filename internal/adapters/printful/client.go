package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

// ShippingStandard is Printful's default shipping tier.
const ShippingStandard = "STANDARD"

// APIError is a non-2xx answer from Printful. RawBody keeps the full
// response for diagnostics; Message is the provider's error message.
type APIError struct {
	Status  int
	Message string
	RawBody string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("printful: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("printful: status %d", e.Status)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.printful.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// SubmitItem builds and submits one fulfillment order for one line item.
// The call creates a real order on the provider side; idempotency is the
// caller's job (see the ledger).
func (c *Client) SubmitItem(ctx context.Context, ev domain.OrderEvent, item domain.LineItem, artworkURL, email string, syncVariantID int64) (int64, error) {
	return c.CreateOrder(ctx, BuildOrderRequest(ev, item, artworkURL, email, syncVariantID))
}

// BuildOrderRequest maps one order event + line item onto the provider
// payload. The external reference is minted per (order id, line item id)
// pair so redelivered webhooks stay distinguishable per item.
func BuildOrderRequest(ev domain.OrderEvent, item domain.LineItem, artworkURL, email string, syncVariantID int64) OrderRequest {
	addr := ev.ShippingAddress
	currency := ev.Currency
	if currency == "" {
		currency = "USD"
	}
	phone := addr.Phone
	if phone == "" {
		phone = ev.Phone
	}
	recipientEmail := email
	if recipientEmail == "" {
		recipientEmail = ev.Email
	}

	return OrderRequest{
		ExternalID: fmt.Sprintf("%d-%d", ev.ID, item.ID),
		Shipping:   ShippingStandard,
		Recipient: Recipient{
			Name:        addr.Name(),
			Company:     addr.Company,
			Address1:    addr.Address1,
			Address2:    addr.Address2,
			City:        addr.City,
			StateCode:   addr.ProvinceCode,
			StateName:   addr.Province,
			CountryCode: addr.CountryCode,
			CountryName: addr.Country,
			Zip:         addr.Zip,
			Phone:       phone,
			Email:       recipientEmail,
		},
		Items: []Item{{
			SyncVariantID: syncVariantID,
			Quantity:      item.Quantity,
			RetailPrice:   money(item.Price),
			Name:          item.Name,
			Files: []File{{
				Type:     "default",
				URL:      artworkURL,
				Filename: fmt.Sprintf("pet-portrait-%d-%d.jpg", ev.ID, item.ID),
			}},
		}},
		RetailCosts: RetailCosts{
			Currency: currency,
			Subtotal: money(ev.SubtotalPrice),
			Discount: money(ev.TotalDiscounts),
			Shipping: money(ev.ShippingPrice),
			Tax:      money(ev.TotalTax),
			Total:    money(ev.TotalPrice),
		},
	}
}

// CreateOrder performs the order-creation call and returns the provider
// order id. Non-2xx answers come back as *APIError.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (int64, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PicassoPet/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("printful order create: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("printful order create read: %w", err)
	}

	var out orderResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = json.Unmarshal(body, &out)
		return 0, &APIError{Status: resp.StatusCode, Message: out.Error.Message, RawBody: string(body)}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("printful order create decode: %w", err)
	}
	return out.Result.ID, nil
}

// SyncVariant is one sync-catalog entry used for SKU matching.
type SyncVariant struct {
	ID  int64
	SKU string
}

// ListSyncVariants fetches the sync product catalog flattened to
// (sync variant id, sku) pairs.
func (c *Client) ListSyncVariants(ctx context.Context) ([]SyncVariant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sync/products", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("printful catalog fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("printful catalog fetch: status %d: %s", resp.StatusCode, string(body))
	}

	var out syncProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("printful catalog decode: %w", err)
	}

	var variants []SyncVariant
	for _, p := range out.Result {
		for _, v := range p.SyncVariants {
			variants = append(variants, SyncVariant{ID: v.ID, SKU: v.SKU})
		}
	}
	return variants, nil
}

// money normalizes storefront decimal strings ("25.00", "0", "") to a
// canonical two-decimal string without a float round-trip.
func money(s string) string {
	if s == "" {
		return "0.00"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
