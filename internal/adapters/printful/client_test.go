package printful

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

func testEvent() domain.OrderEvent {
	return domain.OrderEvent{
		ID:             5551234,
		Email:          "buyer@x.com",
		Currency:       "USD",
		SubtotalPrice:  "25.00",
		TotalDiscounts: "0.00",
		ShippingPrice:  "3.99",
		TotalTax:       "2.06",
		TotalPrice:     "31.05",
		ShippingAddress: domain.ShippingAddress{
			FirstName:    "Jane",
			LastName:     "Doe",
			Address1:     "1 Main St",
			City:         "Springfield",
			Province:     "Illinois",
			ProvinceCode: "IL",
			Country:      "United States",
			CountryCode:  "US",
			Zip:          "62704",
			Phone:        "+1 555 0100",
		},
	}
}

func testItem() domain.LineItem {
	return domain.LineItem{ID: 9001, VariantID: "51871373918526", Quantity: 2, Price: "25.0", Name: "Framed canvas"}
}

func TestBuildOrderRequest(t *testing.T) {
	req := BuildOrderRequest(testEvent(), testItem(), "https://cdn/x.jpg", "user@y.com", 4858094038)

	assert.Equal(t, "5551234-9001", req.ExternalID, "external reference is per (order, line item) pair")
	assert.Equal(t, ShippingStandard, req.Shipping)
	assert.Equal(t, "Jane Doe", req.Recipient.Name)
	assert.Equal(t, "IL", req.Recipient.StateCode)
	assert.Equal(t, "US", req.Recipient.CountryCode)
	assert.Equal(t, "user@y.com", req.Recipient.Email, "the submitting user's email wins over the order email")

	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(4858094038), req.Items[0].SyncVariantID)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "25.00", req.Items[0].RetailPrice, "price is normalized to 2 decimals")
	require.Len(t, req.Items[0].Files, 1)
	assert.Equal(t, "default", req.Items[0].Files[0].Type)
	assert.Equal(t, "https://cdn/x.jpg", req.Items[0].Files[0].URL)
	assert.Equal(t, "pet-portrait-5551234-9001.jpg", req.Items[0].Files[0].Filename)

	assert.Equal(t, RetailCosts{
		Currency: "USD",
		Subtotal: "25.00",
		Discount: "0.00",
		Shipping: "3.99",
		Tax:      "2.06",
		Total:    "31.05",
	}, req.RetailCosts)
}

func TestBuildOrderRequestDefaults(t *testing.T) {
	ev := testEvent()
	ev.Currency = ""
	ev.TotalDiscounts = ""

	req := BuildOrderRequest(ev, testItem(), "https://cdn/x.jpg", "", 1)

	assert.Equal(t, "USD", req.RetailCosts.Currency)
	assert.Equal(t, "0.00", req.RetailCosts.Discount)
	assert.Equal(t, "buyer@x.com", req.Recipient.Email, "falls back to the order email")
}

func TestCreateOrderSuccess(t *testing.T) {
	var gotAuth string
	var gotBody OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"result":{"id":80123456}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "pf-key"})
	id, err := c.SubmitItem(context.Background(), testEvent(), testItem(), "https://cdn/x.jpg", "user@y.com", 4858094038)

	require.NoError(t, err)
	assert.Equal(t, int64(80123456), id)
	assert.Equal(t, "Bearer pf-key", gotAuth)
	assert.Equal(t, int64(4858094038), gotBody.Items[0].SyncVariantID)
}

func TestCreateOrderProviderRejection(t *testing.T) {
	const rawBody = `{"code":400,"error":{"message":"Invalid file url"},"result":null}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(rawBody))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "pf-key"})
	_, err := c.CreateOrder(context.Background(), OrderRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid file url", apiErr.Message)
	assert.Equal(t, rawBody, apiErr.RawBody, "raw body is kept for diagnostics")
}

func TestCreateOrderMalformedErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "pf-key"})
	_, err := c.CreateOrder(context.Background(), OrderRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream timeout", apiErr.RawBody)
}

func TestListSyncVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sync/products", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":[
			{"sync_variants":[{"id":4858094038,"sku":"CANVAS-8x10"},{"id":4858094039,"sku":"CANVAS-12x16"}]},
			{"sync_variants":[{"id":4980193865,"sku":"MUG-11OZ"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "pf-key"})
	got, err := c.ListSyncVariants(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, SyncVariant{ID: 4980193865, SKU: "MUG-11OZ"}, got[2])
}

func TestMoneyCoercion(t *testing.T) {
	assert.Equal(t, "0.00", money(""))
	assert.Equal(t, "0.00", money("not-a-number"))
	assert.Equal(t, "25.00", money("25"))
	assert.Equal(t, "25.50", money("25.5"))
	assert.Equal(t, "1999.99", money("1999.99"))
}
