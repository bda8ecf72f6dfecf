package order

import "time"

// OrderEvent is one inbound Shopify order-creation notification.
// It is immutable once parsed and never persisted by this service.
type OrderEvent struct {
	ID              int64           `json:"id"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Currency        string          `json:"currency"`
	SubtotalPrice   string          `json:"subtotal_price"`
	TotalDiscounts  string          `json:"total_discounts"`
	ShippingPrice   string          `json:"shipping_price"`
	TotalTax        string          `json:"total_tax"`
	TotalPrice      string          `json:"total_price"`
	OrderedAt       time.Time       `json:"ordered_at"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	LineItems       []LineItem      `json:"line_items"`
}

type ShippingAddress struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Zip          string `json:"zip"`
	Phone        string `json:"phone"`
}

// Name joins the recipient first/last names the way Shopify splits them.
func (a ShippingAddress) Name() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}
