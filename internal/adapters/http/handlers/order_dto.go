package handlers

import (
	"encoding/json"
	"time"

	"github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

// Wire shape of the Shopify order webhook body.
type webhookOrder struct {
	ID              int64              `json:"id"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	Currency        string             `json:"currency"`
	SubtotalPrice   string             `json:"subtotal_price"`
	TotalDiscounts  string             `json:"total_discounts"`
	TotalTax        string             `json:"total_tax"`
	TotalPrice      string             `json:"total_price"`
	CreatedAt       string             `json:"created_at"`
	ShippingLines   []shippingLineDTO  `json:"shipping_lines"`
	ShippingAddress shippingAddressDTO `json:"shipping_address"`
	LineItems       []lineItemDTO      `json:"line_items"`
}

type shippingLineDTO struct {
	Price string `json:"price"`
}

type shippingAddressDTO struct {
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

type lineItemDTO struct {
	ID         int64         `json:"id"`
	VariantID  variantID     `json:"variant_id"`
	Quantity   int           `json:"quantity"`
	Price      string        `json:"price"`
	Name       string        `json:"name"`
	Properties []propertyDTO `json:"properties"`
}

// variant_id arrives as a bare number on REST webhooks and as a gid string
// elsewhere, so it is decoded by hand.
type variantID string

func (v *variantID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = variantID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = variantID(n.String())
	return nil
}

type propertyDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (o webhookOrder) ToModel() order.OrderEvent {
	var orderedAt time.Time
	if o.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
			orderedAt = t
		}
	}

	shippingPrice := ""
	if len(o.ShippingLines) > 0 {
		shippingPrice = o.ShippingLines[0].Price
	}

	out := order.OrderEvent{
		ID:             o.ID,
		Email:          o.Email,
		Phone:          o.Phone,
		Currency:       o.Currency,
		SubtotalPrice:  o.SubtotalPrice,
		TotalDiscounts: o.TotalDiscounts,
		ShippingPrice:  shippingPrice,
		TotalTax:       o.TotalTax,
		TotalPrice:     o.TotalPrice,
		OrderedAt:      orderedAt,
		ShippingAddress: order.ShippingAddress{
			FirstName:    o.ShippingAddress.FirstName,
			LastName:     o.ShippingAddress.LastName,
			Company:      o.ShippingAddress.Company,
			Address1:     o.ShippingAddress.Address1,
			Address2:     o.ShippingAddress.Address2,
			City:         o.ShippingAddress.City,
			Province:     o.ShippingAddress.Province,
			ProvinceCode: o.ShippingAddress.ProvinceCode,
			Country:      o.ShippingAddress.Country,
			CountryCode:  o.ShippingAddress.CountryCode,
			Zip:          o.ShippingAddress.Zip,
			Phone:        o.ShippingAddress.Phone,
		},
		LineItems: make([]order.LineItem, 0, len(o.LineItems)),
	}

	for _, li := range o.LineItems {
		props := make([]order.Property, 0, len(li.Properties))
		for _, p := range li.Properties {
			props = append(props, order.Property{Name: p.Name, Value: p.Value})
		}
		out.LineItems = append(out.LineItems, order.LineItem{
			ID:         li.ID,
			VariantID:  string(li.VariantID),
			Quantity:   li.Quantity,
			Price:      li.Price,
			Name:       li.Name,
			Properties: props,
		})
	}
	return out
}
