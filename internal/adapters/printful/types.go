package printful

// Request/response shapes for the Printful order-creation API
// (POST /orders). Money fields travel as canonical 2-decimal strings.

type OrderRequest struct {
	ExternalID  string      `json:"external_id"`
	Shipping    string      `json:"shipping"`
	Recipient   Recipient   `json:"recipient"`
	Items       []Item      `json:"items"`
	RetailCosts RetailCosts `json:"retail_costs"`
}

type Recipient struct {
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	StateName   string `json:"state_name,omitempty"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name,omitempty"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

type Item struct {
	SyncVariantID int64  `json:"sync_variant_id"`
	Quantity      int    `json:"quantity"`
	RetailPrice   string `json:"retail_price"`
	Name          string `json:"name"`
	Files         []File `json:"files"`
}

type File struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type RetailCosts struct {
	Currency string `json:"currency"`
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type orderResponse struct {
	Result struct {
		ID int64 `json:"id"`
	} `json:"result"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type syncProductsResponse struct {
	Result []struct {
		SyncVariants []struct {
			ID  int64  `json:"id"`
			SKU string `json:"sku"`
		} `json:"sync_variants"`
	} `json:"result"`
}
