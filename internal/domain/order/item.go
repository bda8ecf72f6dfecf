package order

type LineItem struct {
	ID         int64      `json:"id"`
	VariantID  string     `json:"variant_id"`
	Quantity   int        `json:"quantity"`
	Price      string     `json:"price"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// Property is one custom key/value pair attached to a line item at checkout.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Property returns the value of the first non-empty property matching any of
// the given names, in the order the names are passed.
func (li LineItem) Property(names ...string) (string, bool) {
	for _, n := range names {
		for _, p := range li.Properties {
			if p.Name == n && p.Value != "" {
				return p.Value, true
			}
		}
	}
	return "", false
}
