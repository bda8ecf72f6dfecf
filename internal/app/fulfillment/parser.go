package fulfillment

import (
	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

// Accepted property spellings, highest priority first. Shopify prefixes
// property names with an underscore when they are hidden from the customer,
// so both forms occur in the wild.
var (
	artworkURLKeys = []string{"AI_Image_URL", "_AI_Image_URL"}
	userEmailKeys  = []string{"User_Email", "_User_Email"}
)

// ActionableItem is one line item that carries generated artwork and is
// therefore eligible for a fulfillment submission.
type ActionableItem struct {
	Item       domain.LineItem `json:"item"`
	ArtworkURL string          `json:"artwork_url"`
	Email      string          `json:"email"`
}

// ActionableItems extracts the line items carrying an artwork URL, in order.
// Items without one are not an error: not every purchased item is a custom
// portrait. The event itself keeps the full line item list for audit.
func ActionableItems(ev domain.OrderEvent) []ActionableItem {
	out := make([]ActionableItem, 0, len(ev.LineItems))
	for _, li := range ev.LineItems {
		url, ok := li.Property(artworkURLKeys...)
		if !ok {
			continue
		}
		email, ok := li.Property(userEmailKeys...)
		if !ok {
			email = ev.Email
		}
		out = append(out, ActionableItem{Item: li, ArtworkURL: url, Email: email})
	}
	return out
}
