package validation

import (
	"errors"
	"net/url"

	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

// IsValidSubmission checks the minimum the provider would reject anyway.
// A failure here is a per-item failure, never a request failure.
func IsValidSubmission(ev domain.OrderEvent, item domain.LineItem, artworkURL string) error {
	if err := isValidItem(item); err != nil {
		return err
	}
	if err := isValidArtworkURL(artworkURL); err != nil {
		return err
	}
	return isValidRecipient(ev.ShippingAddress)
}

func isValidItem(item domain.LineItem) error {
	if item.ID == 0 {
		return errors.New("line item id is required")
	}
	if item.VariantID == "" {
		return errors.New("variant id is required")
	}
	if item.Quantity <= 0 {
		return errors.New("quantity must be more than zero")
	}
	return nil
}

func isValidArtworkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("artwork url is not a valid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("artwork url must be http or https")
	}
	if u.Host == "" {
		return errors.New("artwork url must be absolute")
	}
	return nil
}
