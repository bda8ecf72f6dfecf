package validation

import (
	"errors"

	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

func isValidRecipient(addr domain.ShippingAddress) error {
	if addr.Name() == "" {
		return errors.New("recipient name is required")
	}
	if addr.Address1 == "" {
		return errors.New("recipient address1 is required")
	}
	if addr.City == "" {
		return errors.New("recipient city is required")
	}
	if addr.CountryCode == "" {
		return errors.New("recipient country code is required")
	}
	if addr.Zip == "" {
		return errors.New("recipient zip is required")
	}
	return nil
}
