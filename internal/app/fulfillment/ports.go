package fulfillment

import (
	"context"

	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

type VariantResolver interface {
	Resolve(ctx context.Context, storefrontVariantID string) (int64, error)
}

type OrderSubmitter interface {
	SubmitItem(ctx context.Context, ev domain.OrderEvent, item domain.LineItem, artworkURL, email string, syncVariantID int64) (int64, error)
}

// Ledger tracks (order id, line item id) pairs that have been handed to the
// provider, so a redelivered webhook never submits the same item twice.
type Ledger interface {
	// Reserve claims the pair; false means it is already claimed.
	Reserve(ctx context.Context, orderID, itemID int64) (bool, error)
	MarkSubmitted(ctx context.Context, orderID, itemID, providerOrderID int64) error
	// Release frees a reservation after a failed submission so an
	// operator-triggered redelivery can retry the item.
	Release(ctx context.Context, orderID, itemID int64) error
}

type ItemQueue interface {
	EnqueueItem(ctx context.Context, ev domain.OrderEvent, item ActionableItem) error
}
