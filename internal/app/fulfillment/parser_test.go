package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

func itemWithProps(id int64, props ...domain.Property) domain.LineItem {
	return domain.LineItem{ID: id, VariantID: "51871373918526", Quantity: 1, Price: "25.00", Name: "Canvas", Properties: props}
}

func TestActionableItemsBothSpellings(t *testing.T) {
	ev := domain.OrderEvent{
		ID:    100,
		Email: "order@x.com",
		LineItems: []domain.LineItem{
			itemWithProps(1, domain.Property{Name: "AI_Image_URL", Value: "https://cdn/a.jpg"}),
			itemWithProps(2, domain.Property{Name: "_AI_Image_URL", Value: "https://cdn/b.jpg"}),
		},
	}

	got := ActionableItems(ev)
	require.Len(t, got, 2)
	assert.Equal(t, "https://cdn/a.jpg", got[0].ArtworkURL)
	assert.Equal(t, "https://cdn/b.jpg", got[1].ArtworkURL)
}

func TestActionableItemsUnprefixedSpellingWins(t *testing.T) {
	ev := domain.OrderEvent{
		LineItems: []domain.LineItem{
			itemWithProps(1,
				domain.Property{Name: "_AI_Image_URL", Value: "https://cdn/hidden.jpg"},
				domain.Property{Name: "AI_Image_URL", Value: "https://cdn/visible.jpg"},
			),
		},
	}

	got := ActionableItems(ev)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn/visible.jpg", got[0].ArtworkURL)
}

func TestActionableItemsEmailFallback(t *testing.T) {
	ev := domain.OrderEvent{
		Email: "order@x.com",
		LineItems: []domain.LineItem{
			itemWithProps(1,
				domain.Property{Name: "AI_Image_URL", Value: "https://cdn/a.jpg"},
				domain.Property{Name: "_User_Email", Value: "user@y.com"},
			),
			itemWithProps(2, domain.Property{Name: "AI_Image_URL", Value: "https://cdn/b.jpg"}),
		},
	}

	got := ActionableItems(ev)
	require.Len(t, got, 2)
	assert.Equal(t, "user@y.com", got[0].Email)
	assert.Equal(t, "order@x.com", got[1].Email)
}

func TestActionableItemsSkipsItemsWithoutArtwork_KeepsOriginals(t *testing.T) {
	ev := domain.OrderEvent{
		LineItems: []domain.LineItem{
			itemWithProps(1),
			itemWithProps(2, domain.Property{Name: "AI_Image_URL", Value: "https://cdn/b.jpg"}),
			itemWithProps(3, domain.Property{Name: "Gift_Note", Value: "happy birthday"}),
		},
	}

	got := ActionableItems(ev)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].Item.ID)
	// the event itself still carries every line item for audit
	assert.Len(t, ev.LineItems, 3)
}

func TestActionableItemsIgnoresEmptyValues(t *testing.T) {
	ev := domain.OrderEvent{
		LineItems: []domain.LineItem{
			itemWithProps(1, domain.Property{Name: "AI_Image_URL", Value: ""}),
		},
	}

	assert.Empty(t, ActionableItems(ev))
}

func TestActionableItemsPreservesOrder(t *testing.T) {
	ev := domain.OrderEvent{
		LineItems: []domain.LineItem{
			itemWithProps(3, domain.Property{Name: "AI_Image_URL", Value: "https://cdn/3.jpg"}),
			itemWithProps(1, domain.Property{Name: "AI_Image_URL", Value: "https://cdn/1.jpg"}),
			itemWithProps(2, domain.Property{Name: "AI_Image_URL", Value: "https://cdn/2.jpg"}),
		},
	}

	got := ActionableItems(ev)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].Item.ID, got[1].Item.ID, got[2].Item.ID})
}
