package mapping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/printful"
	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/shopify"
	"github.com/freelancermujtabaa/PicassoPet/internal/app/fulfillment"
	"github.com/freelancermujtabaa/PicassoPet/internal/logging"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	m.Run()
}

type fakeStorefront struct {
	variants []shopify.CatalogVariant
	err      error
	calls    int
}

func (f *fakeStorefront) ListVariants(context.Context) ([]shopify.CatalogVariant, error) {
	f.calls++
	return f.variants, f.err
}

type fakeProvider struct {
	variants []printful.SyncVariant
	err      error
	calls    int
}

func (f *fakeProvider) ListSyncVariants(context.Context) ([]printful.SyncVariant, error) {
	f.calls++
	return f.variants, f.err
}

func TestResolveStaticBothSpellings(t *testing.T) {
	r := NewResolver(ResolverConfig{})

	bare, err := r.Resolve(context.Background(), "51871373918526")
	require.NoError(t, err)

	gid, err := r.Resolve(context.Background(), GIDPrefix+"51871373918526")
	require.NoError(t, err)

	assert.Equal(t, int64(4858094038), bare)
	assert.Equal(t, bare, gid)
}

func TestResolveFallsBackToLastPathSegment(t *testing.T) {
	r := NewResolver(ResolverConfig{})

	got, err := r.Resolve(context.Background(), "gid://shopify/LineItemVariant/52249775178046")
	require.NoError(t, err)
	assert.Equal(t, int64(4980193865), got)
}

func TestResolveUnknownReturnsNotFound(t *testing.T) {
	r := NewResolver(ResolverConfig{})

	_, err := r.Resolve(context.Background(), "99999999999999")
	assert.ErrorIs(t, err, fulfillment.ErrMappingNotFound)
}

func TestResolveJoinsCatalogsOnSKU(t *testing.T) {
	store := &fakeStorefront{variants: []shopify.CatalogVariant{
		{ID: 61000000000001, SKU: "MUG-SPECIAL"},
		{ID: 61000000000002, SKU: ""},
	}}
	prov := &fakeProvider{variants: []printful.SyncVariant{
		{ID: 5000000001, SKU: "MUG-SPECIAL"},
		{ID: 5000000002, SKU: "POSTER-XL"},
	}}
	r := NewResolver(ResolverConfig{Storefront: store, Provider: prov})

	got, err := r.Resolve(context.Background(), "61000000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(5000000001), got)

	// gid spelling hits the same joined entry
	got, err = r.Resolve(context.Background(), GIDPrefix+"61000000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(5000000001), got)

	// variant with no matching SKU still misses
	_, err = r.Resolve(context.Background(), "61000000000002")
	assert.ErrorIs(t, err, fulfillment.ErrMappingNotFound)
}

func TestResolveRefreshesAtMostOncePerWindow(t *testing.T) {
	store := &fakeStorefront{variants: []shopify.CatalogVariant{{ID: 610, SKU: "A"}}}
	prov := &fakeProvider{variants: []printful.SyncVariant{{ID: 500, SKU: "A"}}}
	r := NewResolver(ResolverConfig{Storefront: store, Provider: prov, TTL: time.Hour})

	now := time.Now()
	r.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		_, _ = r.Resolve(context.Background(), "unknown-variant")
	}
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, prov.calls)

	// a stale window triggers exactly one more refresh
	now = now.Add(time.Hour + time.Minute)
	for i := 0; i < 5; i++ {
		_, _ = r.Resolve(context.Background(), "unknown-variant")
	}
	assert.Equal(t, 2, store.calls)
	assert.Equal(t, 2, prov.calls)
}

func TestResolveCatalogFailureIsNonFatalAndBackedOff(t *testing.T) {
	store := &fakeStorefront{err: errors.New("admin api 503")}
	prov := &fakeProvider{}
	r := NewResolver(ResolverConfig{Storefront: store, Provider: prov, FailBackoff: time.Minute})

	now := time.Now()
	r.now = func() time.Time { return now }

	_, err := r.Resolve(context.Background(), "unknown-variant")
	assert.ErrorIs(t, err, fulfillment.ErrMappingNotFound)
	assert.Equal(t, 1, store.calls)

	// within the backoff window the broken catalog is not re-fetched
	_, err = r.Resolve(context.Background(), "unknown-variant")
	assert.ErrorIs(t, err, fulfillment.ErrMappingNotFound)
	assert.Equal(t, 1, store.calls)

	now = now.Add(2 * time.Minute)
	_, _ = r.Resolve(context.Background(), "unknown-variant")
	assert.Equal(t, 2, store.calls)
}

func TestResolveStaticWinsOverJoin(t *testing.T) {
	store := &fakeStorefront{variants: []shopify.CatalogVariant{{ID: 51871373918526, SKU: "CANVAS-8x10"}}}
	prov := &fakeProvider{variants: []printful.SyncVariant{{ID: 999, SKU: "CANVAS-8x10"}}}
	r := NewResolver(ResolverConfig{Storefront: store, Provider: prov})

	got, err := r.Resolve(context.Background(), "51871373918526")
	require.NoError(t, err)
	assert.Equal(t, int64(4858094038), got)
	assert.Zero(t, store.calls, "static hit must not touch the catalogs")
}
