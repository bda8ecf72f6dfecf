package mapping

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/printful"
	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/shopify"
	"github.com/freelancermujtabaa/PicassoPet/internal/app/fulfillment"
	"github.com/freelancermujtabaa/PicassoPet/internal/logging"
	"github.com/freelancermujtabaa/PicassoPet/internal/metrics"
)

type StorefrontCatalog interface {
	ListVariants(ctx context.Context) ([]shopify.CatalogVariant, error)
}

type ProviderCatalog interface {
	ListSyncVariants(ctx context.Context) ([]printful.SyncVariant, error)
}

// Resolver maps a storefront variant id to a provider sync variant id:
// static table first (exact, then final path segment), then a SKU-join
// cache rebuilt from both catalogs at most once per TTL window. The mutex
// is held across the refresh, so concurrent lookups during a stale window
// trigger exactly one pair of catalog fetches.
type Resolver struct {
	static      map[string]int64
	storefront  StorefrontCatalog
	provider    ProviderCatalog
	ttl         time.Duration
	failBackoff time.Duration
	now         func() time.Time

	mu          sync.Mutex
	auto        map[string]int64
	refreshedAt time.Time
	lastFailAt  time.Time
}

type ResolverConfig struct {
	Storefront  StorefrontCatalog // optional; nil disables the SKU-join fallback
	Provider    ProviderCatalog
	TTL         time.Duration
	FailBackoff time.Duration
}

func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.FailBackoff <= 0 {
		cfg.FailBackoff = time.Minute
	}
	return &Resolver{
		static:      staticTable,
		storefront:  cfg.Storefront,
		provider:    cfg.Provider,
		ttl:         cfg.TTL,
		failBackoff: cfg.FailBackoff,
		now:         time.Now,
	}
}

// Resolve returns the provider sync variant id for a storefront variant id,
// or fulfillment.ErrMappingNotFound. A miss is normal control flow for the
// caller; it must not abort sibling line items.
func (r *Resolver) Resolve(ctx context.Context, storefrontVariantID string) (int64, error) {
	if v, ok := r.static[storefrontVariantID]; ok {
		return v, nil
	}
	if seg, ok := lastSegment(storefrontVariantID); ok {
		if v, ok := r.static[seg]; ok {
			return v, nil
		}
	}
	if v, ok := r.lookupAutomatic(ctx, storefrontVariantID); ok {
		logging.LogInfo("resolved variant via SKU-join cache", logrus.Fields{
			"variant_id": storefrontVariantID, "sync_variant_id": v,
		})
		return v, nil
	}
	return 0, fulfillment.ErrMappingNotFound
}

func (r *Resolver) lookupAutomatic(ctx context.Context, id string) (int64, bool) {
	if r.storefront == nil || r.provider == nil {
		return 0, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stale := r.auto == nil || now.Sub(r.refreshedAt) >= r.ttl
	if stale && now.Sub(r.lastFailAt) >= r.failBackoff {
		if err := r.refreshLocked(ctx); err != nil {
			// Non-fatal: the lookup falls through to not-found. The
			// backoff keeps a broken catalog endpoint from being
			// re-fetched on every lookup.
			logging.LogError("SKU-join cache refresh failed", err, logrus.Fields{})
			metrics.MappingCacheRefreshTotal.WithLabelValues("error").Inc()
			r.lastFailAt = now
		} else {
			metrics.MappingCacheRefreshTotal.WithLabelValues("ok").Inc()
			r.refreshedAt = now
		}
	}

	if v, ok := r.auto[id]; ok {
		return v, true
	}
	if seg, ok := lastSegment(id); ok {
		if v, ok := r.auto[seg]; ok {
			return v, true
		}
	}
	return 0, false
}

// refreshLocked joins both catalogs on SKU. Caller holds r.mu.
func (r *Resolver) refreshLocked(ctx context.Context) error {
	storeVariants, err := r.storefront.ListVariants(ctx)
	if err != nil {
		return err
	}
	syncVariants, err := r.provider.ListSyncVariants(ctx)
	if err != nil {
		return err
	}

	bySKU := make(map[string]int64, len(syncVariants))
	for _, sv := range syncVariants {
		if sv.SKU != "" {
			bySKU[sv.SKU] = sv.ID
		}
	}

	joined := make(map[string]int64)
	for _, v := range storeVariants {
		if v.SKU == "" {
			continue
		}
		if syncID, ok := bySKU[v.SKU]; ok {
			bare := strconv.FormatInt(v.ID, 10)
			joined[bare] = syncID
			joined[GIDPrefix+bare] = syncID
		}
	}

	r.auto = joined
	logging.LogInfo("SKU-join cache refreshed", logrus.Fields{"mapped": len(joined)})
	return nil
}

// CacheInfo reports the SKU-join cache state (debug surface).
func (r *Resolver) CacheInfo() (size int, refreshedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.auto), r.refreshedAt
}

func lastSegment(id string) (string, bool) {
	i := strings.LastIndex(id, "/")
	if i < 0 || i == len(id)-1 {
		return "", false
	}
	return id[i+1:], true
}
