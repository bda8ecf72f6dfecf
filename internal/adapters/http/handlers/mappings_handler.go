package handlers

import (
	"net/http"
	"time"

	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/mapping"
)

type MappingsHandler struct {
	resolver *mapping.Resolver
}

func NewMappingsHandler(resolver *mapping.Resolver) *MappingsHandler {
	return &MappingsHandler{resolver: resolver}
}

// ListMappings dumps the static table and the SKU-join cache state.
// Operator aid for the "variant didn't map" support ticket.
func (h *MappingsHandler) ListMappings(w http.ResponseWriter, r *http.Request) {
	cacheSize, refreshedAt := h.resolver.CacheInfo()
	resp := map[string]any{
		"static":     mapping.StaticTable(),
		"cache_size": cacheSize,
	}
	if !refreshedAt.IsZero() {
		resp["cache_refreshed_at"] = refreshedAt.Format(time.RFC3339)
		resp["cache_age_sec"] = int(time.Since(refreshedAt).Seconds())
	}
	writeJSON(w, http.StatusOK, resp)
}
