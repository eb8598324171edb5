package gateway

import (
	"strings"
	"sync"

	"github.com/fes-crm/clientgate/internal/pkg/metrics"
)

// queryCache memoizes query results until a mutation invalidates them.
// Keys follow the query they cache: "clients", "client:<id>",
// "dashboardStats", "onboardingPipeline", "activityLog:<id>",
// "adminEntries", "currentUserProfile", "callerAdminEntry".
type queryCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]any)}
}

func (c *queryCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *queryCache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// invalidate drops an exact key, or every key under a prefix when the key
// ends with ":" (e.g. "client:" drops all single-client queries).
func (c *queryCache) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if strings.HasSuffix(key, ":") {
			for stored := range c.entries {
				if strings.HasPrefix(stored, key) {
					delete(c.entries, stored)
				}
			}
		} else {
			delete(c.entries, key)
		}
		metrics.CacheInvalidations.WithLabelValues(keyLabel(key)).Inc()
	}
}

// keyLabel collapses per-entity keys so the metric cardinality stays fixed.
func keyLabel(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
