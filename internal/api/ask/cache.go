package ask

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"auvora-crm/config"
	"auvora-crm/internal/domain/ask"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const cacheSize = 512

var (
	cacheMu     sync.Mutex
	cacheReady  bool
	tenantCache *expirable.LRU[string, ask.TenantSnapshot]
	adminCache  *expirable.LRU[string, ask.AdminSnapshot]
)

// SetCacheTTL rebuilds the snapshot caches. A ttl of zero or less turns
// caching off. Without a call the TTL comes from ASK_CACHE_TTL.
func SetCacheTTL(ttl time.Duration) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	buildCaches(ttl)
}

func buildCaches(ttl time.Duration) {
	cacheReady = true
	if ttl <= 0 {
		tenantCache, adminCache = nil, nil
		return
	}
	tenantCache = expirable.NewLRU[string, ask.TenantSnapshot](cacheSize, nil, ttl)
	adminCache = expirable.NewLRU[string, ask.AdminSnapshot](cacheSize, nil, ttl)
}

// caches returns nil caches when caching is off.
func caches() (*expirable.LRU[string, ask.TenantSnapshot], *expirable.LRU[string, ask.AdminSnapshot]) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if !cacheReady {
		buildCaches(config.ASK_CACHE_TTL)
	}
	return tenantCache, adminCache
}

func tenantKey(tenantID uint, p ask.Period) string {
	return fmt.Sprintf("tenant:%d:%s", tenantID, p.Key)
}

func adminKey(p ask.Period) string {
	return "admin:" + p.Key
}

// PurgeTenant drops the cached snapshots of one tenant, after its records
// were replaced wholesale.
func PurgeTenant(tenantID uint) {
	tc, _ := caches()
	if tc == nil {
		return
	}
	prefix := fmt.Sprintf("tenant:%d:", tenantID)
	for _, k := range tc.Keys() {
		if strings.HasPrefix(k, prefix) {
			tc.Remove(k)
		}
	}
}
