package amadeus

import (
	"context"
	"log"
	"time"
)

// WarmRefreshInterval is the cadence of the unattended token refresh.  It
// sits well inside the provider's ~30 minute token lifetime so the cache
// stays warm between requests.
const WarmRefreshInterval = 25 * time.Minute

// StartWarmRefresher runs an unconditional Refresh on a fixed ticker until
// the context is cancelled.  Failures are logged and swallowed; the next
// tick simply tries again, and request-path callers still refresh on
// demand through Token.
func StartWarmRefresher(ctx context.Context, cache *TokenCache, interval time.Duration) {
	if interval <= 0 {
		interval = WarmRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := cache.Refresh(ctx); err != nil {
				log.Printf("amadeus: scheduled token refresh failed: %v", err)
			}
		}
	}
}
