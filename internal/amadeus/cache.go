package amadeus

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/roamstack/travel-backend/internal/model"
	"github.com/roamstack/travel-backend/internal/repository"
)

// Provider is the key under which the hotel API token is persisted.
const Provider = "amadeus"

// safetyMargin is subtracted from the reported token lifetime and applied
// again on every reuse check, so a cached token is never handed out within
// 60 seconds of its real expiry.
const safetyMargin = 60 * time.Second

// GrantSource fetches a fresh token from the provider.  *Client satisfies
// it; tests inject fakes.
type GrantSource interface {
	FetchToken(ctx context.Context) (Grant, error)
}

// TokenStore is the persisted tier of the cache.  *repository.TokenRepo
// satisfies it.
type TokenStore interface {
	Get(ctx context.Context, provider string) (*model.IntegrationToken, error)
	Upsert(ctx context.Context, t model.IntegrationToken) error
}

// TokenCache hands out a usable bearer token from a two-tier read-through
// cache: process memory first, then the persisted provider row, then a
// live refresh.  Concurrent misses are collapsed into a single refresh per
// provider by the singleflight group, so racing callers share one grant
// request instead of each issuing their own.
type TokenCache struct {
	source  GrantSource
	store   TokenStore
	verbose bool

	mu  sync.Mutex // guards token/expiresAt
	tok string
	exp time.Time

	sfg singleflight.Group
}

// NewTokenCache builds a cache around a grant source and a persisted
// store.
func NewTokenCache(source GrantSource, store TokenStore, verbose bool) *TokenCache {
	return &TokenCache{source: source, store: store, verbose: verbose}
}

// Token returns a bearer token that is valid for at least the safety
// margin.  The fast path touches only process memory.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if tok, ok := c.fresh(); ok {
		return tok, nil
	}

	v, err, _ := c.sfg.Do(Provider, func() (any, error) {
		// Double-check after the singleflight barrier: a racing caller
		// may have already repopulated the cache.
		if tok, ok := c.fresh(); ok {
			return tok, nil
		}

		// Persisted tier.  A readable row with enough remaining life
		// repopulates memory without touching the provider.
		if c.store != nil {
			rec, err := c.store.Get(ctx, Provider)
			switch {
			case err == nil:
				if time.Until(rec.ExpiresAt) > safetyMargin {
					c.set(rec.AccessToken, rec.ExpiresAt)
					return rec.AccessToken, nil
				}
			case !errors.Is(err, repository.ErrTokenNotFound):
				// A broken store read is not fatal; fall through to a
				// live refresh.
				log.Printf("amadeus: persisted token read failed: %v", err)
			}
		}

		return c.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Refresh unconditionally fetches a new token, overwriting both tiers.
// Grant failures propagate to the caller as hard errors.
func (c *TokenCache) Refresh(ctx context.Context) (string, error) {
	v, err, _ := c.sfg.Do(Provider+":refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *TokenCache) refresh(ctx context.Context) (string, error) {
	g, err := c.source.FetchToken(ctx)
	if err != nil {
		return "", err
	}

	// Shrink the reported lifetime by the safety margin up front; a token
	// reporting less than the margin is treated as already stale.
	life := g.ExpiresIn - int(safetyMargin/time.Second)
	if life < 0 {
		life = 0
	}
	exp := time.Now().Add(time.Duration(life) * time.Second)
	c.set(g.AccessToken, exp)

	// Persistence is best-effort: the in-memory token is already valid for
	// this process, so a failed upsert is logged and the token returned.
	if c.store != nil {
		if err := c.store.Upsert(ctx, model.IntegrationToken{
			Provider:    Provider,
			AccessToken: g.AccessToken,
			ExpiresAt:   exp,
		}); err != nil {
			log.Printf("amadeus: token upsert failed: %v", err)
		}
	}
	if c.verbose {
		log.Printf("amadeus: token refreshed, valid until %s", exp.Format(time.RFC3339))
	}
	return g.AccessToken, nil
}

// fresh returns the in-memory token when its expiry is still more than the
// safety margin away.
func (c *TokenCache) fresh() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tok != "" && time.Until(c.exp) > safetyMargin {
		return c.tok, true
	}
	return "", false
}

func (c *TokenCache) set(tok string, exp time.Time) {
	c.mu.Lock()
	c.tok = tok
	c.exp = exp
	c.mu.Unlock()
}
