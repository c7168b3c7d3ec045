package amadeus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roamstack/travel-backend/internal/model"
	"github.com/roamstack/travel-backend/internal/repository"
)

// fakeSource counts grant requests and can be told to fail or stall.
type fakeSource struct {
	mu    sync.Mutex
	calls int32
	grant Grant
	err   error
	stall time.Duration
}

func (f *fakeSource) FetchToken(ctx context.Context) (Grant, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.stall > 0 {
		time.Sleep(f.stall)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Grant{}, f.err
	}
	return f.grant, nil
}

func (f *fakeSource) callCount() int32 { return atomic.LoadInt32(&f.calls) }

// fakeStore is an in-memory TokenStore.
type fakeStore struct {
	mu        sync.Mutex
	rec       *model.IntegrationToken
	upsertErr error
	upserts   int
}

func (f *fakeStore) Get(ctx context.Context, provider string) (*model.IntegrationToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rec == nil {
		return nil, repository.ErrTokenNotFound
	}
	cp := *f.rec
	return &cp, nil
}

func (f *fakeStore) Upsert(ctx context.Context, t model.IntegrationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rec = &t
	return nil
}

func TestRefreshShrinksLifetimeBySafetyMargin(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-1", ExpiresIn: 1799}}
	store := &fakeStore{}
	cache := NewTokenCache(src, store, false)

	before := time.Now()
	tok, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tok != "tok-1" {
		t.Fatalf("token = %q, want tok-1", tok)
	}

	want := before.Add(time.Duration(1799-60) * time.Second)
	got := store.rec.ExpiresAt
	if diff := got.Sub(want); diff < 0 || diff > 2*time.Second {
		t.Fatalf("persisted expiry %v, want ~%v", got, want)
	}
}

func TestRefreshClampsNegativeLifetime(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-short", ExpiresIn: 30}}
	cache := NewTokenCache(src, &fakeStore{}, false)

	if _, err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// 30s reported minus the 60s margin clamps to zero: the cached token
	// is immediately stale and the next Token call must refresh again.
	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got := src.callCount(); got != 2 {
		t.Fatalf("grant requests = %d, want 2", got)
	}
}

func TestTokenMemoryHitDoesNoIO(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-mem", ExpiresIn: 1800}}
	store := &fakeStore{}
	cache := NewTokenCache(src, store, false)

	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("first Token: %v", err)
	}
	upserts := store.upserts

	tok, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("second Token: %v", err)
	}
	if tok != "tok-mem" {
		t.Fatalf("token = %q, want tok-mem", tok)
	}
	if got := src.callCount(); got != 1 {
		t.Fatalf("grant requests = %d, want 1", got)
	}
	if store.upserts != upserts {
		t.Fatalf("memory hit touched the store")
	}
}

func TestTokenUsesPersistedRecordWithoutRefresh(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-new", ExpiresIn: 1800}}
	store := &fakeStore{rec: &model.IntegrationToken{
		Provider:    Provider,
		AccessToken: "tok-persisted",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	}}
	cache := NewTokenCache(src, store, false)

	tok, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-persisted" {
		t.Fatalf("token = %q, want tok-persisted", tok)
	}
	if got := src.callCount(); got != 0 {
		t.Fatalf("grant requests = %d, want 0", got)
	}

	// The persisted hit must also have primed the memory tier.
	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("second Token: %v", err)
	}
	if got := src.callCount(); got != 0 {
		t.Fatalf("grant requests after memory hit = %d, want 0", got)
	}
}

func TestTokenRefusesPersistedRecordInsideMargin(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-new", ExpiresIn: 1800}}
	store := &fakeStore{rec: &model.IntegrationToken{
		Provider:    Provider,
		AccessToken: "tok-stale",
		ExpiresAt:   time.Now().Add(30 * time.Second), // inside the 60s margin
	}}
	cache := NewTokenCache(src, store, false)

	tok, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-new" {
		t.Fatalf("token = %q, want tok-new (stale row must not be reused)", tok)
	}
	if got := src.callCount(); got != 1 {
		t.Fatalf("grant requests = %d, want 1", got)
	}
}

func TestTokenColdCacheRefreshesExactlyOnce(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-cold", ExpiresIn: 1800}}
	cache := NewTokenCache(src, &fakeStore{}, false)

	tok, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-cold" {
		t.Fatalf("token = %q, want tok-cold", tok)
	}
	if got := src.callCount(); got != 1 {
		t.Fatalf("grant requests = %d, want 1", got)
	}
}

func TestConcurrentMissesShareOneRefresh(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-sf", ExpiresIn: 1800}, stall: 50 * time.Millisecond}
	cache := NewTokenCache(src, &fakeStore{}, false)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := cache.Token(context.Background())
			if err != nil {
				errs <- err
				return
			}
			if tok != "tok-sf" {
				errs <- errors.New("unexpected token " + tok)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Token: %v", err)
	}
	if got := src.callCount(); got != 1 {
		t.Fatalf("grant requests = %d, want 1 (single-flight)", got)
	}
}

func TestRefreshPersistFailureStillReturnsToken(t *testing.T) {
	src := &fakeSource{grant: Grant{AccessToken: "tok-best-effort", ExpiresIn: 1800}}
	store := &fakeStore{upsertErr: errors.New("store down")}
	cache := NewTokenCache(src, store, false)

	tok, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tok != "tok-best-effort" {
		t.Fatalf("token = %q, want tok-best-effort", tok)
	}
	// The in-memory tier still serves it.
	if tok, err := cache.Token(context.Background()); err != nil || tok != "tok-best-effort" {
		t.Fatalf("Token after failed persist = %q, %v", tok, err)
	}
}

func TestRefreshGrantFailurePropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("provider down")}
	cache := NewTokenCache(src, &fakeStore{}, false)

	if _, err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh succeeded, want error")
	}
	if _, err := cache.Token(context.Background()); err == nil {
		t.Fatal("Token succeeded with failing provider, want error")
	}
}
