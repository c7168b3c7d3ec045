package model

import "time"

// IntegrationToken is a persisted OAuth bearer token for an external
// provider.  The `integration_tokens` table holds at most one row per
// provider; every refresh overwrites it.
//
// Fields:
//  Provider    – provider key, e.g. "amadeus".
//  AccessToken – the bearer token string.
//  ExpiresAt   – absolute expiry already shrunk by the safety margin.
type IntegrationToken struct {
	Provider    string    // integration_tokens.provider
	AccessToken string    // integration_tokens.access_token
	ExpiresAt   time.Time // integration_tokens.expires_at
}
