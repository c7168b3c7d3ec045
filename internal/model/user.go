package model

import "time"

// User is the local profile row mirroring an account in the hosted auth
// provider.  Credentials never touch this service; the row only carries
// profile data keyed by the provider's user id.
//
// Fields:
//  ID        – auth provider user id (UUID string).
//  Email     – email registered with the provider.
//  FullName  – optional display name.
//  CreatedAt – when the profile row was inserted.
type User struct {
	ID        string    // users.id
	Email     string    // users.email
	FullName  *string   // users.full_name (nullable)
	CreatedAt time.Time // users.created_at
}
