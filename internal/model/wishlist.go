package model

import "time"

// WishlistEntry links a user to a destination they saved.  It corresponds
// to a row in the `poi_wishlist` join table.  The (UserID, PoiID) pair is
// unique; the repository enforces this with an explicit pre-check on
// insert.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – auth user id of the owner.
//  PoiID     – destination being saved.
//  CreatedAt – when the entry was added.
type WishlistEntry struct {
	ID        uint64    // poi_wishlist.id
	UserID    string    // poi_wishlist.user_id
	PoiID     uint64    // poi_wishlist.poi_id
	CreatedAt time.Time // poi_wishlist.created_at
}

// WishlistItem is a wishlist entry joined with the destination it points
// at, as returned by the list-by-user query.
type WishlistItem struct {
	Entry       WishlistEntry
	Destination Destination
}
