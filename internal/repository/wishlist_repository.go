package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/roamstack/travel-backend/internal/model"
)

// ErrWishlistDuplicate is returned when the (user, poi) pair already
// exists.  Handlers translate this into an HTTP 409 response.
var ErrWishlistDuplicate = errors.New("wishlist entry already exists")

// ErrWishlistNotFound is returned when a removal matches no row.
var ErrWishlistNotFound = errors.New("wishlist entry not found")

// WishlistRepo encapsulates queries on the poi_wishlist join table.
type WishlistRepo struct {
	db *sql.DB
}

func NewWishlistRepo(db *sql.DB) *WishlistRepo {
	return &WishlistRepo{db: db}
}

// Add inserts a (user, poi) pair.  The duplicate check is an explicit
// pre-check rather than a constraint-violation translation, so the insert
// never runs when the pair is already present.
func (r *WishlistRepo) Add(ctx context.Context, userID string, poiID uint64) (*model.WishlistEntry, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM poi_wishlist WHERE user_id = ? AND poi_id = ? LIMIT 1",
		userID, poiID).Scan(&one)
	switch {
	case err == nil:
		return nil, ErrWishlistDuplicate
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO poi_wishlist (user_id, poi_id) VALUES (?, ?)",
		userID, poiID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	e := &model.WishlistEntry{ID: uint64(id), UserID: userID, PoiID: poiID}
	// Follow-up SELECT populates the DB-assigned timestamp.
	const q = "SELECT created_at FROM poi_wishlist WHERE id = ?"
	if err := r.db.QueryRowContext(ctx, q, e.ID).Scan(&e.CreatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

// Remove deletes by exact pair match and reports not-found when nothing
// was deleted.
func (r *WishlistRepo) Remove(ctx context.Context, userID string, poiID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM poi_wishlist WHERE user_id = ? AND poi_id = ?",
		userID, poiID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

// ListByUser returns the user's wishlist entries joined with the
// destination details from the public view, newest first.
func (r *WishlistRepo) ListByUser(ctx context.Context, userID string) ([]*model.WishlistItem, error) {
	q := `SELECT w.id, w.user_id, w.poi_id, w.created_at, ` + prefixedViewColumns("d") + `
	      FROM poi_wishlist w
	      JOIN vw_destinations_public d ON d.id = w.poi_id
	      WHERE w.user_id = ?
	      ORDER BY w.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.WishlistItem
	for rows.Next() {
		item, err := scanWishlistItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// prefixedViewColumns qualifies the shared view select list with a table
// alias for use in joins.
func prefixedViewColumns(alias string) string {
	cols := []string{"id", "name", "slug", "area_geojson", "center_geojson",
		"center_lat", "center_lng", "description", "images", "videos",
		"base_price", "altitude", "created_by", "created_at", "updated_at"}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}

// scanWishlistItem reads one joined row: the entry columns followed by the
// destination view columns.
func scanWishlistItem(rows *sql.Rows) (*model.WishlistItem, error) {
	var (
		item      model.WishlistItem
		d         = &item.Destination
		areaRaw   sql.NullString
		centerRaw sql.NullString
		desc      sql.NullString
		imagesRaw sql.NullString
		videosRaw sql.NullString
		basePrice sql.NullFloat64
		altitude  sql.NullFloat64
		createdBy sql.NullString
	)
	if err := rows.Scan(
		&item.Entry.ID, &item.Entry.UserID, &item.Entry.PoiID, &item.Entry.CreatedAt,
		&d.ID, &d.Name, &d.Slug, &areaRaw, &centerRaw,
		&d.CenterLat, &d.CenterLng, &desc, &imagesRaw, &videosRaw,
		&basePrice, &altitude, &createdBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if areaRaw.Valid {
		if poly, err := model.DecodePolygon(areaRaw.String); err == nil {
			d.Area = poly
		}
	}
	if centerRaw.Valid {
		if pt, err := model.DecodePoint(centerRaw.String); err == nil {
			d.Center = pt
		}
	}
	if desc.Valid {
		d.Description = &desc.String
	}
	if imagesRaw.Valid {
		_ = json.Unmarshal([]byte(imagesRaw.String), &d.Images)
	}
	if videosRaw.Valid {
		_ = json.Unmarshal([]byte(videosRaw.String), &d.Videos)
	}
	if basePrice.Valid {
		d.BasePrice = &basePrice.Float64
	}
	if altitude.Valid {
		d.Altitude = &altitude.Float64
	}
	if createdBy.Valid {
		d.CreatedBy = &createdBy.String
	}
	return &item, nil
}
