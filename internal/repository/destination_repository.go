// Package repository contains data access logic separated from HTTP
// handlers.  This file holds the destination repository: writes go to the
// `destinations` base table, reads go through the `vw_destinations_public`
// view which exposes geometry as serialized GeoJSON text columns.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roamstack/travel-backend/internal/model"
)

// ErrDestinationNotFound is returned when no destination matches the
// requested id or slug.
var ErrDestinationNotFound = errors.New("destination not found")

// DestinationRepo encapsulates all database queries for destinations.
type DestinationRepo struct {
	db *sql.DB // underlying connection pool
}

// NewDestinationRepo constructs a DestinationRepo with the provided DB
// handle, allowing injection in tests and at startup.
func NewDestinationRepo(db *sql.DB) *DestinationRepo {
	return &DestinationRepo{db: db}
}

// DestinationInput carries the fields accepted on create.  Geometry is
// optional; centre coordinates are required and stored regardless.
type DestinationInput struct {
	Name        string
	Slug        string
	Area        *model.Polygon
	Center      *model.Point
	CenterLat   float64
	CenterLng   float64
	Description *string
	Images      []string
	Videos      []string
	BasePrice   *float64
	Altitude    *float64
	CreatedBy   *string
}

// DestinationUpdate carries a partial update.  Nil fields are left
// untouched; non-nil fields overwrite the stored value.
type DestinationUpdate struct {
	Name        *string
	Slug        *string
	Area        *model.Polygon
	Center      *model.Point
	CenterLat   *float64
	CenterLng   *float64
	Description *string
	Images      []string
	Videos      []string
	BasePrice   *float64
	Altitude    *float64
}

// viewColumns is the select list shared by every read path.
const viewColumns = `id, name, slug, area_geojson, center_geojson, center_lat, center_lng,
       description, images, videos, base_price, altitude, created_by, created_at, updated_at`

// Create inserts a new destination and returns the stored row re-read from
// the public view so the caller sees decoded geometry and DB timestamps.
func (r *DestinationRepo) Create(ctx context.Context, in DestinationInput) (*model.Destination, error) {
	areaJSON, err := encodeGeom(in.Area)
	if err != nil {
		return nil, fmt.Errorf("encode area: %w", err)
	}
	centerJSON, err := encodeGeom(in.Center)
	if err != nil {
		return nil, fmt.Errorf("encode center: %w", err)
	}
	images, err := encodeList(in.Images)
	if err != nil {
		return nil, err
	}
	videos, err := encodeList(in.Videos)
	if err != nil {
		return nil, err
	}

	const q = `INSERT INTO destinations
	           (name, slug, area_geojson, center_geojson, center_lat, center_lng,
	            description, images, videos, base_price, altitude, created_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		in.Name, in.Slug, areaJSON, centerJSON, in.CenterLat, in.CenterLng,
		in.Description, images, videos, in.BasePrice, in.Altitude, in.CreatedBy)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// List returns all destinations ordered by id.
func (r *DestinationRepo) List(ctx context.Context) ([]*model.Destination, error) {
	q := "SELECT " + viewColumns + " FROM vw_destinations_public ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one destination from the public view.  It returns
// ErrDestinationNotFound when no row matches.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (*model.Destination, error) {
	q := "SELECT " + viewColumns + " FROM vw_destinations_public WHERE id = ?"
	d, err := scanDestination(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return d, nil
}

// GetBySlug fetches one destination by its slug.
func (r *DestinationRepo) GetBySlug(ctx context.Context, slug string) (*model.Destination, error) {
	q := "SELECT " + viewColumns + " FROM vw_destinations_public WHERE slug = ?"
	d, err := scanDestination(r.db.QueryRowContext(ctx, q, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return d, nil
}

// Update applies a partial update.  The existence check runs first and the
// row is not touched when the id is unknown.  Only non-nil fields appear in
// the SET clause, so omitted fields keep their stored value.
func (r *DestinationRepo) Update(ctx context.Context, id uint64, up DestinationUpdate) (*model.Destination, error) {
	if err := r.exists(ctx, id); err != nil {
		return nil, err
	}

	set := make([]string, 0, 11)
	args := make([]any, 0, 12)
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if up.Name != nil {
		add("name", *up.Name)
	}
	if up.Slug != nil {
		add("slug", *up.Slug)
	}
	if up.Area != nil {
		areaJSON, err := encodeGeom(up.Area)
		if err != nil {
			return nil, fmt.Errorf("encode area: %w", err)
		}
		add("area_geojson", areaJSON)
	}
	if up.Center != nil {
		centerJSON, err := encodeGeom(up.Center)
		if err != nil {
			return nil, fmt.Errorf("encode center: %w", err)
		}
		add("center_geojson", centerJSON)
	}
	if up.CenterLat != nil {
		add("center_lat", *up.CenterLat)
	}
	if up.CenterLng != nil {
		add("center_lng", *up.CenterLng)
	}
	if up.Description != nil {
		add("description", *up.Description)
	}
	if up.Images != nil {
		images, err := encodeList(up.Images)
		if err != nil {
			return nil, err
		}
		add("images", images)
	}
	if up.Videos != nil {
		videos, err := encodeList(up.Videos)
		if err != nil {
			return nil, err
		}
		add("videos", videos)
	}
	if up.BasePrice != nil {
		add("base_price", *up.BasePrice)
	}
	if up.Altitude != nil {
		add("altitude", *up.Altitude)
	}

	if len(set) > 0 {
		q := "UPDATE destinations SET " + strings.Join(set, ", ") + ", updated_at = NOW() WHERE id = ?"
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a destination by id after confirming it exists.
func (r *DestinationRepo) Delete(ctx context.Context, id uint64) error {
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM destinations WHERE id = ?", id)
	return err
}

// exists confirms a base-table row is present before a mutation.
func (r *DestinationRepo) exists(ctx context.Context, id uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM destinations WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDestinationNotFound
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDestination reads one view row.  Geometry columns are decoded
// best-effort: a NULL or malformed column leaves the structured field nil
// and the caller falls back to the bare centre coordinates, which are
// always present.
func scanDestination(row rowScanner) (*model.Destination, error) {
	var (
		d         model.Destination
		areaRaw    sql.NullString
		centerRaw  sql.NullString
		desc       sql.NullString
		imagesRaw  sql.NullString
		videosRaw  sql.NullString
		basePrice  sql.NullFloat64
		altitude   sql.NullFloat64
		createdBy  sql.NullString
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Slug, &areaRaw, &centerRaw,
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
	return &d, nil
}

// encodeGeom serializes an optional geometry for storage; nil stays NULL.
func encodeGeom(g any) (any, error) {
	switch v := g.(type) {
	case nil:
		return nil, nil
	case *model.Polygon:
		if v == nil {
			return nil, nil
		}
		b, err := json.Marshal(v)
		return string(b), err
	case *model.Point:
		if v == nil {
			return nil, nil
		}
		b, err := json.Marshal(v)
		return string(b), err
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
}

// encodeList serializes a string list for a JSON column; nil stays NULL.
func encodeList(ss []string) (any, error) {
	if ss == nil {
		return nil, nil
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
