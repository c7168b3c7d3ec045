package model

import "time"

// Destination represents a travel destination curated by the content team.
// It corresponds to a row in the `destinations` table; public reads go
// through the `vw_destinations_public` view which additionally exposes the
// stored geometry as serialized GeoJSON text.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the destination.
//  Slug        – URL-safe unique name.
//  Area        – optional polygon outlining the destination area.
//  Center      – optional point geometry of the centre.
//  CenterLat   – centre latitude, always present even without geometry.
//  CenterLng   – centre longitude, always present even without geometry.
//  Description – free-form descriptive text.
//  Images      – image URLs.
//  Videos      – video URLs.
//  BasePrice   – optional indicative price.
//  Altitude    – optional altitude in metres.
//  CreatedBy   – user ID of the creator.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Destination struct {
	ID          uint64    // destinations.id
	Name        string    // destinations.name
	Slug        string    // destinations.slug
	Area        *Polygon  // decoded from vw_destinations_public.area_geojson (nullable)
	Center      *Point    // decoded from vw_destinations_public.center_geojson (nullable)
	CenterLat   float64   // destinations.center_lat
	CenterLng   float64   // destinations.center_lng
	Description *string   // destinations.description (nullable)
	Images      []string  // destinations.images (JSON column)
	Videos      []string  // destinations.videos (JSON column)
	BasePrice   *float64  // destinations.base_price (nullable)
	Altitude    *float64  // destinations.altitude (nullable)
	CreatedBy   *string   // destinations.created_by (nullable auth user id)
	CreatedAt   time.Time // destinations.created_at
	UpdatedAt   time.Time // destinations.updated_at
}
