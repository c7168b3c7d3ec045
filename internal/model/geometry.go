package model

import (
	"encoding/json"
	"fmt"
)

// Point is a GeoJSON Point.  Coordinates are ordered [lng, lat] per the
// GeoJSON convention.
type Point struct {
	Type        string     `json:"type"` // always "Point"
	Coordinates [2]float64 `json:"coordinates"`
}

// Polygon is a GeoJSON Polygon: one outer ring plus optional holes, each
// ring a list of [lng, lat] positions.
type Polygon struct {
	Type        string         `json:"type"` // always "Polygon"
	Coordinates [][][2]float64 `json:"coordinates"`
}

// DecodePoint parses a serialized GeoJSON text column into a Point.  An
// empty input or a geometry of the wrong type yields an error so the
// caller can fall back to bare centre coordinates.
func DecodePoint(raw string) (*Point, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty geometry")
	}
	var p Point
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	if p.Type != "Point" {
		return nil, fmt.Errorf("geometry type %q is not a Point", p.Type)
	}
	return &p, nil
}

// DecodePolygon parses a serialized GeoJSON text column into a Polygon.
func DecodePolygon(raw string) (*Polygon, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty geometry")
	}
	var p Polygon
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	if p.Type != "Polygon" {
		return nil, fmt.Errorf("geometry type %q is not a Polygon", p.Type)
	}
	if len(p.Coordinates) == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}
	return &p, nil
}
