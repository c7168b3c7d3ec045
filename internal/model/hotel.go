package model

import "encoding/json"

// HotelSuggestion is one hotel from a geocode search, flattened from the
// third-party response.  Suggestions are derived per call and never
// persisted.
type HotelSuggestion struct {
	HotelID      string  `json:"hotel_id"`
	Name         string  `json:"name"`
	Distance     float64 `json:"distance"`
	DistanceUnit string  `json:"distance_unit"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	CountryCode  string  `json:"country_code"`
}

// HotelOffer is a single offer object from the multi-hotel offer search.
// The provider's payload is passed through unmapped; callers receive the
// raw JSON object.
type HotelOffer = json.RawMessage
