// Package service holds the thin business logic sitting between HTTP
// handlers and the external collaborators.
package service

import (
	"context"
	"log"

	"github.com/roamstack/travel-backend/internal/amadeus"
	"github.com/roamstack/travel-backend/internal/model"
)

// TokenSource yields a usable bearer token for the hotel API.
// *amadeus.TokenCache satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// HotelAPI is the subset of the Amadeus client the search service uses.
type HotelAPI interface {
	HotelsByGeocode(ctx context.Context, token string, p amadeus.GeocodeParams) ([]amadeus.GeoHotel, error)
	HotelOffers(ctx context.Context, token string, p amadeus.OfferParams) ([]model.HotelOffer, error)
}

// HotelSearch maps frontend search parameters onto the hotel API and
// reshapes the results.  Failures of any kind (token, network, malformed
// response) produce an empty result instead of an error: the frontend
// renders "no hotels" either way, and the detail is logged server-side.
type HotelSearch struct {
	api     HotelAPI
	tokens  TokenSource
	verbose bool
}

// NewHotelSearch builds the service.
func NewHotelSearch(api HotelAPI, tokens TokenSource, verbose bool) *HotelSearch {
	return &HotelSearch{api: api, tokens: tokens, verbose: verbose}
}

// Search finds hotels around a coordinate and flattens them into
// suggestions.  The returned slice is never nil.
func (s *HotelSearch) Search(ctx context.Context, p amadeus.GeocodeParams) []model.HotelSuggestion {
	tok, err := s.tokens.Token(ctx)
	if err != nil {
		s.logf("hotel search: token unavailable: %v", err)
		return []model.HotelSuggestion{}
	}
	hotels, err := s.api.HotelsByGeocode(ctx, tok, p)
	if err != nil {
		s.logf("hotel search: geocode query failed: %v", err)
		return []model.HotelSuggestion{}
	}

	out := make([]model.HotelSuggestion, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, model.HotelSuggestion{
			HotelID:      h.HotelID,
			Name:         h.Name,
			Distance:     h.Distance.Value,
			DistanceUnit: h.Distance.Unit,
			Lat:          h.GeoCode.Latitude,
			Lng:          h.GeoCode.Longitude,
			CountryCode:  h.Address.CountryCode,
		})
	}
	return out
}

// Offers fetches offer objects for a batch of hotel ids.  The provider
// payload is passed through unmapped.  The returned slice is never nil.
func (s *HotelSearch) Offers(ctx context.Context, p amadeus.OfferParams) []model.HotelOffer {
	if len(p.HotelIDs) == 0 {
		return []model.HotelOffer{}
	}
	tok, err := s.tokens.Token(ctx)
	if err != nil {
		s.logf("hotel offers: token unavailable: %v", err)
		return []model.HotelOffer{}
	}
	offers, err := s.api.HotelOffers(ctx, tok, p)
	if err != nil {
		s.logf("hotel offers: query failed: %v", err)
		return []model.HotelOffer{}
	}
	if offers == nil {
		offers = []model.HotelOffer{}
	}
	return offers
}

func (s *HotelSearch) logf(format string, args ...any) {
	if s.verbose {
		log.Printf(format, args...)
	}
}
