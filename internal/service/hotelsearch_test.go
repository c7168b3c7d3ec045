package service

import (
	"context"
	"errors"
	"testing"

	"github.com/roamstack/travel-backend/internal/amadeus"
	"github.com/roamstack/travel-backend/internal/model"
)

type staticTokens struct {
	tok string
	err error
}

func (s staticTokens) Token(ctx context.Context) (string, error) { return s.tok, s.err }

type fakeHotelAPI struct {
	hotels []amadeus.GeoHotel
	offers []model.HotelOffer
	err    error
}

func (f fakeHotelAPI) HotelsByGeocode(ctx context.Context, token string, p amadeus.GeocodeParams) ([]amadeus.GeoHotel, error) {
	return f.hotels, f.err
}

func (f fakeHotelAPI) HotelOffers(ctx context.Context, token string, p amadeus.OfferParams) ([]model.HotelOffer, error) {
	return f.offers, f.err
}

func TestSearchMapsProviderResults(t *testing.T) {
	h := amadeus.GeoHotel{Name: "Grand Hotel", HotelID: "GH1"}
	h.GeoCode.Latitude = 46.02
	h.GeoCode.Longitude = 7.75
	h.Address.CountryCode = "CH"
	h.Distance.Value = 0.4
	h.Distance.Unit = "KM"

	svc := NewHotelSearch(fakeHotelAPI{hotels: []amadeus.GeoHotel{h}}, staticTokens{tok: "tok"}, false)
	got := svc.Search(context.Background(), amadeus.GeocodeParams{Lat: 46, Lng: 7.7})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	s := got[0]
	if s.HotelID != "GH1" || s.Name != "Grand Hotel" || s.CountryCode != "CH" {
		t.Fatalf("suggestion = %+v", s)
	}
	if s.Lat != 46.02 || s.Lng != 7.75 || s.Distance != 0.4 || s.DistanceUnit != "KM" {
		t.Fatalf("suggestion geo = %+v", s)
	}
}

func TestSearchSwallowsUpstreamFailure(t *testing.T) {
	svc := NewHotelSearch(fakeHotelAPI{err: errors.New("upstream 500")}, staticTokens{tok: "tok"}, false)
	got := svc.Search(context.Background(), amadeus.GeocodeParams{Lat: 1, Lng: 2})
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}

func TestSearchSwallowsTokenFailure(t *testing.T) {
	svc := NewHotelSearch(fakeHotelAPI{}, staticTokens{err: errors.New("auth down")}, false)
	got := svc.Search(context.Background(), amadeus.GeocodeParams{Lat: 1, Lng: 2})
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}

func TestOffersPassThroughRawObjects(t *testing.T) {
	raw := []model.HotelOffer{model.HotelOffer(`{"hotel":{"hotelId":"GH1"}}`)}
	svc := NewHotelSearch(fakeHotelAPI{offers: raw}, staticTokens{tok: "tok"}, false)
	got := svc.Offers(context.Background(), amadeus.OfferParams{HotelIDs: []string{"GH1"}})
	if len(got) != 1 || string(got[0]) != `{"hotel":{"hotelId":"GH1"}}` {
		t.Fatalf("offers = %#v", got)
	}
}

func TestOffersSwallowFailuresAndEmptyBatch(t *testing.T) {
	svc := NewHotelSearch(fakeHotelAPI{err: errors.New("boom")}, staticTokens{tok: "tok"}, false)
	if got := svc.Offers(context.Background(), amadeus.OfferParams{HotelIDs: []string{"A"}}); len(got) != 0 || got == nil {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
	// An empty id batch short-circuits without touching the provider.
	if got := svc.Offers(context.Background(), amadeus.OfferParams{}); len(got) != 0 || got == nil {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}
