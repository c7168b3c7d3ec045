package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/amadeus"
	"github.com/roamstack/travel-backend/internal/service"
)

// HotelHandler proxies hotel search and offer queries to the third-party
// API through the search service.  The service swallows upstream failures
// into empty results, so these endpoints always answer 200 with a list.
type HotelHandler struct {
	Search *service.HotelSearch
}

func NewHotelHandler(search *service.HotelSearch) *HotelHandler {
	return &HotelHandler{Search: search}
}

// SearchByGeocode handles GET /v1/hotels/search.  Latitude and longitude
// are required; radius, ratings and source are optional filters.
func (h *HotelHandler) SearchByGeocode(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if errLat != nil || errLng != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat/lng required"})
	}

	p := amadeus.GeocodeParams{Lat: lat, Lng: lng, Source: c.QueryParam("source")}
	if r, err := strconv.Atoi(c.QueryParam("radius")); err == nil && r > 0 {
		p.RadiusKM = r
	}
	if ratings := c.QueryParam("ratings"); ratings != "" {
		p.Ratings = strings.Split(ratings, ",")
	}

	suggestions := h.Search.Search(c.Request().Context(), p)
	return c.JSON(http.StatusOK, echo.Map{"data": suggestions})
}

// Offers handles GET /v1/hotels/offers.  A comma-separated hotel id batch
// is required; date, occupancy and pricing filters are optional and passed
// through to the provider.
func (h *HotelHandler) Offers(c echo.Context) error {
	ids := strings.TrimSpace(c.QueryParam("hotel_ids"))
	if ids == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_ids required"})
	}

	p := amadeus.OfferParams{
		HotelIDs:   strings.Split(ids, ","),
		CheckIn:    c.QueryParam("check_in"),
		CheckOut:   c.QueryParam("check_out"),
		PriceRange: c.QueryParam("price_range"),
		Currency:   c.QueryParam("currency"),
		BoardType:  c.QueryParam("board_type"),
	}
	if n, err := strconv.Atoi(c.QueryParam("adults")); err == nil && n > 0 {
		p.Adults = n
	}
	if n, err := strconv.Atoi(c.QueryParam("rooms")); err == nil && n > 0 {
		p.RoomQuantity = n
	}
	if c.QueryParam("best_rate_only") == "true" {
		p.BestRateOnly = true
	}

	offers := h.Search.Offers(c.Request().Context(), p)
	return c.JSON(http.StatusOK, echo.Map{"data": offers})
}
