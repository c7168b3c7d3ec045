package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/handler"
)

// RegisterPublic registers the unauthenticated read endpoints.  The
// response cache middleware (a pass-through when Redis is absent) fronts
// them: destination reads repeat heavily and hotel searches are expensive
// third-party calls.
func RegisterPublic(e *echo.Echo, d *handler.DestinationHandler, h *handler.HotelHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	// Destination reads: list plus lookup by id or slug.
	g.GET("/destinations", d.List)
	g.GET("/destinations/:id", d.Get)

	// Hotel proxy.  Both endpoints answer 200 with a possibly empty list;
	// upstream failures are logged server-side, never surfaced.
	g.GET("/hotels/search", h.SearchByGeocode)
	g.GET("/hotels/offers", h.Offers)
}
