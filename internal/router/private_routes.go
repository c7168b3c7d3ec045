package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/handler"
)

// RegisterPrivate registers the endpoints requiring a valid session.  The
// auth middleware introspects the Bearer token against the hosted provider
// and injects the user id consumed by the handlers.
func RegisterPrivate(e *echo.Echo, d *handler.DestinationHandler, w *handler.WishlistHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1", auth)

	// Destination writes are restricted to authenticated users; the
	// creator id lands in the audit fields and change events.
	g.POST("/destinations", d.Create)
	g.PATCH("/destinations/:id", d.Update)
	g.DELETE("/destinations/:id", d.Delete)

	// Wishlist is always scoped to the caller.
	g.GET("/wishlist", w.List)
	g.POST("/wishlist", w.Add)
	g.DELETE("/wishlist/:poiID", w.Remove)
}
