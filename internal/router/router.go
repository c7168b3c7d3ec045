package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/handler"
)

// RegisterRoutes registers routes that need no dependencies.  Currently it
// exposes only the health check used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the auth endpoints under /v1/auth.  The rate limiter
// sits only on this group: these routes fan out to the hosted auth
// provider and are the natural target for credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/signup", a.SignUp)
	g.POST("/login", a.Login)
	g.GET("/verify", a.Verify)
	g.POST("/logout", a.Logout)
}

// RegisterPhone wires the phone-verification endpoint.  The token in the
// body is self-authenticating, so no auth middleware applies.
func RegisterPhone(e *echo.Echo, p *handler.PhoneHandler) {
	e.POST("/v1/phone/verify", p.Verify)
}
