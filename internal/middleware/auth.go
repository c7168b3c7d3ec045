// Package middleware contains reusable HTTP middleware for the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/supabase"
)

// RequireAuth returns middleware that validates the Bearer token against
// the hosted auth provider and injects the authenticated user into the
// request context.  Token verification is fully delegated: no signature
// checking happens locally.  Handlers read the user via c.Get("user_id")
// and c.Get("auth_user").
func RequireAuth(auth *supabase.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			user, err := auth.GetUser(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", user.ID)
			c.Set("auth_user", user)
			c.Set("access_token", raw)
			return next(c)
		}
	}
}
