package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/model"
	"github.com/roamstack/travel-backend/internal/repository"
	"github.com/roamstack/travel-backend/internal/supabase"
)

// AuthHandler bundles dependencies for the auth endpoints.  Credential
// handling is delegated end to end to the hosted provider; the only local
// side effect is the profile row inserted on sign-up.
type AuthHandler struct {
	Auth  *supabase.Client
	Users *repository.UserRepo
}

func NewAuthHandler(auth *supabase.Client, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users}
}

// ----- DTOs -----

type signUpReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type userPart struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
type sessionResp struct {
	User         userPart `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
}

// SignUp delegates account creation to the provider and inserts the local
// profile row.  When the provider reports the email as already registered,
// the handler logs the user in with the same credentials instead of
// failing; clients retrying a sign-up after a dropped response land here
// and still end up with a session.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	user, err := h.Auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, supabase.ErrAlreadyRegistered) {
			sess, err := h.Auth.SignIn(ctx, req.Email, req.Password)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}
			return c.JSON(http.StatusOK, toSessionResp(sess))
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Users.InsertProfile(ctx, model.User{
		ID:       user.ID,
		Email:    user.Email,
		FullName: req.FullName,
	}); err != nil {
		// The provider account exists either way; surface the store
		// failure as a bad request with the upstream message attached.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "profile insert failed: " + err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{"user": userPart{ID: user.ID, Email: user.Email}})
}

// Login delegates to the provider's password grant.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	sess, err := h.Auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return c.JSON(http.StatusOK, toSessionResp(sess))
}

// Verify introspects the caller's Bearer token and returns the user it
// belongs to.  Absent or rejected tokens are unauthorized.
func (h *AuthHandler) Verify(c echo.Context) error {
	raw, ok := bearerToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	user, err := h.Auth.GetUser(ctx, raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userPart{ID: user.ID, Email: user.Email}})
}

// Logout delegates session invalidation to the provider.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, ok := bearerToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.Auth.SignOut(ctx, raw); err != nil {
		log.Printf("auth: logout failed: %v", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "logout rejected"})
	}
	return c.NoContent(http.StatusNoContent)
}

func toSessionResp(s *supabase.Session) sessionResp {
	return sessionResp{
		User:         userPart{ID: s.User.ID, Email: s.User.Email},
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
	}
}

// bearerToken extracts the raw Bearer token from the Authorization header.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	return raw, raw != ""
}
