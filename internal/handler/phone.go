package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/service"
)

// PhoneHandler validates phone-verification tokens minted by the external
// SMS service.
type PhoneHandler struct {
	Verifier *service.PhoneVerifier
}

func NewPhoneHandler(v *service.PhoneVerifier) *PhoneHandler {
	return &PhoneHandler{Verifier: v}
}

type phoneVerifyReq struct {
	Token string `json:"token"`
}

// Verify checks the supplied token and returns the verified phone number.
// An expired token gets its own message so the frontend can restart the
// SMS flow; all other failures answer with a generic invalid-token error.
func (h *PhoneHandler) Verify(c echo.Context) error {
	var req phoneVerifyReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	phone, err := h.Verifier.Verify(strings.TrimSpace(req.Token))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneKeyMissing):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "verification key not configured"})
		case errors.Is(err, service.ErrPhoneTokenExpired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "verification token expired"})
		default:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid verification token"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"phone_number": phone})
}
