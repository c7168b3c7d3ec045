package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Phone-verification tokens are HS256 JWTs minted by an external service
// after the user completes an SMS challenge.  This service only checks the
// signature and claims against the shared secret and extracts the phone
// number.

// ErrPhoneKeyMissing is returned when no shared secret is configured.  It
// is raised before any parsing so a misconfigured deployment never appears
// to "validate" tokens.
var ErrPhoneKeyMissing = errors.New("phone verification key not configured")

// ErrPhoneTokenExpired distinguishes an expired token from every other
// validation failure, so the frontend can prompt a re-verification instead
// of showing a generic error.
var ErrPhoneTokenExpired = errors.New("verification token expired")

// ErrPhoneTokenInvalid covers all remaining failures: bad signature,
// malformed token, wrong issuer or audience, missing claim.
var ErrPhoneTokenInvalid = errors.New("invalid verification token")

// PhoneVerifier validates externally issued phone-verification tokens.
type PhoneVerifier struct {
	secret   string
	issuer   string // optional; empty disables the check
	audience string // optional; empty disables the check
}

// NewPhoneVerifier builds a verifier.  An empty secret is allowed at
// construction time; Verify reports it per call.
func NewPhoneVerifier(secret, issuer, audience string) *PhoneVerifier {
	return &PhoneVerifier{secret: secret, issuer: issuer, audience: audience}
}

// Verify checks the token and returns the phone number claim.
func (v *PhoneVerifier) Verify(raw string) (string, error) {
	if v.secret == "" {
		return "", ErrPhoneKeyMissing
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.secret), nil
	}, opts...)
	if err != nil {
		// Expiry gets its own condition; everything else collapses into
		// one invalid-token error with the cause attached.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrPhoneTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrPhoneTokenInvalid, err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrPhoneTokenInvalid
	}
	phone, ok := claims["phone_number"].(string)
	if !ok || phone == "" {
		return "", fmt.Errorf("%w: missing phone_number claim", ErrPhoneTokenInvalid)
	}
	return phone, nil
}
