package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testPhoneSecret = "shared-phone-secret"

func mintPhoneToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyExtractsPhoneNumber(t *testing.T) {
	v := NewPhoneVerifier(testPhoneSecret, "sms-issuer", "travel-app")
	raw := mintPhoneToken(t, testPhoneSecret, jwt.MapClaims{
		"phone_number": "+41791234567",
		"iss":          "sms-issuer",
		"aud":          "travel-app",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	phone, err := v.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if phone != "+41791234567" {
		t.Fatalf("phone = %q", phone)
	}
}

func TestVerifyExpiredTokenIsDistinct(t *testing.T) {
	v := NewPhoneVerifier(testPhoneSecret, "", "")
	raw := mintPhoneToken(t, testPhoneSecret, jwt.MapClaims{
		"phone_number": "+41791234567",
		"exp":          time.Now().Add(-time.Minute).Unix(),
	})

	_, err := v.Verify(raw)
	if !errors.Is(err, ErrPhoneTokenExpired) {
		t.Fatalf("err = %v, want ErrPhoneTokenExpired", err)
	}
}

func TestVerifyTamperedSignatureIsGenericInvalid(t *testing.T) {
	v := NewPhoneVerifier(testPhoneSecret, "", "")
	raw := mintPhoneToken(t, "wrong-secret", jwt.MapClaims{
		"phone_number": "+41791234567",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(raw)
	if !errors.Is(err, ErrPhoneTokenInvalid) {
		t.Fatalf("err = %v, want ErrPhoneTokenInvalid", err)
	}
	if errors.Is(err, ErrPhoneTokenExpired) {
		t.Fatal("tampered token must not report as expired")
	}
}

func TestVerifyIssuerMismatchIsGenericInvalid(t *testing.T) {
	v := NewPhoneVerifier(testPhoneSecret, "sms-issuer", "")
	raw := mintPhoneToken(t, testPhoneSecret, jwt.MapClaims{
		"phone_number": "+41791234567",
		"iss":          "someone-else",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(raw); !errors.Is(err, ErrPhoneTokenInvalid) {
		t.Fatalf("err = %v, want ErrPhoneTokenInvalid", err)
	}
}

func TestVerifyMissingClaimIsInvalid(t *testing.T) {
	v := NewPhoneVerifier(testPhoneSecret, "", "")
	raw := mintPhoneToken(t, testPhoneSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(raw); !errors.Is(err, ErrPhoneTokenInvalid) {
		t.Fatalf("err = %v, want ErrPhoneTokenInvalid", err)
	}
}

func TestVerifyWithoutSecretFailsBeforeParsing(t *testing.T) {
	v := NewPhoneVerifier("", "", "")
	// Even a syntactically broken token must report the missing key, not a
	// parse failure: no cryptographic check may run without configuration.
	if _, err := v.Verify("not-even-a-jwt"); !errors.Is(err, ErrPhoneKeyMissing) {
		t.Fatalf("err = %v, want ErrPhoneKeyMissing", err)
	}
}
