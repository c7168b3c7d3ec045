// Package supabase is a thin client for the hosted auth provider.  All
// credential handling is delegated here: this service never stores or
// verifies a password itself.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrAlreadyRegistered is reported by SignUp when the provider already has
// an account for the email.  Callers fall back to a password login.
var ErrAlreadyRegistered = errors.New("email already registered")

// ErrUnauthorized is returned for failed credential or token checks.
var ErrUnauthorized = errors.New("unauthorized")

// AuthUser is the provider's user object, reduced to the fields this
// service consumes.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Session is the provider's token response for a password grant.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// Client talks to the provider's auth API.  Every call is bounded by a 10
// second timeout; the provider is a hard dependency of the auth endpoints
// and a hung call should fail fast.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient builds a Client for the given project URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SignUp creates an account with the provider.  An existing account is
// reported as ErrAlreadyRegistered so the caller can decide to log in
// instead.
func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthUser, error) {
	body, status, err := c.post(ctx, "/auth/v1/signup", c.apiKey, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		if isAlreadyRegistered(status, body) {
			return nil, ErrAlreadyRegistered
		}
		return nil, providerError("signup", status, body)
	}
	var u AuthUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("signup response: %w", err)
	}
	return &u, nil
}

// SignIn performs the password grant.  Any provider rejection surfaces as
// ErrUnauthorized.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, status, err := c.post(ctx, "/auth/v1/token?grant_type=password", c.apiKey, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, providerMessage(body))
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("token response: %w", err)
	}
	return &s, nil
}

// GetUser introspects an access token by asking the provider for the user
// it belongs to.  An invalid or expired token yields ErrUnauthorized.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, providerMessage(body))
	}
	var u AuthUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("user response: %w", err)
	}
	return &u, nil
}

// SignOut invalidates the session behind an access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: logout rejected (status %d)", ErrUnauthorized, resp.StatusCode)
	}
	return nil
}

// post sends a JSON body and returns the raw response plus status.
func (c *Client) post(ctx context.Context, path, bearer string, payload any) ([]byte, int, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, bearer)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request, bearer string) {
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}

// isAlreadyRegistered matches the provider's duplicate-account responses.
func isAlreadyRegistered(status int, body []byte) bool {
	if status != http.StatusBadRequest && status != http.StatusUnprocessableEntity {
		return false
	}
	msg := strings.ToLower(string(body))
	return strings.Contains(msg, "already registered") || strings.Contains(msg, "user_already_exists")
}

// providerMessage digs the human-readable message out of a provider error
// body, falling back to the raw body.
func providerMessage(body []byte) string {
	var e struct {
		Msg       string `json:"msg"`
		Message   string `json:"message"`
		ErrorDesc string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Msg != "":
			return e.Msg
		case e.Message != "":
			return e.Message
		case e.ErrorDesc != "":
			return e.ErrorDesc
		}
	}
	return strings.TrimSpace(string(body))
}

func providerError(op string, status int, body []byte) error {
	return fmt.Errorf("%s: status %d: %s", op, status, providerMessage(body))
}
