package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignUpParsesUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("apikey"); got != "key-1" {
			t.Errorf("apikey = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "a@b.ch" {
			t.Errorf("email = %q", body["email"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"uuid-1","email":"a@b.ch"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	u, err := c.SignUp(context.Background(), "a@b.ch", "pw")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.ID != "uuid-1" || u.Email != "a@b.ch" {
		t.Fatalf("user = %+v", u)
	}
}

func TestSignUpDetectsAlreadyRegistered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":400,"msg":"User already registered"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	_, err := c.SignUp(context.Background(), "a@b.ch", "pw")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestSignInRejectionIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	_, err := c.SignIn(context.Background(), "a@b.ch", "bad-pw")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSignInParsesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("grant_type = %q", r.URL.Query().Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer",
			"expires_in":3600,"user":{"id":"uuid-1","email":"a@b.ch"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	s, err := c.SignIn(context.Background(), "a@b.ch", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.AccessToken != "at" || s.User.ID != "uuid-1" || s.ExpiresIn != 3600 {
		t.Fatalf("session = %+v", s)
	}
}

func TestGetUserInvalidTokenIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"invalid JWT"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	if _, err := c.GetUser(context.Background(), "bad-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSignOutAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("authorization = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	if err := c.SignOut(context.Background(), "user-token"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
}
