package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/repository"
	"github.com/roamstack/travel-backend/internal/supabase"
)

// fakeProvider is an httptest stand-in for the hosted auth API.  signupStatus
// and signupBody control the /signup answer; the password grant always
// succeeds.
func fakeProvider(t *testing.T, signupStatus int, signupBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/auth/v1/signup":
			w.WriteHeader(signupStatus)
			w.Write([]byte(signupBody))
		case r.URL.Path == "/auth/v1/token":
			w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer",
				"expires_in":3600,"user":{"id":"uuid-1","email":"a@b.ch"}}`))
		default:
			t.Errorf("unexpected provider call: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSignUpInsertsProfileRow(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{"id":"uuid-1","email":"a@b.ch"}`)
	defer srv.Close()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectExec(`(?s)INSERT INTO users.*ON DUPLICATE KEY UPDATE`).
		WithArgs("uuid-1", "a@b.ch", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := NewAuthHandler(supabase.NewClient(srv.URL, "key"), repository.NewUserRepo(db))
	c, rec := postJSON(echo.New(), "/v1/auth/signup", `{"email":"A@b.ch","password":"pw"}`)

	if err := h.SignUp(c); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSignUpFallsBackToLoginWhenAlreadyRegistered(t *testing.T) {
	srv := fakeProvider(t, http.StatusBadRequest, `{"code":400,"msg":"User already registered"}`)
	defer srv.Close()

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	h := NewAuthHandler(supabase.NewClient(srv.URL, "key"), repository.NewUserRepo(db))
	c, rec := postJSON(echo.New(), "/v1/auth/signup", `{"email":"a@b.ch","password":"pw"}`)

	if err := h.SignUp(c); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	// The duplicate sign-up resolves into a login: 200 with a session, no
	// error and no profile insert.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "at" || resp.User.ID != "uuid-1" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestSignUpRequiresCredentials(t *testing.T) {
	h := NewAuthHandler(supabase.NewClient("http://unused", "key"), nil)
	c, rec := postJSON(echo.New(), "/v1/auth/signup", `{"email":"","password":""}`)

	if err := h.SignUp(c); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
