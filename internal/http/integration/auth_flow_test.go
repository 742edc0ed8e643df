package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/authhub/internal/config"
	httpx "github.com/geocoder89/authhub/internal/http"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the full router against the in-memory store (nil pool).
func newTestRouter() *gin.Engine {
	cfg := config.Config{
		Env:        "test",
		JWTSecret:  "integration-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return httpx.NewRouter(log, cfg, nil, nil, nil)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type sessionResponse struct {
	Data struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Tokens   struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	} `json:"data"`
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter()

	// signup
	w := doJSON(t, r, http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","password":"p1","confirmPassword":"p1"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("signup: got status %d, body=%s", w.Code, w.Body.String())
	}

	var signup sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &signup); err != nil {
		t.Fatalf("signup response did not parse: %v", err)
	}

	if signup.Data.Email != "a@x.com" {
		t.Errorf("signup data.email = %q, want a@x.com", signup.Data.Email)
	}

	if !regexp.MustCompile(`^user[0-9]{1,6}$`).MatchString(signup.Data.Username) {
		t.Errorf("signup username %q does not match user<digits>", signup.Data.Username)
	}

	if signup.Data.Tokens.AccessToken == "" || signup.Data.Tokens.RefreshToken == "" {
		t.Fatal("signup must return both tokens")
	}

	// immediate duplicate signup
	w = doJSON(t, r, http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","password":"p1","confirmPassword":"p1"}`, "")

	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: got status %d, want 409, body=%s", w.Code, w.Body.String())
	}

	// password confirmation mismatch
	w = doJSON(t, r, http.MethodPost, "/auth/signup",
		`{"email":"b@x.com","password":"p1","confirmPassword":"p2"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("mismatch signup: got status %d, want 400", w.Code)
	}

	// bad credentials, both flavours must look identical
	wrongPass := doJSON(t, r, http.MethodPost, "/auth/signin", `{"uid":"a@x.com","password":"bad"}`, "")
	unknown := doJSON(t, r, http.MethodPost, "/auth/signin", `{"uid":"ghost@x.com","password":"p1"}`, "")

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("signin failures: got %d and %d, want 401 for both", wrongPass.Code, unknown.Code)
	}

	if wrongPass.Body.String() != unknown.Body.String() {
		t.Errorf("signin failure bodies differ: %q vs %q", wrongPass.Body.String(), unknown.Body.String())
	}

	// profile from the access token
	w = doJSON(t, r, http.MethodGet, "/auth/profile", "", signup.Data.Tokens.AccessToken)

	if w.Code != http.StatusOK {
		t.Fatalf("profile: got status %d, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), `"a@x.com"`) {
		t.Errorf("profile body %q missing email", w.Body.String())
	}

	// profile without a token
	w = doJSON(t, r, http.MethodGet, "/auth/profile", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated profile: got status %d, want 401", w.Code)
	}

	// signout
	w = doJSON(t, r, http.MethodDelete, "/auth/signout", "", signup.Data.Tokens.AccessToken)

	if w.Code != http.StatusOK {
		t.Fatalf("signout: got status %d, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "Signout successfully") {
		t.Errorf("signout body = %q, want acknowledgement", w.Body.String())
	}

	// a fresh signin re-establishes the session
	w = doJSON(t, r, http.MethodPost, "/auth/signin", `{"uid":"a@x.com","password":"p1"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("signin after signout: got status %d, body=%s", w.Code, w.Body.String())
	}

	var signin sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &signin); err != nil {
		t.Fatalf("signin response did not parse: %v", err)
	}

	if signin.Data.Username != signup.Data.Username {
		t.Errorf("signin username %q, want the one generated at signup %q", signin.Data.Username, signup.Data.Username)
	}
}

func TestSignupRequiresJSONContentType(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		bytes.NewBufferString(`{"email":"a@x.com","password":"p1","confirmPassword":"p1"}`))
	// no Content-Type header

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got status %d, want 415", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/healthz", "/readyz"} {
		w := doJSON(t, r, http.MethodGet, path, "", "")

		if w.Code != http.StatusOK {
			t.Errorf("%s: got status %d, want 200", path, w.Code)
		}
	}
}
