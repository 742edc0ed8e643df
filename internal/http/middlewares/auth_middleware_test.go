package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/authhub/internal/auth"
	"github.com/geocoder89/authhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGuardedRouter(m *auth.Manager) *gin.Engine {
	r := gin.New()

	guard := middlewares.NewAuthMiddleware(m)

	r.GET("/protected", guard.RequireAuth(), func(c *gin.Context) {
		claims, ok := middlewares.ClaimsFromContext(c)

		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "claims missing"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"subject": claims.Subject})
	})

	return r
}

func TestRequireAuthRejections(t *testing.T) {
	m := auth.NewManager("guard-secret", 15*time.Minute, 7*24*time.Hour)
	other := auth.NewManager("other-secret", 15*time.Minute, 7*24*time.Hour)

	wrongSig, err := other.Issue(auth.NewClaims("u1", "", "user1", "u1@x.com"), 15*time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	expired, err := m.Issue(auth.NewClaims("u1", "", "user1", "u1@x.com"), -1*time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing_header", header: ""},
		{name: "wrong_scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "bearer_without_token", header: "Bearer "},
		{name: "wrong_signature", header: "Bearer " + wrongSig},
		{name: "expired_token", header: "Bearer " + expired},
		{name: "garbage_token", header: "Bearer not.a.token"},
	}

	r := newGuardedRouter(m)

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401, body=%s", w.Code, w.Body.String())
			}

			// every rejection must look the same to the caller
			if !strings.Contains(w.Body.String(), "Invalid access token") {
				t.Errorf("body %q should carry the generic message", w.Body.String())
			}
		})
	}
}

func TestRequireAuthSuccessAttachesClaims(t *testing.T) {
	m := auth.NewManager("guard-secret", 15*time.Minute, 7*24*time.Hour)

	token, err := m.Issue(auth.NewClaims("user-id-9", "Jane", "user9", "jane@x.com"), 15*time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	r := newGuardedRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "user-id-9") {
		t.Errorf("handler did not see the decoded subject, body=%s", w.Body.String())
	}
}
