package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/costschef/user-service/pkg/helpers"
)

func newAuthRouter(t *testing.T, jwt *helpers.JWTManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Bearer(jwt), func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, strconv.Itoa(id))
	})
	r.GET("/maybe", BearerOptional(jwt), func(c *gin.Context) {
		if id, ok := UserID(c); ok {
			c.String(http.StatusOK, strconv.Itoa(id))
			return
		}
		c.String(http.StatusOK, "anon")
	})
	return r
}

func getWithAuth(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearer(t *testing.T) {
	jwt := helpers.NewJWTManager("test-token-key", time.Hour)
	r := newAuthRouter(t, jwt)

	token, err := jwt.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "42"},
		{"lowercase scheme", "bearer " + token, http.StatusOK, "42"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getWithAuth(r, "/me", tt.header)
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestBearerRejectsExpiredToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-token-key", -time.Second)
	r := newAuthRouter(t, jwt)

	token, err := jwt.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if w := getWithAuth(r, "/me", "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestBearerOptional(t *testing.T) {
	jwt := helpers.NewJWTManager("test-token-key", time.Hour)
	r := newAuthRouter(t, jwt)

	if w := getWithAuth(r, "/maybe", ""); w.Body.String() != "anon" {
		t.Errorf("no header: body = %q, want anon", w.Body.String())
	}
	// a bad token is ignored, not rejected
	if w := getWithAuth(r, "/maybe", "Bearer junk"); w.Code != http.StatusOK || w.Body.String() != "anon" {
		t.Errorf("bad token: code=%d body=%q, want 200 anon", w.Code, w.Body.String())
	}

	token, err := jwt.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if w := getWithAuth(r, "/maybe", "Bearer "+token); w.Body.String() != "7" {
		t.Errorf("valid token: body = %q, want 7", w.Body.String())
	}
}
