package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
	"github.com/StellarBearX/stanlendar-sub003/internal/service"
)

func testGuardRouter(jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthGuard(jwtSvc), func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID})
	})
	return r
}

func TestAuthGuard_AllowsValidAccessToken(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", 15*time.Minute, time.Hour)
	pair, err := jwtSvc.GeneratePair(domain.User{ID: "u1", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	r := testGuardRouter(jwtSvc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Fatalf("expected no redirect, got Location %q", loc)
	}
}

func TestAuthGuard_APIRequestGets401(t *testing.T) {
	r := testGuardRouter(service.NewJWTService("secret", 15*time.Minute, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthGuard_BrowserRequestRedirectsToLogin(t *testing.T) {
	r := testGuardRouter(service.NewJWTService("secret", 15*time.Minute, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
	if body := rec.Body.String(); body != "Redirecting to login..." {
		t.Fatalf("expected redirect placeholder, got %q", body)
	}
}

func TestAuthGuard_RejectsExpiredToken(t *testing.T) {
	issuer := service.NewJWTService("secret", time.Nanosecond, time.Hour)
	pair, err := issuer.GeneratePair(domain.User{ID: "u1", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	r := testGuardRouter(service.NewJWTService("secret", 15*time.Minute, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
