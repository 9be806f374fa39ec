package service

import (
	"errors"
	"testing"
	"time"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
)

func testJWTService() *JWTService {
	return NewJWTServiceWithStore("secret", 15*time.Minute, time.Hour, NewMemoryRefreshTokenStore())
}

func TestJWTService_GenerateAndParse(t *testing.T) {
	svc := testJWTService()
	user := domain.User{ID: "u1", Email: "a@b.com", DisplayName: "A"}

	pair, err := svc.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected non-empty tokens")
	}

	claims, err := svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@b.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_RefreshRotatesToken(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GeneratePair(domain.User{ID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	newPair, err := svc.RefreshPair(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if newPair.AccessToken == "" {
		t.Fatal("expected new access token")
	}

	// El refresh usado queda revocado.
	if _, err := svc.RefreshPair(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid reusing refresh, got %v", err)
	}
}

func TestJWTService_RevokeRefresh(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GeneratePair(domain.User{ID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if err := svc.RevokeRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.RefreshPair(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid after revoke, got %v", err)
	}
}

func TestJWTService_RejectsRefreshAsAccess(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GeneratePair(domain.User{ID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if _, err := svc.ParseAccessToken(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for refresh-as-access, got %v", err)
	}
}

func TestJWTService_RejectsForeignToken(t *testing.T) {
	svc := testJWTService()
	other := NewJWTServiceWithStore("other-secret", 15*time.Minute, time.Hour, NewMemoryRefreshTokenStore())
	pair, err := other.GeneratePair(domain.User{ID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if _, err := svc.ParseAccessToken(pair.AccessToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for foreign token, got %v", err)
	}
}

func TestJWTService_EmptySecret(t *testing.T) {
	svc := NewJWTService("", 15*time.Minute, time.Hour)
	if _, err := svc.GeneratePair(domain.User{ID: "u1"}); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid with empty secret, got %v", err)
	}
}
