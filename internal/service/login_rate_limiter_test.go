package service

import (
	"testing"
	"time"
)

func TestLoginRateLimiter_BlocksAfterMax(t *testing.T) {
	limiter := NewLoginRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("a@b.com") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if limiter.Allow("a@b.com") {
		t.Fatal("fourth attempt should be blocked")
	}
	// Otra clave no comparte ventana.
	if !limiter.Allow("other@b.com") {
		t.Fatal("different key should be allowed")
	}
}

func TestLoginRateLimiter_WindowExpires(t *testing.T) {
	limiter := NewLoginRateLimiter(10*time.Millisecond, 1)

	if !limiter.Allow("a@b.com") {
		t.Fatal("first attempt should be allowed")
	}
	if limiter.Allow("a@b.com") {
		t.Fatal("second attempt inside window should be blocked")
	}
	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("a@b.com") {
		t.Fatal("attempt after window should be allowed")
	}
}
