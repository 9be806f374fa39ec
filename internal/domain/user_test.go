package domain

import "testing"

func TestValidateUser_Valid(t *testing.T) {
	u := User{Email: "test@example.com", DisplayName: "Test User"}
	if errs := ValidateUser(u); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateUser_MalformedEmail(t *testing.T) {
	u := User{Email: "invalid-email", DisplayName: "Test User"}
	errs := ValidateUser(u)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "email" {
		t.Fatalf("expected error tagged email, got %q", errs[0].Field)
	}
}

func TestValidateUser_EmptyEmail(t *testing.T) {
	u := User{Email: "", DisplayName: "Test User"}
	errs := ValidateUser(u)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "email" {
		t.Fatalf("expected error tagged email, got %q", errs[0].Field)
	}
}

func TestValidateUser_EmptyDisplayName(t *testing.T) {
	u := User{Email: "test@example.com", DisplayName: ""}
	errs := ValidateUser(u)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "display_name" {
		t.Fatalf("expected error tagged display_name, got %q", errs[0].Field)
	}
}

func TestValidateUser_BothInvalid_OrderedErrors(t *testing.T) {
	u := User{Email: "not-an-email", DisplayName: "   "}
	errs := ValidateUser(u)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "email" || errs[1].Field != "display_name" {
		t.Fatalf("expected email then display_name, got %v", errs)
	}
}

func TestValidateUser_LastLoginOptional(t *testing.T) {
	u := User{Email: "test@example.com", DisplayName: "Test User", LastLoginAt: nil}
	if errs := ValidateUser(u); len(errs) != 0 {
		t.Fatalf("expected no errors for absent last login, got %v", errs)
	}
}
