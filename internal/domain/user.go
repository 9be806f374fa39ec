package domain

import (
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FieldError etiqueta un error de validación con el campo que lo produjo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateUser valida un usuario candidato y devuelve la lista ordenada de
// errores por campo: a lo sumo un error para email y uno para display_name.
// LastLoginAt es opcional y no requiere validación adicional.
func ValidateUser(u User) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(u.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email is not a valid address"})
	}

	if strings.TrimSpace(u.DisplayName) == "" {
		errs = append(errs, FieldError{Field: "display_name", Message: "display name is required"})
	}

	return errs
}
