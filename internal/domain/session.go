package domain

import (
	"strings"
	"time"
	"unicode"
)

// User is the authenticated identity returned by the API.
type User struct {
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Role      string    `json:"role" yaml:"role"`
	Avatar    string    `json:"avatar" yaml:"avatar"` // Initials
}

// Session is the current identity plus its bearer credential.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// IsValid returns true if the session carries a token.
func (s *Session) IsValid() bool {
	return s != nil && s.Token != ""
}

// Credentials is the login input.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the credentials before any network call.
func (c Credentials) Validate() error {
	return validationError(validate.Struct(c))
}

// Registration is the sign-up input.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks the registration before any network call.
func (r Registration) Validate() error {
	return validationError(validate.Struct(r))
}

// Initials returns up to two uppercase initials for a display name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= 2 {
			break
		}
	}
	out := []rune(b.String())
	if len(out) > 2 {
		out = out[:2]
	}
	return string(out)
}

// Theme is the persisted UI theme flag.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// IsValid returns true for a known theme.
func (t Theme) IsValid() bool {
	return t == ThemeDark || t == ThemeLight
}
