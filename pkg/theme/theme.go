// Package theme keeps the light/dark preference of a browser session in a cookie.
package theme

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

const (
	CookieName   = "theme"
	cookieMaxAge = 365 * 24 * time.Hour
)

var ErrUnknownTheme = errors.New("unknown theme")

func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unable to parse %q: %w", s, ErrUnknownTheme)
	}
}

func (t Theme) IsDark() bool { return t == Dark }

func (t Theme) Toggle() Theme {
	if t.IsDark() {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// FromRequest reads the theme cookie. Missing or garbled cookies yield Light.
func FromRequest(r *http.Request) Theme {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Light
	}
	t, err := Parse(c.Value)
	if err != nil {
		return Light
	}
	return t
}

func Set(w http.ResponseWriter, t Theme) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(t),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
