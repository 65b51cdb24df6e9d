package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie = "admin_session"
	TokenDuration = 24 * time.Hour
	adminSubject  = "admin"
)

// GenerateToken signs an admin session valid for TokenDuration.
func (a *AdminAuth) GenerateToken() (string, time.Time, error) {
	expires := a.now().Add(TokenDuration)
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"exp": expires.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	return signed, expires, err
}

func (a *AdminAuth) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}

// verifySession checks a session token. A token past half of its lifetime
// yields a renewed cookie, so an active admin is never logged out.
func (a *AdminAuth) verifySession(tokenString string) (bool, *http.Cookie) {
	if a.cfg.JWTSecret == "" {
		return false, nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(a.now), jwt.WithSubject(adminSubject), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return false, nil
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, nil
	}
	if exp.Sub(a.now()) >= TokenDuration/2 {
		return true, nil
	}

	renewed, expires, err := a.GenerateToken()
	if err != nil {
		return true, nil
	}
	return true, a.sessionCookie(renewed, expires)
}
