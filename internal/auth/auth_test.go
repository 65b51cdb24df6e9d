package auth

import (
	"context"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/memorial-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

func testAuth() *AdminAuth {
	return NewAdminAuth(&config.Config{AdminToken: "s3cret", JWTSecret: "test-secret"})
}

func TestAuthorize(t *testing.T) {
	a := testAuth()

	tests := []struct {
		name          string
		authorization string
		apiKey        string
		want          bool
	}{
		{"Bearer", "Bearer s3cret", "", true},
		{"APIKey", "", "s3cret", true},
		{"WrongBearer", "Bearer nope", "", false},
		{"MissingScheme", "s3cret", "", false},
		{"Nothing", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := a.Authorize(tt.authorization, tt.apiKey, "")
			if ok != tt.want {
				t.Errorf("expected %v, got %v", tt.want, ok)
			}
		})
	}

	t.Run("NoAdminTokenConfigured", func(t *testing.T) {
		a := NewAdminAuth(&config.Config{JWTSecret: "test-secret"})
		if ok, _ := a.Authorize("Bearer ", "", ""); ok {
			t.Error("expected empty admin token to deny access")
		}
	})
}

func TestHandleLogin(t *testing.T) {
	a := testAuth()

	t.Run("WrongToken", func(t *testing.T) {
		input := &LoginInput{}
		input.Body.Token = "nope"
		_, err := a.HandleLogin(context.Background(), input)
		se, ok := err.(huma.StatusError)
		if !ok || se.GetStatus() != 401 {
			t.Fatalf("expected 401 status error, got %v", err)
		}
	})

	t.Run("SessionCookieAuthorizes", func(t *testing.T) {
		input := &LoginInput{}
		input.Body.Token = "s3cret"
		resp, err := a.HandleLogin(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleLogin returned error: %v", err)
		}
		if resp.SetCookie.Name != SessionCookie || !resp.SetCookie.HttpOnly {
			t.Fatalf("unexpected cookie %+v", resp.SetCookie)
		}

		ok, renewed := a.Authorize("", "", "theme=dark; "+SessionCookie+"="+resp.SetCookie.Value)
		if !ok {
			t.Error("expected session cookie to authorize")
		}
		if renewed != nil {
			t.Error("did not expect a fresh session to be renewed")
		}
	})
}

func TestSession_Sliding(t *testing.T) {
	a := testAuth()

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	t.Run("TokenRenewed", func(t *testing.T) {
		// Expires in 11 hours, less than TokenDuration/2.
		token := sign(jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(11 * time.Hour).Unix()}, "test-secret")
		ok, renewed := a.Authorize("", "", SessionCookie+"="+token)
		if !ok {
			t.Fatal("expected session to authorize")
		}
		if renewed == nil || renewed.Value == token {
			t.Error("expected a new session token")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		token := sign(jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(13 * time.Hour).Unix()}, "test-secret")
		ok, renewed := a.Authorize("", "", SessionCookie+"="+token)
		if !ok || renewed != nil {
			t.Errorf("expected valid session without renewal, got ok=%v renewed=%v", ok, renewed)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		tokens := map[string]string{
			"Expired":      sign(jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(-time.Minute).Unix()}, "test-secret"),
			"WrongSecret":  sign(jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(time.Hour).Unix()}, "other"),
			"WrongSubject": sign(jwt.MapClaims{"sub": "guest", "exp": time.Now().Add(time.Hour).Unix()}, "test-secret"),
			"NoExpiry":     sign(jwt.MapClaims{"sub": "admin"}, "test-secret"),
			"Garbage":      "not-a-jwt",
		}
		for name, token := range tokens {
			if ok, _ := a.Authorize("", "", SessionCookie+"="+token); ok {
				t.Errorf("%s: expected session to be rejected", name)
			}
		}
	})
}
