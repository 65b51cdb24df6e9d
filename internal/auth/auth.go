// Package auth gates the admin operations behind the shared admin token.
package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/memorial-api/internal/config"
	"github.com/rs/zerolog/log"
)

type AdminAuth struct {
	cfg *config.Config
	now func() time.Time
}

func NewAdminAuth(cfg *config.Config) *AdminAuth {
	return &AdminAuth{cfg: cfg, now: time.Now}
}

func (a *AdminAuth) tokenMatches(candidate string) bool {
	if a.cfg.AdminToken == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.cfg.AdminToken)) == 1
}

// Authorize accepts the admin token as a bearer token or X-API-KEY header,
// or a session cookie issued by HandleLogin. No admin token configured
// means no admin access at all. The returned cookie, when set, renews the
// session.
func (a *AdminAuth) Authorize(authorization, apiKey, cookieHeader string) (bool, *http.Cookie) {
	if a.cfg.AdminToken == "" {
		return false, nil
	}

	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok && a.tokenMatches(token) {
		return true, nil
	}
	if a.tokenMatches(apiKey) {
		return true, nil
	}

	if cookieHeader != "" {
		cookies, err := http.ParseCookie(cookieHeader)
		if err == nil {
			for _, c := range cookies {
				if c.Name == SessionCookie {
					return a.verifySession(c.Value)
				}
			}
		}
	}
	return false, nil
}

// Middleware rejects requests without admin credentials before the
// operation handler runs.
func (a *AdminAuth) Middleware(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		ok, renewed := a.Authorize(ctx.Header("Authorization"), ctx.Header("X-API-KEY"), ctx.Header("Cookie"))
		if !ok {
			log.Warn().Str("path", ctx.URL().Path).Msg("Rejected admin request")
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if renewed != nil {
			ctx.AppendHeader("Set-Cookie", renewed.String())
		}
		next(ctx)
	}
}

type LoginInput struct {
	Body struct {
		Token string `json:"token" doc:"Admin token" minLength:"1"`
	}
}

type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		OK        bool      `json:"ok"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
}

// HandleLogin exchanges the admin token for a session cookie.
func (a *AdminAuth) HandleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if !a.tokenMatches(input.Body.Token) {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	token, expires, err := a.GenerateToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign admin session")
		return nil, huma.Error500InternalServerError("server error")
	}

	res := &LoginOutput{}
	res.SetCookie = *a.sessionCookie(token, expires)
	res.Body.OK = true
	res.Body.ExpiresAt = expires
	return res, nil
}
