package middleware

import (
	"context"
	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/otel"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/transport/http/render"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SessionMiddleware gates the HTML surface. SessionLoader runs on every
// request and only attaches identity; the Require* wrappers enforce it.
type SessionMiddleware interface {
	SessionLoader(next http.Handler) http.Handler
	RequireUser(next http.Handler) http.Handler
	RequireOrganization(next http.Handler) http.Handler
}

type sessionMiddleware struct {
	session  jwt.Session
	otel     otel.Otel
	cfg      *config.Config
	renderer *render.Renderer
}

func NewSessionMiddleware(session jwt.Session, otel otel.Otel, cfg *config.Config, renderer *render.Renderer) SessionMiddleware {
	return &sessionMiddleware{
		session:  session,
		otel:     otel,
		cfg:      cfg,
		renderer: renderer,
	}
}

// SessionLoader validates the session cookie when present and stores the
// identity in the request context. Invalid or expired cookies are treated as
// anonymous; pages decide themselves whether a session is mandatory.
func (m *sessionMiddleware) SessionLoader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "session.middleware")
		defer scope.End()

		cookie, err := r.Cookie(constant.SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)

			return
		}

		claims, err := m.session.Validate(cookie.Value)
		if err != nil {
			log.Debug().Err(err).Msg("rejected session cookie")
			scope.TraceError(err)
			next.ServeHTTP(w, r)

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserKind, claims.Kind)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser redirects anonymous requests to the sign-in page.
func (m *sessionMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) <= 0 {
			http.Redirect(w, r, "/login/", http.StatusFound)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireOrganization additionally requires the organization account kind.
// Individuals get the access-denied status, not a redirect, so the response
// never hints that the page exists for someone else.
func (m *sessionMiddleware) RequireOrganization(next http.Handler) http.Handler {
	return m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, _ := r.Context().Value(constant.ContextKeyUserKind).(string)
		if kind != constant.UserKindOrganization {
			m.renderer.Error(w, r, failure.ErrAccessDenied)

			return
		}

		next.ServeHTTP(w, r)
	}))
}

// UserID returns the signed-in user id, or zero for anonymous requests.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(constant.ContextKeyUserID).(int64)

	return id
}

// UserKind returns the signed-in account kind, or empty for anonymous requests.
func UserKind(ctx context.Context) string {
	kind, _ := ctx.Value(constant.ContextKeyUserKind).(string)

	return kind
}
