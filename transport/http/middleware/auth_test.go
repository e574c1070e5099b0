package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/otel/mocks"
	"innkeep/shared/constant"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/render"
)

func newFixture(t *testing.T) (jwt.Session, middleware.SessionMiddleware) {
	cfg := &config.Config{}
	cfg.App.Name = "innkeep-test"
	cfg.Session.Secret = "test-secret"
	cfg.Session.ExpireMin = 60

	renderer, err := render.New()
	require.NoError(t, err)

	session := jwt.New(cfg)

	return session, middleware.NewSessionMiddleware(session, mocks.NewOtel(), cfg, renderer)
}

func sessionCookie(t *testing.T, session jwt.Session, userID int64, kind string) *http.Cookie {
	token, _, err := session.Generate(userID, "user@example.com", kind)
	require.NoError(t, err)

	return &http.Cookie{Name: constant.SessionCookieName, Value: token}
}

func identityEcho(t *testing.T, wantID int64, wantKind string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantID, middleware.UserID(r.Context()))
		assert.Equal(t, wantKind, middleware.UserKind(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionLoader(t *testing.T) {
	t.Run("valid cookie attaches identity", func(t *testing.T) {
		session, m := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(sessionCookie(t, session, 7, constant.UserKindIndividual))

		rec := httptest.NewRecorder()
		m.SessionLoader(identityEcho(t, 7, constant.UserKindIndividual)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing cookie stays anonymous", func(t *testing.T) {
		_, m := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)

		rec := httptest.NewRecorder()
		m.SessionLoader(identityEcho(t, 0, "")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forged cookie stays anonymous", func(t *testing.T) {
		_, m := newFixture(t)

		otherCfg := &config.Config{}
		otherCfg.Session.Secret = "different-secret"
		otherCfg.Session.ExpireMin = 60
		forged := sessionCookie(t, jwt.New(otherCfg), 7, constant.UserKindIndividual)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(forged)

		rec := httptest.NewRecorder()
		m.SessionLoader(identityEcho(t, 0, "")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireUser(t *testing.T) {
	t.Run("anonymous request redirects to sign-in", func(t *testing.T) {
		_, m := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/guests/", nil)

		rec := httptest.NewRecorder()
		m.SessionLoader(m.RequireUser(identityEcho(t, 0, ""))).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
	})

	t.Run("signed-in request passes through", func(t *testing.T) {
		session, m := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/guests/", nil)
		req.AddCookie(sessionCookie(t, session, 7, constant.UserKindIndividual))

		rec := httptest.NewRecorder()
		m.SessionLoader(m.RequireUser(identityEcho(t, 7, constant.UserKindIndividual))).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireOrganization(t *testing.T) {
	t.Run("individual account gets the denied page", func(t *testing.T) {
		session, m := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/organization/dashboard/", nil)
		req.AddCookie(sessionCookie(t, session, 7, constant.UserKindIndividual))

		rec := httptest.NewRecorder()
		m.SessionLoader(m.RequireOrganization(identityEcho(t, 7, constant.UserKindIndividual))).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("organization account passes through", func(t *testing.T) {
		session, m := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/organization/dashboard/", nil)
		req.AddCookie(sessionCookie(t, session, 40, constant.UserKindOrganization))

		rec := httptest.NewRecorder()
		m.SessionLoader(m.RequireOrganization(identityEcho(t, 40, constant.UserKindOrganization))).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous request still redirects", func(t *testing.T) {
		_, m := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/organization/dashboard/", nil)

		rec := httptest.NewRecorder()
		m.SessionLoader(m.RequireOrganization(identityEcho(t, 0, ""))).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
	})
}
