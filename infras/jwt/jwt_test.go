package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/shared/constant"
)

func newSession(secret string) jwt.Session {
	cfg := &config.Config{}
	cfg.App.Name = "innkeep-test"
	cfg.Session.Secret = secret
	cfg.Session.ExpireMin = 60

	return jwt.New(cfg)
}

func TestSession_GenerateAndValidate(t *testing.T) {
	session := newSession("test-secret")

	token, expiresAt, err := session.Generate(7, "ada@example.com", constant.UserKindIndividual)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := session.Validate(token)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, constant.UserKindIndividual, claims.Kind)
	assert.NotEmpty(t, claims.TokenID)
}

func TestSession_RejectsTampering(t *testing.T) {
	session := newSession("test-secret")

	token, _, err := session.Generate(7, "ada@example.com", constant.UserKindIndividual)
	assert.NoError(t, err)

	// A token signed with one secret never validates under another.
	other := newSession("different-secret")

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestSession_RejectsGarbage(t *testing.T) {
	session := newSession("test-secret")

	_, err := session.Validate("not.a.token")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = session.Validate("")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
