package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

var sessionID = id.SessionID(uuid.New())

func newService() *Service {
	return New("test-signing-key", "test-issuer", "test-audience")
}

func TestIssueAndValidate(t *testing.T) {
	svc := newService()
	signed, err := svc.Issue(sessionID, "RSSLRT84S20G377O", id.RoleDelegate, time.Now().Add(time.Hour))
	require.NoError(t, err)

	got, err := svc.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)
}

func TestValidate_Rejections(t *testing.T) {
	svc := newService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("invalid-token-string")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		signed, err := svc.Issue(sessionID, "sub", id.RoleDelegate, time.Now().Add(-time.Minute))
		require.NoError(t, err)
		_, err = svc.Validate(signed)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("other signing key", func(t *testing.T) {
		signed, err := New("other-key", "test-issuer", "test-audience").
			Issue(sessionID, "sub", id.RoleDelegate, time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = svc.Validate(signed)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("other audience", func(t *testing.T) {
		signed, err := New("test-signing-key", "test-issuer", "someone-else").
			Issue(sessionID, "sub", id.RoleDelegate, time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = svc.Validate(signed)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        sessionID.String(),
				Issuer:    "test-issuer",
				Audience:  []string{"test-audience"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Validate(unsigned)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("non uuid token id", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "not-a-session",
				Issuer:    "test-issuer",
				Audience:  []string{"test-audience"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte("test-signing-key"))
		require.NoError(t, err)
		_, err = svc.Validate(signed)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
