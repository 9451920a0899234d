package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docusafe/internal/model"
)

var secret = []byte("test-secret")

func TestToken_RoundTrip(t *testing.T) {
	tok, err := GenerateToken(secret, time.Hour, "1", "sess-1", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "admin", claims.Role)
}

func TestToken_Rejected(t *testing.T) {
	expired, err := GenerateToken(secret, -time.Minute, "1", "sess-1", "admin")
	require.NoError(t, err)

	otherKey, err := GenerateToken([]byte("other"), time.Hour, "1", "sess-1", "admin")
	require.NoError(t, err)

	noSession, err := GenerateToken(secret, time.Hour, "1", "", "admin")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionID: "s"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"no session":  noSession,
		"alg none":    none,
		"not a token": "abc.def",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken(secret, tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, IsHashed(hash))
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong"))

	// plaintext from a legacy backup
	assert.True(t, CheckPassword("password123", "password123"))
	assert.False(t, CheckPassword("password123", "password12"))
	assert.False(t, CheckPassword("", ""))
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		role model.Role
		cap  Capability
		want bool
	}{
		{model.RoleViewer, CapDocumentsRead, true},
		{model.RoleViewer, CapDocumentsUpload, false},
		{model.RoleDataEntryOperator, CapDocumentsUpload, true},
		{model.RoleDataEntryOperator, CapDocumentsDelete, false},
		{model.RoleDataEntryOperator, CapUsersManage, false},
		{model.RoleAdmin, CapDocumentsDelete, true},
		{model.RoleAdmin, CapBackupManage, true},
		{model.RoleAdmin, CapLogsManage, true},
		{model.RoleDataEntryOperator, CapLogsManage, false},
		{model.RoleViewer, CapLogsManage, false},
		{model.RoleAdmin, Capability("unknown"), false},
		{model.Role("guest"), CapDocumentsRead, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.role, tt.cap), "%s %s", tt.role, tt.cap)
	}
}

func TestRolePredicates(t *testing.T) {
	admin := &model.PublicUser{Role: model.RoleAdmin}
	op := &model.PublicUser{Role: model.RoleDataEntryOperator}

	assert.True(t, IsAdmin(admin))
	assert.False(t, IsAdmin(op))
	assert.False(t, IsAdmin(nil))
	assert.True(t, IsDataEntryOperator(op))
	assert.False(t, IsDataEntryOperator(nil))
}
