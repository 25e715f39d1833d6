package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow/internal/model"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	userID := uuid.New()

	issued, err := svc.Issue(userID, model.RoleAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), issued.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)

	p, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: userID, Role: model.RoleAgent}, p)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issued, err := NewJWTService("secret-a", time.Hour).Issue(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateToken(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	issued, err := svc.Issue(uuid.New(), model.RoleManager)
	require.NoError(t, err)

	_, err = svc.ValidateToken(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := svc.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: uuid.NewString(), Role: "admin"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_PrincipalRejectsUnknownRole(t *testing.T) {
	c := &Claims{UserID: uuid.NewString(), Role: "superuser"}
	_, err := c.Principal()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
