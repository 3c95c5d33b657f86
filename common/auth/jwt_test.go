package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", "eventdesk", "op-1", "ops@example.com", "admin", time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := ValidateToken("secret", "eventdesk", token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	valid, err := GenerateToken("secret", "eventdesk", "op-1", "", "admin", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := GenerateToken("secret", "eventdesk", "op-1", "", "admin", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		issuer string
		token  string
	}{
		{name: "wrong secret", secret: "other", issuer: "eventdesk", token: valid},
		{name: "wrong issuer", secret: "secret", issuer: "someone-else", token: valid},
		{name: "expired", secret: "secret", issuer: "eventdesk", token: expired},
		{name: "garbage", secret: "secret", issuer: "eventdesk", token: "not-a-token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateToken(tc.secret, tc.issuer, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestActor(t *testing.T) {
	assert.Equal(t, "system", Actor(context.Background()))

	ctx := WithClaims(context.Background(), &Claims{OperatorID: "op-1"})
	assert.Equal(t, "op-1", Actor(ctx))

	ctx = WithClaims(context.Background(), &Claims{OperatorID: "op-1", Email: "ops@example.com"})
	assert.Equal(t, "ops@example.com", Actor(ctx))
}
