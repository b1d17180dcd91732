package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("test-secret")
	svc.RegisterWalletCredentials("wallet-1", "key", "secret")

	token, err := svc.GenerateToken(Credentials{APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "wallet-1", claims.WalletID)
	assert.Contains(t, claims.Permissions, "trade")
}

func TestGenerateTokenInvalidCredentials(t *testing.T) {
	svc := NewService("test-secret")
	svc.RegisterWalletCredentials("wallet-1", "key", "secret")

	testCases := []struct {
		name  string
		creds Credentials
	}{
		{name: "unknown api key", creds: Credentials{APIKey: "other", APISecret: "secret"}},
		{name: "wrong secret", creds: Credentials{APIKey: "key", APISecret: "wrong"}},
		{name: "empty credentials", creds: Credentials{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GenerateToken(tc.creds)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewService("secret-a")
	issuer.RegisterWalletCredentials("wallet-1", "key", "secret")

	token, err := issuer.GenerateToken(Credentials{APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)

	verifier := NewService("secret-b")
	_, err = verifier.ValidateToken(token.Token)
	assert.Error(t, err)
}

func TestGetWalletID(t *testing.T) {
	assert.Equal(t, "w1", GetWalletID(jwt.MapClaims{"wallet_id": "w1"}))
	assert.Empty(t, GetWalletID(jwt.MapClaims{"wallet_id": 42}))
	assert.Empty(t, GetWalletID(jwt.MapClaims{}))
	assert.Empty(t, GetWalletID(nil))
	assert.Empty(t, GetWalletID("not-claims"))
}
