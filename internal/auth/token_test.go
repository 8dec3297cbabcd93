package auth

import (
	"testing"
	"time"

	"github.com/psds-microservice/order-service/internal/model"
	"github.com/stretchr/testify/require"
)

func TestTokens_SignAndVerify(t *testing.T) {
	req := require.New(t)
	tokens := NewTokens("test-secret", time.Hour)

	signed, err := tokens.Sign(42, model.RoleAdmin)
	req.NoError(err)
	req.NotEmpty(signed)

	ident, err := tokens.Verify(signed)
	req.NoError(err)
	req.Equal(uint64(42), ident.UserID)
	req.Equal(model.RoleAdmin, ident.Role)
}

func TestTokens_Verify_WrongSecret(t *testing.T) {
	req := require.New(t)
	signed, err := NewTokens("secret-a", time.Hour).Sign(1, model.RoleCustomer)
	req.NoError(err)

	_, err = NewTokens("secret-b", time.Hour).Verify(signed)
	req.Error(err)
}

func TestTokens_Verify_Expired(t *testing.T) {
	req := require.New(t)
	tokens := NewTokens("test-secret", -time.Minute)

	signed, err := tokens.Sign(1, model.RoleCustomer)
	req.NoError(err)

	_, err = tokens.Verify(signed)
	req.Error(err)
}

func TestTokens_Verify_Garbage(t *testing.T) {
	_, err := NewTokens("test-secret", time.Hour).Verify("not.a.token")
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	req := require.New(t)
	req.Equal("abc", BearerToken("Bearer abc"))
	req.Equal("", BearerToken(""))
	req.Equal("", BearerToken("Bearer"))
	req.Equal("", BearerToken("Bearer "))
	req.Equal("", BearerToken("Basic abc"))
}

func TestHashAndComparePassword(t *testing.T) {
	req := require.New(t)
	hash, err := HashPassword("somepassword123")
	req.NoError(err)
	req.NotEqual("somepassword123", hash)
	req.True(ComparePassword("somepassword123", hash))
	req.False(ComparePassword("wrongpassword1", hash))
}
