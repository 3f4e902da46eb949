package accounts

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func TestJWTIssuer_BindsSubject(t *testing.T) {
	key := []byte("test-signing-key")
	issuer := NewJWTIssuer(key, time.Hour)

	tokenString, err := issuer.Issue("subject-id")
	assert.NoError(t, err)

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})

	assert.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "accounts", claims.Issuer)
	assert.Equal(t, "subject-id", claims.Subject)
	assert.True(t, claims.ExpiresAt > time.Now().Unix())
}

func TestJWTIssuer_ZeroTTLOmitsExpiry(t *testing.T) {
	key := []byte("test-signing-key")
	issuer := NewJWTIssuer(key, 0)

	tokenString, err := issuer.Issue("subject-id")
	assert.NoError(t, err)

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})

	assert.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, int64(0), claims.ExpiresAt)
}

func TestJWTIssuer_RejectedUnderDifferentKey(t *testing.T) {
	issuer := NewJWTIssuer([]byte("one key"), time.Hour)

	tokenString, err := issuer.Issue("subject-id")
	assert.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("another key"), nil
	})

	assert.Error(t, err)
}
