package accounts

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

type jwtIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

// NewJWTIssuer returns a TokenIssuer signing HS256 tokens with the
// given key. The key is a constructor argument; there is no ambient
// secret. A zero ttl issues tokens with no expiry claim.
func NewJWTIssuer(signingKey []byte, ttl time.Duration) TokenIssuer {
	return &jwtIssuer{signingKey: signingKey, ttl: ttl}
}

func (j *jwtIssuer) Issue(subject string) (string, error) {
	claims := jwt.StandardClaims{Issuer: "accounts", Subject: subject}
	if j.ttl > 0 {
		claims.ExpiresAt = time.Now().Add(j.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}
