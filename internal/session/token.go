package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is where the front service persists the session token for the
// browser session.
const CookieName = "taskflow_session"

type sessionClaims struct {
	jwt.RegisteredClaims
}

// MintToken issues the HS256 token that persists a resolved identity. The
// subject is the member id; nothing else about the member is trusted from the
// token, since Resolve re-fetches the record on every request.
func MintToken(secret []byte, memberID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates a session token and returns the member id it carries.
func ParseToken(secret []byte, tokenStr string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", errors.New("token missing subject")
	}

	return claims.Subject, nil
}
