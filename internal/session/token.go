package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec signs and verifies the cookie value. The token only
// carries the session id; all state lives in the store.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

type claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (t *TokenCodec) Mint(sessionID string) (string, error) {
	now := time.Now().UTC()

	c := claims{
		SID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	return token.SignedString(t.secret)
}

func (t *TokenCodec) Verify(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &claims{}, func(tok *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := tok.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})

	if err != nil {
		return "", err
	}

	c, ok := token.Claims.(*claims)

	if !ok || !token.Valid || c.SID == "" {
		return "", errors.New("invalid session token")
	}

	return c.SID, nil
}
