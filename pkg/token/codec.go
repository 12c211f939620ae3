package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Claims is the fixed session payload carried in the cookie.
// Expires mirrors the transport-level exp claim as RFC3339 so the
// business expiry and the signature expiry stay consistent.
type Claims struct {
	UserID  string `json:"uid"`
	Expires string `json:"expires"`
	jwt.RegisteredClaims
}

// Codec signs and verifies stateless session tokens with a single
// symmetric secret (HS256). The token itself is the session of record;
// no server-side lookup table exists.
type Codec struct {
	secret []byte
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCodec(secret string, ttl time.Duration, logger *logrus.Logger) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, logger: logger}
}

// TTL returns the configured session lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign issues a token for userID expiring ttl from now.
func (c *Codec) Sign(userID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(c.ttl)
	claims := &Claims{
		UserID:  userID,
		Expires: exp.UTC().Format(time.RFC3339),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(c.secret)
	return s, exp, err
}

// Verify fails closed: a malformed token, wrong signature, expired exp,
// or a payload without a user ID all yield nil. It never panics and
// never surfaces the parse error to the caller.
func (c *Codec) Verify(tokenStr string) *Claims {
	if tokenStr == "" {
		return nil
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		if err != nil && c.logger != nil {
			c.logger.WithError(err).Debug("session token rejected")
		}
		return nil
	}
	if claims.UserID == "" {
		if c.logger != nil {
			c.logger.Debug("session token missing user id")
		}
		return nil
	}
	return claims
}
