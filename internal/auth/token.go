// Package auth provides password hashing and the stateless session token
// service. Tokens are HS256 JWTs signed with a process-wide shared secret;
// there is no server-side session store, so a token stays valid until it
// expires or the secret is rotated.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

// Claims is the identity/role payload embedded in a session token.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens. The secret and TTL
// are loaded once at startup; the zero value is not usable.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService from the signing secret and the token
// lifetime in minutes.
func NewTokenService(secret string, ttlMin int) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: time.Duration(ttlMin) * time.Minute}
}

// Issue signs a token carrying the username and admin flag plus issued-at and
// expiry timestamps.
func (s *TokenService) Issue(username string, isAdmin bool) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("token signing failed")
	}
	return signed, nil
}

// Verify validates the signature and expiry of a token and returns its claims.
// Any failure surfaces as an Unauthorized error with a distinct message for
// malformed tokens, bad signatures and expired tokens. Claims from a token
// whose signature fails are never returned.
func (s *TokenService) Verify(token string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Strict decoding rejects non-zero unused bits in the final base64url
		// character; without it a token whose last signature byte differs only
		// in those bits decodes to the same signature and verifies.
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, apperr.Unauthorized("malformed token")
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperr.Unauthorized("token expired")
		default:
			return nil, apperr.Unauthorized("invalid token signature")
		}
	}
	if !tok.Valid {
		return nil, apperr.Unauthorized("invalid token")
	}
	return &claims, nil
}
