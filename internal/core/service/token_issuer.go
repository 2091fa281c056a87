package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenIssuer signs HS256 session tokens whose subject is the user id.
type TokenIssuer struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(u *domain.User) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"name": u.Name,
		"role": string(u.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
