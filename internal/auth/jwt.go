package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/agromanage/agromanage/internal/types"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Role     types.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret must not be empty")
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

func (i *TokenIssuer) IssueToken(id uint, username string, role types.Role) (string, error) {
	now := i.now()

	claims := Claims{
		ID:       id,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *TokenIssuer) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
