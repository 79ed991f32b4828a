// Package auth provides the token-issuing and credential-verifying
// capabilities that handlers depend on, keeping the signing and hashing
// libraries out of the HTTP layer.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"learnfromus/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any verification failure: missing claims,
// bad signature, malformed input, or expiry. Callers must not distinguish
// causes to the client.
var ErrInvalidToken = errors.New("invalid token")

// TokenTTL is the fixed validity window for issued tokens.
const TokenTTL = 7 * 24 * time.Hour

const tokenIssuer = "learnfromus-api"

// Identity is the acting user embedded in a verified token.
type Identity struct {
	UserID uint
	Email  string
	Name   string
}

// Claims are the JWT claims carried by an issued token. The subject is the
// user ID; email and display name are cached so handlers can echo them
// without a store round trip.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies bearer tokens.
type Issuer interface {
	Issue(user *models.User) (string, error)
	Verify(raw string) (*Identity, error)
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an HS256 JWT issuer with the fixed 7-day TTL.
func NewIssuer(secret string) Issuer {
	return &jwtIssuer{secret: []byte(secret), ttl: TokenTTL}
}

func (i *jwtIssuer) Issue(user *models.User) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Name:  user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *jwtIssuer) Verify(raw string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: uint(userID),
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
