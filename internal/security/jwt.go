// Package security signs and verifies the bearer tokens of the admin API.
package security

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pms-parking/parkwash/internal/models"
)

const issuer = "parkwash"

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("security: jwt secret is not configured")

// Claims identifies the principal behind a token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller.
type Principal struct {
	ID   uint64
	Role models.Role
}

// IssueToken signs an HS256 token for the principal valid for ttl.
func IssueToken(secret string, principal Principal, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrMissingSecret
	}
	if principal.Role == models.RoleUnknown {
		return "", fmt.Errorf("security: unknown role")
	}
	claims := Claims{
		Role: principal.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(principal.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, errSign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if errSign != nil {
		return "", fmt.Errorf("security: sign token: %w", errSign)
	}
	return signed, nil
}

// ParseToken verifies token and returns its principal.
func ParseToken(secret, token string) (Principal, error) {
	if strings.TrimSpace(secret) == "" {
		return Principal{}, ErrMissingSecret
	}
	var claims Claims
	parsed, errParse := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if errParse != nil {
		return Principal{}, fmt.Errorf("security: parse token: %w", errParse)
	}
	if !parsed.Valid {
		return Principal{}, errors.New("security: invalid token")
	}
	id, errID := strconv.ParseUint(claims.Subject, 10, 64)
	if errID != nil || id == 0 {
		return Principal{}, fmt.Errorf("security: invalid subject %q", claims.Subject)
	}
	role, errRole := models.ParseRole(claims.Role)
	if errRole != nil {
		return Principal{}, fmt.Errorf("security: %w", errRole)
	}
	return Principal{ID: id, Role: role}, nil
}
