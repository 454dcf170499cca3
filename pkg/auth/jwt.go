// Package auth authorizes address-space mutation calls using JWTs,
// adapted from the teacher's pkg/auth/jwt.go (JWTManager issuing and
// validating HS256 tokens carrying a role claim gating graph mutations).
// Here the claim gates the four mutation services instead of graph
// writes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Capability names one of the mutation services a token may be scoped to.
type Capability string

const (
	CapAddNodes         Capability = "add_nodes"
	CapAddReferences    Capability = "add_references"
	CapDeleteNodes      Capability = "delete_nodes"
	CapDeleteReferences Capability = "delete_references"
)

// Claims is the JWT payload a Manager issues and validates.
type Claims struct {
	Subject      string       `json:"sub"`
	Capabilities []Capability `json:"capabilities"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256 tokens scoping callers to a subset
// of the mutation services, mirroring the teacher's JWTManager shape
// (secret key, issuer, configurable TTL).
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager builds a Manager. secret must be non-empty; ttl defaults to
// one hour when zero.
func NewManager(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue mints a token for subject scoped to caps.
func (m *Manager) Issue(subject string, caps ...Capability) (string, error) {
	now := time.Now()
	claims := Claims{
		Subject:      subject,
		Capabilities: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Authorize validates tokenString and confirms it carries the requested
// capability, returning the authenticated subject on success.
func (m *Manager) Authorize(tokenString string, required Capability) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return "", fmt.Errorf("auth: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid token")
	}
	for _, c := range claims.Capabilities {
		if c == required {
			return claims.Subject, nil
		}
	}
	return "", fmt.Errorf("auth: subject %q lacks capability %q", claims.Subject, required)
}
