package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrNotAccessToken = errors.New("access token required")

// Claims represents JWT claims structure (phát hành bởi auth service của bookstore)
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// Manager chỉ verify token, reporting không phát hành token
type Manager struct {
	secret []byte
	issuer string
	leeway time.Duration
}

type Option func(*Manager)

// WithIssuer bắt buộc claim iss khớp (rỗng = bỏ qua)
func WithIssuer(issuer string) Option {
	return func(m *Manager) { m.issuer = issuer }
}

// WithLeeway cho phép lệch đồng hồ khi kiểm tra exp/nbf
func WithLeeway(d time.Duration) Option {
	return func(m *Manager) { m.leeway = d }
}

func NewManager(secret string, opts ...Option) *Manager {
	m := &Manager{secret: []byte(secret)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(m.leeway))
	}
	return opts
}

// ValidateToken parses a token and checks signature, expiry and issuer.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, m.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken is ValidateToken plus the access-type check.
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrNotAccessToken
	}
	return claims, nil
}
