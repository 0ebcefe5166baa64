// Package session resolves the authenticated principal of a request.
//
// Tokens are HS256 JWTs issued at login and carried either in the
// citycut_session cookie (browser) or an Authorization: Bearer header (API
// clients). Any failure to verify a token yields an error; callers treat that
// exactly like "no session".
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"citycut/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the session cookie set by POST /login.
const CookieName = "citycut_session"

var (
	ErrNoSession    = errors.New("session: none")
	ErrInvalidToken = errors.New("session: invalid or expired token")
)

// Principal is the identity an action runs as. A nil *Principal means no session.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// Claims are embedded in every session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token for user.
func (m *Manager) Issue(user *model.User) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify parses tokenStr and returns its principal. Tokens with a role outside
// the closed set are rejected.
func (m *Manager) Verify(tokenStr string) (*Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user_id", ErrInvalidToken)
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &Principal{UserID: uid, Email: claims.Email, Role: role}, nil
}

// Oracle resolves the session of a request. It returns (nil, ErrNoSession) when
// the request carries no credentials.
type Oracle interface {
	Session(r *http.Request) (*Principal, error)
}

// TokenOracle reads the session cookie, then the bearer header.
type TokenOracle struct {
	m *Manager
}

func NewTokenOracle(m *Manager) *TokenOracle { return &TokenOracle{m: m} }

func (o *TokenOracle) Session(r *http.Request) (*Principal, error) {
	tok := tokenFromRequest(r)
	if tok == "" {
		return nil, ErrNoSession
	}
	return o.m.Verify(tok)
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
