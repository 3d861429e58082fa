package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brandon3sican/to-system/config"
)

var (
	ErrTokenExpired = errors.New("session expired")
	ErrTokenInvalid = errors.New("invalid session token")
)

const (
	issuer           = "to-system"
	tokenTypeSession = "session"
)

// Claims session token claims. Only the account id travels in the token;
// the role is read from the database on every request.
type Claims struct {
	UserID     string `json:"user_id"`
	TokenType  string `json:"token_type"`
	RememberMe bool   `json:"remember_me,omitempty"`
	jwtv5.RegisteredClaims
}

// Manager signs and verifies session tokens
type Manager struct {
	secret             []byte
	sessionTTL         time.Duration
	sessionTTLRemember time.Duration
}

// NewManager creates a Manager from the auth config
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:             []byte(cfg.SessionSecret),
		sessionTTL:         cfg.SessionTTL,
		sessionTTLRemember: cfg.SessionTTLRemember,
	}
}

// GenerateSessionToken signs a session token for userID.
// rememberMe selects the longer TTL.
func (m *Manager) GenerateSessionToken(userID string, rememberMe bool) (string, time.Time, error) {
	ttl := m.sessionTTL
	if rememberMe && m.sessionTTLRemember > 0 {
		ttl = m.sessionTTLRemember
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:     userID,
		TokenType:  tokenTypeSession,
		RememberMe: rememberMe,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expiresAt),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, expiry and token type
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenTypeSession {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
