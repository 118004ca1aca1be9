// Package auth implements the owner-only access gate for mutating media operations
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

const sessionTokenType = "session"

// Session is the capability proving the caller is the authenticated owner.
// Core operations take it explicitly instead of consulting global state.
type Session struct {
	Subject   string    `json:"subject"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Config holds the owner credentials and session token settings
type Config struct {
	Secret            string
	SessionExpiry     time.Duration
	OwnerEmail        string
	OwnerPasswordHash string
}

// Gate authenticates the single site owner and validates session tokens
type Gate struct {
	secret            string
	sessionExpiry     time.Duration
	ownerEmail        string
	ownerPasswordHash string
	now               func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewGate creates a new auth gate
func NewGate(cfg Config) *Gate {
	return &Gate{
		secret:            cfg.Secret,
		sessionExpiry:     cfg.SessionExpiry,
		ownerEmail:        strings.ToLower(strings.TrimSpace(cfg.OwnerEmail)),
		ownerPasswordHash: cfg.OwnerPasswordHash,
		now:               time.Now,
		revoked:           make(map[string]time.Time),
	}
}

// Login checks the owner credentials and issues a session token
func (g *Gate) Login(email, password string) (string, *Session, error) {
	if strings.ToLower(strings.TrimSpace(email)) != g.ownerEmail {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(g.ownerPasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := g.now()
	session := &Session{
		Subject:   g.ownerEmail,
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(g.sessionExpiry).Truncate(time.Second),
	}

	claims := jwt.MapClaims{
		"sub":  session.Subject,
		"jti":  session.TokenID,
		"exp":  session.ExpiresAt.Unix(),
		"iat":  now.Unix(),
		"type": sessionTokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(g.secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, session, nil
}

// Authorize validates a session token and returns its session
func (g *Gate) Authorize(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.secret), nil
	}, jwt.WithTimeFunc(g.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	if kind, _ := claims["type"].(string); kind != sessionTokenType {
		return nil, fmt.Errorf("%w: token is not a session token", ErrInvalidSession)
	}

	subject, _ := claims["sub"].(string)
	if subject != g.ownerEmail {
		return nil, fmt.Errorf("%w: unknown subject", ErrInvalidSession)
	}

	tokenID, _ := claims["jti"].(string)
	if tokenID == "" || g.isRevoked(tokenID) {
		return nil, ErrInvalidSession
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, ErrInvalidSession
	}

	return &Session{
		Subject:   subject,
		TokenID:   tokenID,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// Logout revokes the session token until it would have expired anyway
func (g *Gate) Logout(tokenString string) error {
	session, err := g.Authorize(tokenString)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.pruneLocked()
	g.revoked[session.TokenID] = session.ExpiresAt
	return nil
}

func (g *Gate) isRevoked(tokenID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.revoked[tokenID]
	return ok
}

// pruneLocked drops revocations of tokens that have expired
func (g *Gate) pruneLocked() {
	now := g.now()
	for id, expiresAt := range g.revoked {
		if now.After(expiresAt) {
			delete(g.revoked, id)
		}
	}
}
