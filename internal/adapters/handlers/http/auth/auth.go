package auth

import (
	"context"
	"errors"
	"fileshare/internal/adapters/handlers/http/response"
	"fileshare/internal/core/domain"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type contextKey string

const ownerContextKey contextKey = "owner"

// CookieName is the cookie a browser session carries its token in
const CookieName = "token"

// Middleware verifies HS256 bearer tokens and puts the owner id they name in the request context
type Middleware struct {
	secret []byte
	logger *slog.Logger
}

// NewMiddleware creates Middleware
func NewMiddleware(secret string, logger *slog.Logger) *Middleware {
	return &Middleware{secret: []byte(secret), logger: logger}
}

// Required rejects requests without a valid token
func (m *Middleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFrom(r)
		if raw == "" {
			response.Error(w, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated))
			return
		}
		m.serveWithOwner(w, r, raw, next)
	})
}

// Optional lets anonymous requests through. A token that is present must still be valid.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFrom(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		m.serveWithOwner(w, r, raw, next)
	})
}

func (m *Middleware) serveWithOwner(w http.ResponseWriter, r *http.Request, raw string, next http.Handler) {
	owner, err := m.validateToken(raw)
	if err != nil {
		m.logger.Debug("rejected token", "error", err)
		response.Error(w, fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthenticated))
		return
	}
	next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
}

func tokenFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (m *Middleware) validateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrInvalidKey
	}

	subject, ok := mapClaims["sub"].(string)
	if !ok {
		subject, ok = mapClaims["userID"].(string)
	}
	if !ok {
		return uuid.Nil, errors.New("token names no user")
	}

	return uuid.Parse(subject)
}

// WithOwner returns ctx carrying owner
func WithOwner(ctx context.Context, owner uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerContextKey, owner)
}

// OwnerFrom returns the authenticated owner of ctx, if any
func OwnerFrom(ctx context.Context) (uuid.UUID, bool) {
	owner, ok := ctx.Value(ownerContextKey).(uuid.UUID)
	return owner, ok
}

// IssueToken signs a token for owner valid for ttl
func IssueToken(secret string, owner uuid.UUID, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": owner.String(),
		"exp": time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
