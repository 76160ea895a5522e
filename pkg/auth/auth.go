package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/studiopulse/pulse/pkg/config"
)

// Capability names a single permitted operation. Authorization is an
// explicit capability-set check on the request identity, never a role
// string comparison scattered through handlers.
type Capability string

// capabilities understood by the service
const (
	CapNotifyRead    Capability = "notify:read"    // list, mark read, engagement, estimates
	CapNotifyProduce Capability = "notify:produce" // internal producer endpoint
)

// Identity is the resolved caller, attached to the request context once
// by the middleware
type Identity struct {
	UserID string
	caps   map[Capability]struct{}
}

// Can reports whether the identity holds the capability. A token with
// missing or malformed caps resolves to the empty set and can do nothing.
func (id *Identity) Can(c Capability) bool {
	if id == nil {
		return false
	}
	_, ok := id.caps[c]
	return ok
}

// Capabilities returns the capability set as a sorted-input copy
func (id *Identity) Capabilities() []Capability {
	out := make([]Capability, 0, len(id.caps))
	for c := range id.caps {
		out = append(out, c)
	}
	return out
}

// Claims is the JWT payload carrying the user and capability set
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id"`
	Caps   []string `json:"caps"`
}

// Service mints and verifies HS256 tokens
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewService creates an auth service from config
func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
	}
}

// Mint issues a signed token for the user with the given capabilities
func (s *Service) Mint(userID string, caps ...Capability) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	capStrings := make([]string, len(caps))
	for i, c := range caps {
		capStrings[i] = string(c)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
		Caps:   capStrings,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token string and resolves it into an Identity
func (s *Service) Parse(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no user id")
	}

	caps := make(map[Capability]struct{}, len(claims.Caps))
	for _, c := range claims.Caps {
		if c == "" {
			continue
		}
		caps[Capability(c)] = struct{}{}
	}

	return &Identity{UserID: claims.UserID, caps: caps}, nil
}

type contextKey struct{}

// Middleware resolves the bearer token into an Identity once per request
// and stores it in the context. Requests without a valid token get 401.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
			return
		}

		identity, err := s.Parse(tokenString)
		if err != nil {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFrom extracts the resolved identity from the request context
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(*Identity)
	return identity, ok
}

// NewIdentity builds an identity directly, bypassing token parsing,
// for in-process callers and tests
func NewIdentity(userID string, caps ...Capability) *Identity {
	capSet := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		capSet[c] = struct{}{}
	}
	return &Identity{UserID: userID, caps: capSet}
}
