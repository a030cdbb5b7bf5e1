package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lshigami/Kindred/config"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	identityKey     = "kindred.identity"
	defaultTokenTTL = 7 * 24 * time.Hour
	devSecret       = "kindred-dev-secret-change-me-before-deploying"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UID   uint   `json:"uid"`
	Email string `json:"email"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what handlers see of the signed-in caller.
type Identity struct {
	ProfileID uint
	Email     string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

type RevocationChecker interface {
	IsRevoked(jti string) (bool, error)
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Using an insecure development secret.")
		secret = devSecret
	}
	return &TokenManager{secret: []byte(secret), ttl: defaultTokenTTL, now: time.Now}
}

func (m *TokenManager) Sign(profile *model.Profile) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		UID:   profile.ID,
		Email: profile.Email,
		Admin: profile.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(profile.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (m *TokenManager) Parse(tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == 0 {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// RequireAuth rejects requests without a valid, unrevoked bearer token.
func RequireAuth(tm *TokenManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		claims, err := tm.Parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			log.Debug().Err(err).Msg("RequireAuth: rejected token")
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		isRevoked, err := revoked.IsRevoked(claims.ID)
		if err != nil {
			log.Error().Err(err).Msg("RequireAuth: revocation lookup failed")
			abort(c, http.StatusInternalServerError, "Could not verify session")
			return
		}
		if isRevoked {
			abort(c, http.StatusUnauthorized, "Session has ended, please sign in again")
			return
		}

		id := Identity{ProfileID: claims.UID, Email: claims.Email, IsAdmin: claims.Admin, TokenID: claims.ID}
		if claims.ExpiresAt != nil {
			id.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok || !id.IsAdmin {
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: msg})
}
