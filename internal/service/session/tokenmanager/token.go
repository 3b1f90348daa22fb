package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stravamcp/internal/models"
)

const defaultSigningMethod = "HS256"

type BearerClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Token manager with sensible defaults
type Config struct {
	// Secret key to sign session bearers
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Bearer lifetime, matches the session TTL when not set
	BearerTTL time.Duration
}

type TokenManager struct {
	key       string
	alg       jwt.SigningMethod
	bearerTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.BearerTTL == 0 {
		cfg.BearerTTL = models.DefaultSessionTTL
	}

	return &TokenManager{
		key:       cfg.SecretKey,
		alg:       jwt.GetSigningMethod(cfg.Alg),
		bearerTTL: cfg.BearerTTL,
	}, nil
}

// IssueBearer signs a JWT bound to the session id
func (m *TokenManager) IssueBearer(sessionID string) (string, time.Time, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.bearerTTL)

	token := jwt.NewWithClaims(
		m.alg,
		BearerClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			SessionID: sessionID,
		},
	)
	bearer, err := token.SignedString([]byte(m.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error while signing session bearer. Err: %w", err)
	}

	return bearer, expiresAt, nil
}

// Parse and validate session bearer
func (m *TokenManager) ParseBearer(bearer string) (sessionID string, err error) {
	claims := &BearerClaims{}

	_, err = jwt.ParseWithClaims(
		bearer,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(m.key), nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("error while parsing or validating bearer. Err: %w", err)
	}
	if claims.SessionID == "" {
		return "", errors.New("bearer has no session bound")
	}

	return claims.SessionID, nil
}
