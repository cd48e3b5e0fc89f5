package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: malformed input, bad
// signature, wrong token type and expiry all look the same to callers.
var ErrInvalidToken = errors.New("invalid or expired token")

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenIssuer      = "vitaltrack"
)

// Identity is the subject carried in both token kinds.
type Identity struct {
	SubjectID string
	Email     string
	Roles     []string
}

// TokenPair is the result of issuing credentials for an identity.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// TokenService issues and verifies access and refresh tokens.
type TokenService interface {
	Issue(identity Identity) (TokenPair, error)
	VerifyAccess(token string) (Identity, error)
	VerifyRefresh(token string) (Identity, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// TokenConfig holds the signing secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// TokenOption customizes a token service.
type TokenOption func(*tokenService)

// WithClock replaces the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *tokenService) {
		s.now = now
	}
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	Type  string   `json:"typ"`
	jwt.RegisteredClaims
}

type tokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
	parser        *jwt.Parser
}

// NewTokenService creates a token service. Non-positive lifetimes fall back
// to 15 minutes for access and 7 days for refresh tokens.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) TokenService {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		panic("JWT secrets cannot be empty") // Critical configuration
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	s := &tokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
		// Expiry is checked against the injected clock below, not jwt.TimeFunc.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *tokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *tokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue signs a fresh access/refresh pair. Each token gets a unique ID, so
// two pairs issued within the same second still differ.
func (s *tokenService) Issue(identity Identity) (TokenPair, error) {
	issuedAt := s.now()

	access, accessExp, err := s.sign(identity, tokenTypeAccess, s.accessSecret, issuedAt, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.sign(identity, tokenTypeRefresh, s.refreshSecret, issuedAt, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *tokenService) sign(identity Identity, tokenType string, secret []byte, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := issuedAt.Add(ttl)
	claims := &jwtClaims{
		Email: identity.Email,
		Roles: identity.Roles,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.SubjectID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *tokenService) VerifyAccess(token string) (Identity, error) {
	return s.verify(token, tokenTypeAccess, s.accessSecret)
}

func (s *tokenService) VerifyRefresh(token string) (Identity, error) {
	return s.verify(token, tokenTypeRefresh, s.refreshSecret)
}

func (s *tokenService) verify(token, tokenType string, secret []byte) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &jwtClaims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	if claims.Type != tokenType || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(s.now(), true) {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Roles:     claims.Roles,
	}, nil
}
