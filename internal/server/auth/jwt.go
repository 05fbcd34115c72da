// Package auth issues and verifies the signed access tokens handed out on
// register/login. Tokens are HS256 JWTs keyed by a server-held secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed         = errors.New("malformed token")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrExpired           = errors.New("token expired")
	ErrAlgorithmMismatch = errors.New("token algorithm mismatch")
)

var signingMethod = jwt.SigningMethodHS256

// Claims are the JWT claims carried by an access token. The user id travels
// in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	UserID   string
	UserName string
}

// TokenService signs and verifies access tokens with a single secret.
// It is immutable after construction and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService issuing tokens valid for ttl.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue returns a signed token for subject/username expiring after the
// configured ttl.
func (s *TokenService) Issue(subject, username string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: username,
	}

	tokenString, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the token signature and expiry and returns the identity it
// carries. The returned error is always one of ErrMalformed,
// ErrInvalidSignature, ErrExpired or ErrAlgorithmMismatch.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, classify(err)
	}

	if claims.Subject == "" {
		return Identity{}, ErrMalformed
	}

	return Identity{UserID: claims.Subject, UserName: claims.Username}, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != signingMethod.Alg() {
		return nil, ErrAlgorithmMismatch
	}
	return s.secret, nil
}

// classify maps golang-jwt errors onto the token error set. The keyfunc
// rejection and unknown "alg" values both surface as unverifiable.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrAlgorithmMismatch), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}

// GenerateToken issues a token without a long-lived TokenService.
func GenerateToken(subject, username string, secret []byte, ttl time.Duration) (string, error) {
	s, err := NewTokenService(secret, ttl)
	if err != nil {
		return "", err
	}
	return s.Issue(subject, username)
}
