// Package services contains server-side business logic. UserService
// implements the register and login flows on top of the credential store,
// the password hasher and the token service.
package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/dmitrijs2005/kracker/internal/common"
	"github.com/dmitrijs2005/kracker/internal/cryptox"
	"github.com/dmitrijs2005/kracker/internal/server/auth"
	"github.com/dmitrijs2005/kracker/internal/server/models"
	"github.com/dmitrijs2005/kracker/internal/server/repositories/users"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/semaphore"
)

var (
	ErrWeakInput          = errors.New("weak input")
	ErrMissingFields      = errors.New("missing fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegisterFailed     = errors.New("register failed")
)

const (
	defaultDevSubject  = "dev-sub"
	defaultDevUserName = "dev"

	// dummyPassword is hashed once at startup; login verifies against it when
	// the user does not exist.
	dummyPassword = "kracker-dummy-password"
)

// AuthResult is returned by successful Register and Login calls.
type AuthResult struct {
	ID          string
	UserName    string
	AccessToken string
}

// DevToken is a token minted for arbitrary claims by the development route.
type DevToken struct {
	AccessToken string
	Subject     string
	UserName    string
}

type registerInput struct {
	UserName string `validate:"min=3"`
	Password string `validate:"min=6"`
}

type loginInput struct {
	Login    string `validate:"required"`
	Password string `validate:"required"`
}

type UserService struct {
	repo      users.Repository
	hasher    cryptox.PasswordHasher
	tokens    *auth.TokenService
	validate  *validator.Validate
	hashPool  *semaphore.Weighted
	dummyHash string
}

// NewUserService wires the register/login flows. hashConcurrency bounds the
// number of simultaneous hash/verify evaluations; values below 1 use
// runtime.NumCPU().
func NewUserService(repo users.Repository, hasher cryptox.PasswordHasher, tokens *auth.TokenService, hashConcurrency int) (*UserService, error) {
	if hashConcurrency < 1 {
		hashConcurrency = runtime.NumCPU()
	}

	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &UserService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validate:  validator.New(),
		hashPool:  semaphore.NewWeighted(int64(hashConcurrency)),
		dummyHash: dummy,
	}, nil
}

// Register creates a user and returns a fresh access token for it. Store
// uniqueness violations come back as ErrRegisterFailed wrapping the
// *common.ConflictError; anything unexpected is common.ErrorInternal.
func (s *UserService) Register(ctx context.Context, userName, email, password string) (*AuthResult, error) {
	if err := s.validate.Struct(registerInput{UserName: userName, Password: password}); err != nil {
		return nil, ErrWeakInput
	}

	hash, err := s.hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	u, err := s.repo.Create(ctx, &models.User{UserName: userName, Email: email, PasswordHash: hash})
	if err != nil {
		var conflict *common.ConflictError
		if errors.As(err, &conflict) {
			return nil, fmt.Errorf("%w: %w", ErrRegisterFailed, conflict)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return s.issue(u)
}

// Login checks the password of the user whose username or email equals login.
// An unknown login and a wrong password both yield ErrInvalidCredentials after
// one hash evaluation.
func (s *UserService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	if err := s.validate.Struct(loginInput{Login: login, Password: password}); err != nil {
		return nil, ErrMissingFields
	}

	u, err := s.repo.GetUserByLogin(ctx, login)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorAmbiguous):
		if _, verr := s.verify(ctx, password, s.dummyHash); verr != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorInternal, verr)
		}
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	ok, err := s.verify(ctx, password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

// Me returns the identity the auth gate placed in ctx.
func (s *UserService) Me(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return auth.Identity{}, common.ErrorUnauthorized
	}
	return id, nil
}

// IssueDevToken signs a token for arbitrary claims. Empty values fall back to
// fixed development defaults.
func (s *UserService) IssueDevToken(subject, userName string) (*DevToken, error) {
	if subject == "" {
		subject = defaultDevSubject
	}
	if userName == "" {
		userName = defaultDevUserName
	}

	token, err := s.tokens.Issue(subject, userName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &DevToken{AccessToken: token, Subject: subject, UserName: userName}, nil
}

func (s *UserService) issue(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID, u.UserName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &AuthResult{ID: u.ID, UserName: u.UserName, AccessToken: token}, nil
}

func (s *UserService) hash(ctx context.Context, password string) (string, error) {
	if err := s.hashPool.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.hashPool.Release(1)
	return s.hasher.Hash(password)
}

func (s *UserService) verify(ctx context.Context, password, encoded string) (bool, error) {
	if err := s.hashPool.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer s.hashPool.Release(1)
	return s.hasher.Verify(password, encoded), nil
}
