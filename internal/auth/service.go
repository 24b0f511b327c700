package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrUserNotFound is returned by UserStore implementations when no
	// credential exists for an email. The service folds it into
	// ErrInvalidCredentials so responses cannot enumerate users.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError carries a human-readable reason for rejecting input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UserStore is the external credential store. Implementations must enforce
// a uniqueness constraint on email.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, email, passwordHash, name string) (User, error)
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	maxEmailLength    = 255
	minPasswordLength = 12
	defaultTokenTTL   = 30 * 24 * time.Hour
)

type Service struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewService(store UserStore, jwtSecret string) *Service {
	return &Service{
		store:    store,
		secret:   []byte(jwtSecret),
		tokenTTL: defaultTokenTTL,
	}
}

// WithTokenTTL overrides the default 30-day session lifetime.
func (s *Service) WithTokenTTL(ttl time.Duration) {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
}

func (s *Service) Register(ctx context.Context, email, password, name string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	if err := validateEmail(email); err != nil {
		return Session{}, err
	}
	if err := validatePassword(password); err != nil {
		return Session{}, err
	}

	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return Session{}, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return Session{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, email, hash, name)
	if err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return s.issueSession(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

func (s *Service) issueSession(user User) (Session, error) {
	token, err := EncodeToken(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Exp:    time.Now().UTC().Add(s.tokenTTL).Unix(),
	}, s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("encode token: %w", err)
	}

	return Session{
		User: PublicUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
		Token: token,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Reason: "email is required"}
	}
	if len(email) > maxEmailLength || !emailRegex.MatchString(email) {
		return &ValidationError{Reason: "invalid email format"}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return &ValidationError{Reason: "password is required"}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{Reason: "password must be at least 12 characters"}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return &ValidationError{Reason: "password must contain at least one uppercase letter"}
	case !hasLower:
		return &ValidationError{Reason: "password must contain at least one lowercase letter"}
	case !hasDigit:
		return &ValidationError{Reason: "password must contain at least one number"}
	}

	return nil
}
