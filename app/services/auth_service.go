package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"soriblog/app/auth"
	"soriblog/app/models"
	"soriblog/app/repositories"
	"soriblog/app/sessions"
)

const defaultBcryptCost = bcrypt.DefaultCost

// SessionStore is the part of sessions.Store the auth service needs.
type SessionStore interface {
	Create(userID int) (*sessions.Session, error)
	Get(token string) (*sessions.Session, error)
	Delete(token string) error
}

// AuthService registers accounts and manages login sessions.
type AuthService struct {
	users    repositories.UserRepository
	sessions SessionStore
	log      *logrus.Logger
	opts     options
}

func NewAuthService(users repositories.UserRepository, store SessionStore, log *logrus.Logger, opts ...Option) *AuthService {
	if log == nil {
		log = logrus.New()
	}
	return &AuthService{
		users:    users,
		sessions: store,
		log:      log,
		opts:     buildOptions(opts),
	}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*sessions.Session, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if password == "" {
		return nil, invalid(errors.New("password is required"))
	}

	// Fast path only; the unique index decides.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, invalid(err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, Password: string(hash), Name: name}
	if err := user.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return s.startSession(user)
}

// Login checks the password against the stored hash and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*sessions.Session, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.WithField("email", email).Warn("Login for unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("Login with wrong password")
		return nil, ErrInvalidCredentials
	}

	s.log.WithField("user_id", user.ID).Info("User logged in")
	return s.startSession(user)
}

// Logout ends the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(token); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// CurrentIdentity resolves a session token. Unknown or expired tokens and
// sessions whose user no longer exists resolve to auth.Anonymous.
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Anonymous, nil
	}
	sess, err := s.sessions.Get(token)
	if errors.Is(err, sessions.ErrNotFound) {
		return auth.Anonymous, nil
	}
	if err != nil {
		return auth.Anonymous, fmt.Errorf("failed to read session: %w", err)
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		_ = s.sessions.Delete(token)
		return auth.Anonymous, nil
	}
	if err != nil {
		return auth.Anonymous, fmt.Errorf("failed to load user %d: %w", sess.UserID, err)
	}

	return auth.Identity{ID: user.ID, Name: user.DisplayName(), Email: user.Email}, nil
}

func (s *AuthService) startSession(user *models.User) (*sessions.Session, error) {
	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return sess, nil
}
