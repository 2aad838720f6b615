package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"soriblog/app/repositories"
)

var (
	ErrDuplicateAccount   = errors.New("an account with that email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("login required")
	ErrUnauthorized       = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateTitle     = errors.New("a post with that title already exists")
	ErrValidation         = errors.New("validation failed")
)

// invalid wraps validator output so callers can match ErrValidation and still
// read the field errors with errors.As.
func invalid(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, fieldErrs)
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// notFound maps repository absence onto ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

type options struct {
	now        func() time.Time
	bcryptCost int
}

// Option customises a service.
type Option func(*options)

// WithClock replaces time.Now for date stamping.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, bcryptCost: defaultBcryptCost}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
