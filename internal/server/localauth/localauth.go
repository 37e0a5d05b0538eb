// Package localauth is the username/password capability attached to account
// types. An account opts in by embedding Credentials and implementing
// Account; Authenticator then provides register, authenticate and password
// management on top of a Store.
package localauth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/cryptox"
)

// Credentials are the fields the capability injects into an account.
// Salt and Hash are hex encoded.
type Credentials struct {
	Username string
	Salt     string
	Hash     string
}

// Account is implemented by pointer types that embed Credentials.
type Account interface {
	LocalAuth() *Credentials
}

// Validator is implemented by accounts with their own schema rules. It runs
// before an account is first stored.
type Validator interface {
	Validate() error
}

// Store persists accounts. FindByUsername returns common.ErrorNotFound for
// unknown usernames.
type Store[A Account] interface {
	FindByUsername(ctx context.Context, username string) (A, error)
	Create(ctx context.Context, account A) (A, error)
	UpdateCredentials(ctx context.Context, account A) error
}

type Authenticator[A Account] struct {
	store Store[A]
	opts  Options
}

func New[A Account](store Store[A], opts Options) *Authenticator[A] {
	return &Authenticator[A]{store: store, opts: opts.withDefaults()}
}

func (a *Authenticator[A]) normalize(username string) string {
	if a.opts.UsernameLowerCase {
		return strings.ToLower(username)
	}
	return username
}

// SetPassword generates a fresh salt and stores the derived hash on the
// account. Nothing is persisted.
func (a *Authenticator[A]) SetPassword(account A, password string) error {
	if password == "" {
		return ErrMissingPassword
	}
	if a.opts.PasswordValidator != nil {
		if err := a.opts.PasswordValidator(password); err != nil {
			return err
		}
	}

	salt, err := common.MakeRandHexString(a.opts.SaltLen)
	if err != nil {
		return fmt.Errorf("salt generation: %w", err)
	}

	creds := account.LocalAuth()
	creds.Salt = salt
	creds.Hash = hex.EncodeToString(a.opts.Hasher.Key([]byte(password), []byte(salt)))
	return nil
}

// Register validates the account, checks the username is free, sets the
// password and stores the account.
func (a *Authenticator[A]) Register(ctx context.Context, account A, password string) (A, error) {
	var zero A

	creds := account.LocalAuth()
	creds.Username = a.normalize(creds.Username)
	if creds.Username == "" {
		return zero, ErrMissingUsername
	}

	if v, ok := any(account).(Validator); ok {
		if err := v.Validate(); err != nil {
			return zero, err
		}
	}

	_, err := a.store.FindByUsername(ctx, creds.Username)
	switch {
	case err == nil:
		return zero, ErrUserExists
	case !errors.Is(err, common.ErrorNotFound):
		return zero, fmt.Errorf("lookup user: %w", err)
	}

	if err := a.SetPassword(account, password); err != nil {
		return zero, err
	}

	created, err := a.store.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return zero, ErrUserExists
		}
		return zero, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Authenticate looks the account up by username and checks the password.
func (a *Authenticator[A]) Authenticate(ctx context.Context, username, password string) (A, error) {
	var zero A

	account, err := a.store.FindByUsername(ctx, a.normalize(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return zero, ErrIncorrectUsername
		}
		return zero, fmt.Errorf("lookup user: %w", err)
	}

	if err := a.check(ctx, account, password); err != nil {
		return zero, err
	}
	return account, nil
}

// ChangePassword verifies oldPassword and replaces it with newPassword.
func (a *Authenticator[A]) ChangePassword(ctx context.Context, account A, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingPassword
	}
	if err := a.check(ctx, account, oldPassword); err != nil {
		return err
	}
	if err := a.SetPassword(account, newPassword); err != nil {
		return err
	}
	if err := a.store.UpdateCredentials(ctx, account); err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	return nil
}

// ResetAttempts clears the failure counter for the account.
func (a *Authenticator[A]) ResetAttempts(ctx context.Context, account A) error {
	if !a.opts.LimitAttempts {
		return nil
	}
	return a.opts.Tracker.Reset(ctx, account.LocalAuth().Username, a.opts.Now())
}

// Unlock forgets every recorded failure for username, lifting a lockout.
// It is a no-op when attempt limiting is off.
func (a *Authenticator[A]) Unlock(ctx context.Context, username string) error {
	if !a.opts.LimitAttempts {
		return nil
	}
	return a.opts.Tracker.Clear(ctx, a.normalize(username))
}

// SerializeUser returns the value kept in a session to find the account again.
func (a *Authenticator[A]) SerializeUser(account A) string {
	return account.LocalAuth().Username
}

// DeserializeUser loads the account a session value refers to.
func (a *Authenticator[A]) DeserializeUser(ctx context.Context, username string) (A, error) {
	return a.store.FindByUsername(ctx, username)
}

func (a *Authenticator[A]) check(ctx context.Context, account A, password string) error {
	creds := account.LocalAuth()
	if creds.Salt == "" {
		return ErrNoSaltValue
	}

	now := a.opts.Now()

	if a.opts.LimitAttempts {
		state, err := a.opts.Tracker.Get(ctx, creds.Username)
		if err != nil {
			return fmt.Errorf("read attempts: %w", err)
		}
		if !state.Last.IsZero() && now.Sub(state.Last) < a.backoff(state.Attempts) {
			return ErrAttemptTooSoon
		}
		if a.opts.MaxAttempts > 0 && state.Attempts >= a.opts.MaxAttempts {
			return ErrTooManyAttempts
		}
	}

	stored, err := hex.DecodeString(creds.Hash)
	if err != nil {
		return fmt.Errorf("decode stored hash: %w", err)
	}
	candidate := a.opts.Hasher.Key([]byte(password), []byte(creds.Salt))

	if !cryptox.Equal(stored, candidate) {
		if a.opts.LimitAttempts {
			state, err := a.opts.Tracker.Fail(ctx, creds.Username, now)
			if err != nil {
				return fmt.Errorf("record attempt: %w", err)
			}
			if a.opts.MaxAttempts > 0 && state.Attempts >= a.opts.MaxAttempts {
				return ErrTooManyAttempts
			}
		}
		return ErrIncorrectPassword
	}

	if a.opts.LimitAttempts {
		if err := a.opts.Tracker.Reset(ctx, creds.Username, now); err != nil {
			return fmt.Errorf("reset attempts: %w", err)
		}
	}
	return nil
}

// backoff is interval^ln(attempts+1) milliseconds, capped at MaxInterval.
// Zero failures give 1ms; the wait grows with every failure.
func (a *Authenticator[A]) backoff(failures int) time.Duration {
	ms := math.Pow(float64(a.opts.Interval.Milliseconds()), math.Log(float64(failures+1)))
	if ms >= float64(a.opts.MaxInterval.Milliseconds()) {
		return a.opts.MaxInterval
	}
	return time.Duration(ms * float64(time.Millisecond))
}
