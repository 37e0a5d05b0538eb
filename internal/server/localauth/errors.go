package localauth

import "errors"

// Authentication failures. Username and password mismatches share one
// message so callers cannot tell which part was wrong.
var (
	ErrMissingPassword   = errors.New("no password was given")
	ErrMissingUsername   = errors.New("no username was given")
	ErrUserExists        = errors.New("a user with the given username is already registered")
	ErrIncorrectPassword = errors.New("password or username is incorrect")
	ErrIncorrectUsername = errors.New("password or username is incorrect")
	ErrNoSaltValue       = errors.New("authentication not possible, no salt value stored")
	ErrAttemptTooSoon    = errors.New("login attempt too soon after previous attempt")
	ErrTooManyAttempts   = errors.New("account locked due to too many failed login attempts")
)

// IsCredentialError reports whether err is one of the failures a client
// caused by presenting wrong or locked credentials.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrIncorrectPassword) ||
		errors.Is(err, ErrIncorrectUsername) ||
		errors.Is(err, ErrNoSaltValue)
}

// IsLockout reports whether err comes from attempt limiting.
func IsLockout(err error) bool {
	return errors.Is(err, ErrAttemptTooSoon) || errors.Is(err, ErrTooManyAttempts)
}
