package localauth

import (
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/cryptox"
	"github.com/dmitrijs2005/wanderlust/internal/server/attempts"
)

// Options tune hashing, username handling and attempt limiting.
type Options struct {
	Hasher  cryptox.Hasher
	SaltLen int

	UsernameLowerCase bool

	// PasswordValidator, when set, runs before a password is hashed.
	PasswordValidator func(password string) error

	// LimitAttempts enables back-off between failed attempts. Tracker must
	// be set when it is on. MaxAttempts of zero means no lockout.
	LimitAttempts bool
	MaxAttempts   int
	Interval      time.Duration
	MaxInterval   time.Duration
	Tracker       attempts.Tracker

	Now func() time.Time
}

// DefaultOptions mirrors the defaults of passport-local-mongoose so hashes
// created by either side verify on the other.
func DefaultOptions() Options {
	return Options{
		Hasher:      cryptox.DefaultPBKDF2(),
		SaltLen:     32,
		Interval:    100 * time.Millisecond,
		MaxInterval: 300 * time.Second,
		Now:         time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Hasher == nil {
		o.Hasher = d.Hasher
	}
	if o.SaltLen <= 0 {
		o.SaltLen = d.SaltLen
	}
	if o.Interval <= 0 {
		o.Interval = d.Interval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = d.MaxInterval
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	if o.LimitAttempts && o.Tracker == nil {
		o.Tracker = attempts.NewMemory(0)
	}
	return o
}
