// Package cryptox derives password keys for the local authentication
// capability. Keys are compared in constant time.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Hasher derives a key from a password and a salt.
type Hasher interface {
	Key(password, salt []byte) []byte
}

// PBKDF2 derives keys with PBKDF2-HMAC. The defaults returned by
// DefaultPBKDF2 produce hashes interchangeable with passport-local-mongoose
// accounts (sha256, 25000 iterations, 512 byte keys).
type PBKDF2 struct {
	Iterations int
	KeyLen     int
	Digest     func() hash.Hash
}

func DefaultPBKDF2() PBKDF2 {
	return PBKDF2{Iterations: 25000, KeyLen: 512, Digest: sha256.New}
}

func (p PBKDF2) Key(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, p.Iterations, p.KeyLen, p.Digest)
}

// Argon2id derives keys with argon2.IDKey.
type Argon2id struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

func DefaultArgon2id() Argon2id {
	return Argon2id{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}
}

func (a Argon2id) Key(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, a.Time, a.Memory, a.Threads, a.KeyLen)
}

// Hasher names accepted by NewHasher.
const (
	HasherPBKDF2   = "pbkdf2"
	HasherArgon2id = "argon2id"
)

// NewHasher returns the default hasher for name. An empty name selects
// PBKDF2. Hashes from one hasher never verify under the other.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", HasherPBKDF2:
		return DefaultPBKDF2(), nil
	case HasherArgon2id:
		return DefaultArgon2id(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// Equal reports whether a and b are equal without leaking timing.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
