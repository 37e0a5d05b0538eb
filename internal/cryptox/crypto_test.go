package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBKDF2_KnownVector(t *testing.T) {
	h := PBKDF2{Iterations: 25000, KeyLen: 32, Digest: sha256.New}

	key := h.Key([]byte("hunter2"), []byte("73616c74"))

	assert.Equal(t, "9a973f5415bf7870d81849112d795bf1840bcf41d3f9965b686280f4b74cbbd4", hex.EncodeToString(key))
}

func TestPBKDF2_DefaultKeyLength(t *testing.T) {
	key := DefaultPBKDF2().Key([]byte("hunter2"), []byte("73616c74"))

	require.Len(t, key, 512)
	// a longer key shares its first block with the 32 byte one
	assert.Equal(t, "9a973f5415bf7870d81849112d795bf1840bcf41d3f9965b686280f4b74cbbd4", hex.EncodeToString(key[:32]))
}

func TestArgon2id_Deterministic(t *testing.T) {
	h := DefaultArgon2id()
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := h.Key(password, salt)
	key2 := h.Key(password, salt)

	assert.Equal(t, key1, key2)
	assert.Equal(t, "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39", hex.EncodeToString(key1))
}

func TestArgon2id_DifferentSalts(t *testing.T) {
	h := DefaultArgon2id()
	password := []byte("secret-password")

	assert.NotEqual(t, h.Key(password, []byte("salt-1")), h.Key(password, []byte("salt-2")))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]byte("abc"), []byte("abc")))
	assert.False(t, Equal([]byte("abc"), []byte("abd")))
	assert.False(t, Equal([]byte("abc"), []byte("ab")))
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPBKDF2().Iterations, h.(PBKDF2).Iterations)

	h, err = NewHasher(HasherArgon2id)
	require.NoError(t, err)
	assert.Equal(t, DefaultArgon2id(), h)

	_, err = NewHasher("md5")
	assert.ErrorContains(t, err, `unknown password hasher "md5"`)
}
