package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltLen is the per-credential salt size in bytes (128 bits).
	SaltLen = 16
	// HashLen is the derived key size in bytes (256 bits).
	HashLen = 32

	pbkdf2Iterations = 1_000_000
)

// Hasher derives password hashes with PBKDF2-HMAC-SHA256 keyed by a
// process-wide secret. The key is loaded once at startup and never re-read.
type Hasher struct {
	key string
}

func NewHasher(passwordKey string) *Hasher {
	return &Hasher{key: passwordKey}
}

// Hash derives a 32-byte hash from the password and the per-credential salt.
// The derivation salt is the server key concatenated with the base64 form of
// the record salt, so hashes are only reproducible with both secrets.
func (h *Hasher) Hash(password string, salt []byte) []byte {
	derivationSalt := []byte(h.key + base64.StdEncoding.EncodeToString(salt))
	return pbkdf2.Key([]byte(password), derivationSalt, pbkdf2Iterations, HashLen, sha256.New)
}

// Compare reports whether two hashes are equal, in constant time over the
// full byte sequence.
func (h *Hasher) Compare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// NewSalt returns SaltLen random bytes from a crypto-grade source.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}
