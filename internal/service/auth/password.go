package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. Stored hashes are base64(salt || key) and depend on
// these values, so changing them invalidates existing passwords.
const (
	PBKDF2Iterations = 10000
	PBKDF2SaltSize   = 16
	PBKDF2KeySize    = 32
)

// PasswordHasher hashes new passwords and verifies candidates against stored hashes.
type PasswordHasher interface {
	// Hash derives a storable hash from a plaintext password.
	Hash(password string) (string, error)

	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, ErrPasswordMismatch on mismatch, or
	// ErrMalformedHash if the stored hash cannot be decoded.
	Compare(hashedPassword, password string) error
}

// PBKDF2Hasher implements PasswordHasher with PBKDF2-HMAC-SHA256.
type PBKDF2Hasher struct{}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

// Ensure PBKDF2Hasher implements PasswordHasher
var _ PasswordHasher = (*PBKDF2Hasher)(nil)

// Hash implements PasswordHasher using a fresh random salt.
func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, PBKDF2SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return encodeHash(salt, derive(password, salt)), nil
}

// Compare implements PasswordHasher in constant time with respect to the key.
func (h *PBKDF2Hasher) Compare(hashedPassword, password string) error {
	raw, err := base64.StdEncoding.DecodeString(hashedPassword)
	if err != nil || len(raw) != PBKDF2SaltSize+PBKDF2KeySize {
		return ErrMalformedHash
	}
	salt, want := raw[:PBKDF2SaltSize], raw[PBKDF2SaltSize:]
	if subtle.ConstantTimeCompare(derive(password, salt), want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, PBKDF2KeySize, sha256.New)
}

func encodeHash(salt, key []byte) string {
	buf := make([]byte, 0, len(salt)+len(key))
	buf = append(buf, salt...)
	buf = append(buf, key...)
	return base64.StdEncoding.EncodeToString(buf)
}
