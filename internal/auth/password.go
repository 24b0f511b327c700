package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. Stored hashes encode the salt alongside the derived
// key, so changing these invalidates every existing credential.
const (
	hashIterations = 100000
	saltLength     = 16
	keyLength      = 32
)

// HashPassword derives a salted PBKDF2-HMAC-SHA256 hash and returns it as
// "hex(salt)$hex(key)". Passwords of any length are accepted; strength
// policy is the caller's concern.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, hashIterations, keyLength, sha256.New)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches a hash produced by
// HashPassword. Malformed stored hashes fail verification; they never
// panic or error. The digest comparison is constant time.
func VerifyPassword(password, storedHash string) bool {
	saltHex, keyHex, ok := strings.Cut(storedHash, "$")
	if !ok || saltHex == "" || keyHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	computed := pbkdf2.Key([]byte(password), salt, hashIterations, keyLength, sha256.New)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}
