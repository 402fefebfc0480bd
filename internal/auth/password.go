package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	keyBytes   = 64
	iterations = 100000
)

// HashPassword derives a PBKDF2-SHA512 hash with a fresh random salt
// and returns it as "hexsalt:hexhash".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	hash := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// VerifyPassword re-derives the hash with the stored salt and compares
// in constant time. Malformed stored values verify as false rather
// than erroring.
func VerifyPassword(password, stored string) bool {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	attempted := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha512.New)
	return subtle.ConstantTimeCompare(expected, attempted) == 1
}
