// Package hash implements one-way hashing and verification of the
// administrator password.
//
// Two strategies exist: Bcrypt, the preferred adaptive salted primitive, and
// Legacy, a fixed sha256-based construction kept for environments where
// bcrypt is unavailable. The strategy is selected once at construction from
// configuration and never switched at runtime.
package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes passwords into opaque credential blobs and verifies them.
// Verify must never panic: any malformed blob yields false.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// New returns the Hasher for the configured scheme, defaulting to bcrypt
// for any unrecognized value.
func New(scheme string) Hasher {
	if scheme == "legacy" {
		return Legacy{}
	}
	return Bcrypt{}
}

// Bcrypt is the preferred strategy: per-hash salt, self-describing encoding.
type Bcrypt struct{}

// Hash returns the bcrypt hash of the password at the default cost.
func (Bcrypt) Hash(password string) (string, error) {
	const op = "hash.Bcrypt.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify reports whether the password matches the bcrypt blob.
func (Bcrypt) Verify(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// legacyPepper is the fixed application constant mixed into the legacy
// digest. It offers no real protection; the legacy scheme exists only for
// deployments where bcrypt cannot be installed.
const legacyPepper = "demo_salt_key_2024"

const legacySaltLen = 16

// Legacy is the degraded strategy: base64(sha256(password||pepper||salt)||salt)
// with a 16-byte random salt. NOT safe for real deployments.
type Legacy struct{}

// Hash derives a fresh salt, digests password||pepper||salt and encodes
// digest||salt as base64.
func (Legacy) Hash(password string) (string, error) {
	const op = "hash.Legacy.Hash"
	salt := make([]byte, legacySaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	combined := append(append([]byte(password), []byte(legacyPepper)...), salt...)
	digest := sha256.Sum256(combined)
	return base64.StdEncoding.EncodeToString(append(digest[:], salt...)), nil
}

// Verify decodes the blob, re-derives the digest with the stored salt and
// compares the digest portion in constant time. Any decode error is false.
func (Legacy) Verify(password, encoded string) bool {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(decoded) != sha256.Size+legacySaltLen {
		return false
	}
	salt := decoded[sha256.Size:]
	combined := append(append([]byte(password), []byte(legacyPepper)...), salt...)
	digest := sha256.Sum256(combined)
	return subtle.ConstantTimeCompare(decoded[:sha256.Size], digest[:]) == 1
}
