package hash

import "fmt"

// Credentials holds the administrator credential blob, hashed once at
// construction. The password comes from configuration here; the source is
// pluggable so a production deployment can load it from a secret store.
type Credentials struct {
	hasher Hasher
	blob   string
}

// NewCredentials hashes the administrator password with the given strategy.
func NewCredentials(hasher Hasher, adminPassword string) (*Credentials, error) {
	const op = "hash.NewCredentials"
	blob, err := hasher.Hash(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Credentials{hasher: hasher, blob: blob}, nil
}

// VerifyAdmin reports whether the password matches the stored administrator
// credential. A mismatch and a malformed blob are indistinguishable.
func (c *Credentials) VerifyAdmin(password string) bool {
	return c.hasher.Verify(password, c.blob)
}
