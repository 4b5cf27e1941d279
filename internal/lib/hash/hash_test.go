package hash

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashers_VerifyRoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt": Bcrypt{},
		"legacy": Legacy{},
	}

	passwords := []string{
		"admin123",
		"p@ssw0rd!@#$%^&*()",
		"mot de passe très long avec des accents éàü",
		"x",
	}

	for name, hasher := range hashers {
		t.Run(name, func(t *testing.T) {
			for _, password := range passwords {
				blob, err := hasher.Hash(password)
				require.NoError(t, err)
				require.NotEmpty(t, blob)

				assert.True(t, hasher.Verify(password, blob),
					"original password should verify")
				assert.False(t, hasher.Verify(password+"x", blob),
					"wrong password should not verify")
			}
		})
	}
}

func TestHashers_GarbageBlob(t *testing.T) {
	garbage := []string{
		"",
		"not-base64-!!!",
		"dG9vc2hvcnQ=", // valid base64, wrong length
		"$2a$garbage",
	}

	for name, hasher := range map[string]Hasher{"bcrypt": Bcrypt{}, "legacy": Legacy{}} {
		t.Run(name, func(t *testing.T) {
			for _, blob := range garbage {
				assert.False(t, hasher.Verify("anything", blob))
			}
		})
	}
}

func TestLegacy_Encoding(t *testing.T) {
	blob, err := Legacy{}.Hash("secret")
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	// digest[32] || salt[16]
	assert.Len(t, decoded, sha256.Size+legacySaltLen)
}

func TestLegacy_DistinctSalts(t *testing.T) {
	first, err := Legacy{}.Hash("same password")
	require.NoError(t, err)
	second, err := Legacy{}.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash must use a fresh salt")
}

func TestNew_SchemeSelection(t *testing.T) {
	assert.IsType(t, Legacy{}, New("legacy"))
	assert.IsType(t, Bcrypt{}, New("bcrypt"))
	assert.IsType(t, Bcrypt{}, New("anything else"))
}

func TestCredentials_VerifyAdmin(t *testing.T) {
	creds, err := NewCredentials(Legacy{}, "admin123")
	require.NoError(t, err)

	assert.True(t, creds.VerifyAdmin("admin123"))
	assert.False(t, creds.VerifyAdmin("wrong"))
	assert.False(t, creds.VerifyAdmin(""))
}
