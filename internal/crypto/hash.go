package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used in production.
const defaultCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt. The cost is
// injectable so tests can run at the bcrypt minimum instead of paying
// ~250ms per hash.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the production cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: defaultCost}
}

// NewPasswordHasherWithCost returns a hasher with a custom cost. Intended
// for tests; do not use a cost below defaultCost in production.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash hashes a plaintext password. The returned digest embeds the salt
// and cost, so it can be stored as a single column.
func (p *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates past 72 bytes; reject instead.
		return "", fmt.Errorf("crypto: password must be 72 bytes or fewer")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("crypto: hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
// bcrypt's comparison is constant-time.
func (p *PasswordHasher) Verify(digest, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// HashToken hashes an opaque token (e.g. a refresh token JWT). Tokens are
// longer than bcrypt's 72-byte input limit, so they are digested with
// SHA-256 first.
func (p *PasswordHasher) HashToken(token string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(tokenDigest(token), p.cost)
	if err != nil {
		return "", fmt.Errorf("crypto: hashing token: %w", err)
	}
	return string(digest), nil
}

// VerifyToken reports whether token matches a digest produced by HashToken.
func (p *PasswordHasher) VerifyToken(digest, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), tokenDigest(token)) == nil
}

func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(out, sum[:])
	return out
}
