package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"golang.org/x/crypto/bcrypt"
)

// legacyDigestLength is the length of a hex-encoded SHA-256 digest
const legacyDigestLength = sha256.Size * 2

// ErrUnsupportedHash is returned when a stored credential has an unknown format
var ErrUnsupportedHash = errors.New("unsupported password hash format")

// BcryptHasher hashes passwords with bcrypt and optionally accepts
// unsalted SHA-256 hex digests written by the previous deployment
type BcryptHasher struct {
	cost         int
	acceptLegacy bool
}

// NewBcryptHasher creates a hasher. Costs outside bcrypt's range fall back to the default.
func NewBcryptHasher(cost int, acceptLegacy bool) core.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost, acceptLegacy: acceptLegacy}
}

// Hash derives a bcrypt hash from the password
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errs.NewValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify compares the password with a stored bcrypt hash or, when enabled,
// a legacy SHA-256 digest
func (h *BcryptHasher) Verify(hash, password string) (bool, error) {
	if h.acceptLegacy && isLegacyDigest(hash) {
		sum := sha256.Sum256([]byte(password))
		expected := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) == 1, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
	}
}

// NeedsRehash reports whether the stored hash is a legacy digest or was
// produced with a different bcrypt cost
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	if isLegacyDigest(hash) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost != h.cost
}

func isLegacyDigest(hash string) bool {
	if len(hash) != legacyDigestLength {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
