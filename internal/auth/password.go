package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used when none is configured.
	DefaultIterations = 260000
	// DefaultSaltLength is the random salt size in bytes.
	DefaultSaltLength = 16

	digestLength = sha256.Size
	methodPrefix = "pbkdf2:sha256"
)

// ErrMalformedCredential reports a stored credential string that cannot be
// parsed. It is an integrity fault, distinct from a plain password mismatch.
var ErrMalformedCredential = errors.New("malformed credential string")

// ErrEmptyPassword reports an attempt to hash an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher derives and verifies password credentials using PBKDF2-SHA256.
// The zero value is not usable; construct with NewHasher. Configuration is
// immutable after construction, so a single Hasher is safe for concurrent use.
type Hasher struct {
	iterations int
	saltLength int
}

// NewHasher builds a Hasher, substituting defaults for non-positive values.
func NewHasher(iterations, saltLength int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if saltLength <= 0 {
		saltLength = DefaultSaltLength
	}
	return &Hasher{iterations: iterations, saltLength: saltLength}
}

// Hash derives a credential string of the form
//
//	pbkdf2:sha256:<iterations>$<salt>$<digest>
//
// A fresh random salt is drawn on every call, so hashing the same plaintext
// twice yields two different strings that both verify it. The string carries
// everything Verify needs; no side channel is required.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	raw := make([]byte, h.saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	digest := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, digestLength, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", methodPrefix, h.iterations, salt, hex.EncodeToString(digest)), nil
}

// Verify recomputes the derivation with the parameters embedded in the stored
// credential and compares digests in constant time. A wrong password yields
// (false, nil); only a structurally broken credential yields an error.
func (h *Hasher) Verify(password, credential string) (bool, error) {
	iterations, salt, digest, err := parseCredential(credential)
	if err != nil {
		return false, err
	}

	candidate := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(digest), sha256.New)
	return subtle.ConstantTimeCompare(candidate, digest) == 1, nil
}

func parseCredential(credential string) (iterations int, salt string, digest []byte, err error) {
	rest, ok := strings.CutPrefix(credential, methodPrefix+":")
	if !ok {
		return 0, "", nil, ErrMalformedCredential
	}

	parts := strings.Split(rest, "$")
	if len(parts) != 3 || parts[1] == "" {
		return 0, "", nil, ErrMalformedCredential
	}

	iterations, err = strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return 0, "", nil, ErrMalformedCredential
	}

	digest, err = hex.DecodeString(parts[2])
	if err != nil || len(digest) == 0 {
		return 0, "", nil, ErrMalformedCredential
	}

	return iterations, parts[1], digest, nil
}
