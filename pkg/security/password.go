// Package security hashes customer passwords with Argon2id and mints
// random single-use tokens.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/grambazaar/storefront-backend/pkg/config"
)

// MinPasswordLength is the shortest password accepted on register or reset.
const MinPasswordLength = 8

var tokenCharset = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

var (
	// ErrInvalidHash signals a malformed Argon2id hash string.
	ErrInvalidHash = errors.New("invalid argon2id hash")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
)

// argonParams are embedded into every hash so verification never depends on
// the current configuration.
type argonParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
	saltLen     uint32
	keyLen      uint32
}

// PasswordHasher produces and checks PHC-formatted Argon2id hashes.
type PasswordHasher struct {
	params argonParams
}

// NewPasswordHasher clamps cfg into safe Argon2id bounds.
func NewPasswordHasher(cfg config.PasswordConfig) *PasswordHasher {
	return &PasswordHasher{params: argonParams{
		memory:      clampUint32(cfg.ArgonMemoryKB, 8, 512*1024),
		time:        clampUint32(cfg.ArgonTime, 1, 10),
		parallelism: uint8(clampInt(cfg.ArgonParallelism, 1, 255)),
		saltLen:     clampUint32(cfg.ArgonSaltLen, 8, 64),
		keyLen:      clampUint32(cfg.ArgonKeyLen, 16, 64),
	}}
}

// Hash returns an encoded hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	p := h.params
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.parallelism, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.parallelism, p.keyLen)
	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

func decodeHash(encoded string) (argonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	var p argonParams
	for _, token := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return argonParams{}, nil, nil, ErrInvalidHash
		}
		bits := 32
		if key == "p" {
			bits = 8
		}
		v, err := strconv.ParseUint(value, 10, bits)
		if err != nil {
			return argonParams{}, nil, nil, ErrInvalidHash
		}
		switch key {
		case "m":
			p.memory = uint32(v)
		case "t":
			p.time = uint32(v)
		case "p":
			p.parallelism = uint8(v)
		}
	}
	if p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}

// RandomToken returns a uniformly random alphanumeric string of length n.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	max := big.NewInt(int64(len(tokenCharset)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tokenCharset[idx.Int64()]
	}
	return string(out), nil
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampUint32(value, min, max int) uint32 {
	return uint32(clampInt(value, min, max))
}
