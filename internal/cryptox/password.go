// Package cryptox holds the password hashing primitive used for stored
// credentials: argon2id with a per-hash random salt, encoded in the PHC string
// format so a hash carries everything needed to verify it later.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kracker/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrHashing is returned when a hash cannot be produced: the salt could not be
// read or the argon2 primitive could not run with the configured parameters.
var ErrHashing = errors.New("password hashing failed")

// ErrInvalidParams is returned by NewArgon2Hasher for cost parameters that
// Verify would refuse to read back.
var ErrInvalidParams = errors.New("invalid argon2id parameters")

const (
	algorithmID = "argon2id"
	saltLength  = 16
	keyLength   = 32

	// Bounds shared by NewArgon2Hasher and parameters read back from a
	// stored hash.
	maxMemory       = 1 << 20 // KiB, 1 GiB
	maxTime         = 16
	maxThreads      = 16
	maxVerifyKeyLen = 128
)

// Params are the argon2id cost parameters. Memory is in KiB.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams are development defaults: 3 passes over 64 MiB on one lane.
var DefaultParams = Params{Time: 3, Memory: 64 * 1024, Threads: 1}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// Argon2Hasher implements PasswordHasher with argon2id. It holds no mutable
// state and is safe for concurrent use.
type Argon2Hasher struct {
	params Params
}

// validate checks p against the range Verify accepts. argon2 itself needs at
// least one pass, one lane and 8 KiB per lane.
func (p Params) validate() error {
	switch {
	case p.Time < 1 || p.Time > maxTime:
		return fmt.Errorf("%w: time %d not in [1, %d]", ErrInvalidParams, p.Time, maxTime)
	case p.Threads < 1 || p.Threads > maxThreads:
		return fmt.Errorf("%w: threads %d not in [1, %d]", ErrInvalidParams, p.Threads, maxThreads)
	case p.Memory < 8*uint32(p.Threads) || p.Memory > maxMemory:
		return fmt.Errorf("%w: memory %d KiB not in [%d, %d]", ErrInvalidParams, p.Memory, 8*uint32(p.Threads), maxMemory)
	}
	return nil
}

// NewArgon2Hasher returns a hasher using p. Zero fields fall back to
// DefaultParams; anything outside the range Verify accepts is rejected with
// ErrInvalidParams.
func NewArgon2Hasher(p Params) (*Argon2Hasher, error) {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.Memory == 0 {
		p.Memory = DefaultParams.Memory
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Argon2Hasher{params: p}, nil
}

// Hash derives an argon2id key from password and a fresh salt and returns
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// with salt and hash in unpadded standard base64.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt, err := common.ReadRandBytes(saltLength)
	if err != nil {
		return "", fmt.Errorf("%w: read salt: %w", ErrHashing, err)
	}

	key, err := deriveKey([]byte(password), salt, h.params, keyLength)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash. Malformed hashes and
// mismatches both yield false.
func (h *Argon2Hasher) Verify(password, encodedHash string) bool {
	p, salt, expected, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}

	key, err := deriveKey([]byte(password), salt, p, uint32(len(expected)))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// deriveKey runs argon2.IDKey, turning its panics (bad parameters, failed
// allocation of the memory matrix) into ErrHashing.
func deriveKey(password, salt []byte, p Params, keyLen uint32) (key []byte, err error) {
	if p.Time < 1 || p.Threads < 1 || p.Memory < 8*uint32(p.Threads) {
		return nil, fmt.Errorf("%w: invalid parameters m=%d t=%d p=%d", ErrHashing, p.Memory, p.Time, p.Threads)
	}

	defer func() {
		if r := recover(); r != nil {
			key = nil
			err = fmt.Errorf("%w: %v", ErrHashing, r)
		}
	}()

	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, keyLen), nil
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		return p, nil, nil, errors.New("invalid argon2id hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("parse version: %w", err)
	}
	if parts[2] != fmt.Sprintf("v=%d", version) {
		return p, nil, nil, errors.New("malformed version segment")
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("parse params: %w", err)
	}
	// Sscanf stops at the last verb, so trailing input and non-canonical
	// numbers only show up when the segment is formatted back.
	if parts[3] != fmt.Sprintf("m=%d,t=%d,p=%d", p.Memory, p.Time, p.Threads) {
		return p, nil, nil, errors.New("malformed params segment")
	}
	if err := p.validate(); err != nil {
		return p, nil, nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errors.New("decode salt")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxVerifyKeyLen {
		return p, nil, nil, errors.New("decode hash")
	}

	return p, salt, key, nil
}
