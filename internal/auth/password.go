package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrMalformedHash = errors.New("malformed password hash")

// argon2id parameters, matching what node-argon2 produced for existing rows.
const (
	argonMemory  = 64 * 1024
	argonTime    = 3
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

var b64 = base64.RawStdEncoding

// HashPassword returns an argon2id PHC string with a fresh random salt.
func HashPassword(pw string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(pw), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// CheckPassword reports whether pw matches hash. A mismatch is (false, nil);
// an unreadable hash is (false, ErrMalformedHash).
func CheckPassword(hash, pw string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2"):
		return checkArgon2(hash, pw)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	default:
		return false, ErrMalformedHash
	}
}

type argonParams struct {
	variant      string
	memory, time uint32
	threads      uint8
	salt, key    []byte
}

// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
func parseArgon2(hash string) (*argonParams, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return nil, ErrMalformedHash
	}
	p := &argonParams{variant: parts[1]}
	if p.variant != "argon2id" && p.variant != "argon2i" {
		return nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, ErrMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, ErrMalformedHash
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return nil, ErrMalformedHash
	}

	var err error
	if p.salt, err = b64.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, ErrMalformedHash
	}
	if p.key, err = b64.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return nil, ErrMalformedHash
	}
	return p, nil
}

func checkArgon2(hash, pw string) (bool, error) {
	p, err := parseArgon2(hash)
	if err != nil {
		return false, err
	}
	keyLen := uint32(len(p.key))

	var got []byte
	if p.variant == "argon2id" {
		got = argon2.IDKey([]byte(pw), p.salt, p.time, p.memory, p.threads, keyLen)
	} else {
		got = argon2.Key([]byte(pw), p.salt, p.time, p.memory, p.threads, keyLen)
	}
	return subtle.ConstantTimeCompare(got, p.key) == 1, nil
}
