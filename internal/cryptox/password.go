package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned by VerifyPassword for strings that are not an
// argon2id PHC hash.
var ErrMalformedHash = errors.New("cryptox: malformed password hash")

// passwordKDF mirrors the common argon2id defaults (19 MiB, t=2, p=1).
var passwordKDF = kdfParams{memory: 19456, time: 2, threads: 1, keyLen: keyLength}

// Upper bounds for parameters read back from a stored hash.
const (
	maxStoredMemory = 1 << 21 // KiB, 2 GiB
	maxStoredTime   = 16
	maxStoredKeyLen = 1024
)

// HashPassword returns an argon2id hash of password in PHC string format:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
func HashPassword(password string) (string, error) {
	salt := common.GenerateRandByteArray(saltLength)
	p := passwordKDF
	if err := p.validate(); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	defer common.WipeByteArray(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword reports whether password matches a hash produced by
// HashPassword. A mismatch is false with a nil error.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var p kdfParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}
	if len(want) > maxStoredKeyLen {
		return false, ErrMalformedHash
	}
	p.keyLen = uint32(len(want))
	if p.threads < 1 || p.time < 1 || p.memory < 8*uint32(p.threads) {
		return false, ErrMalformedHash
	}
	if p.memory > maxStoredMemory || p.time > maxStoredTime {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
