// Package cryptox implements password-based authenticated encryption of vault
// field values and password hashing for user credentials.
//
// An encoded secret is standard base64 over
//
//	version(1) || salt(22, unpadded base64 of 16 bytes) || nonce(12) || ciphertext||tag(16)
//
// The key is derived with Argon2id from the password and the decoded salt.
// KDF parameters are fixed at compile time and are not stored in the secret,
// so every process that decrypts must use the same values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	secretVersion byte = 1

	saltLength     = 16
	saltTextLength = 22 // base64.RawStdEncoding of saltLength bytes
	nonceLength    = 12
	keyLength      = 32

	headerLength = 1 + saltTextLength + nonceLength
)

// kdfParams are the Argon2id cost settings. They never vary per call.
type kdfParams struct {
	memory  uint32 // KiB
	time    uint32
	threads uint8
	keyLen  uint32
}

var secretKDF = kdfParams{memory: 16 * 1024, time: 3, threads: 4, keyLen: keyLength}

func (p kdfParams) validate() error {
	if p.threads < 1 || p.time < 1 || p.memory < 8*uint32(p.threads) || p.keyLen != keyLength {
		return ErrKeyDerivationParams
	}
	return nil
}

// Codec encrypts and decrypts vault secrets. The zero value is not usable;
// use the package-level Encrypt and Decrypt.
type Codec struct {
	rand   io.Reader
	params kdfParams
}

var defaultCodec = &Codec{rand: rand.Reader, params: secretKDF}

// Encrypt seals data under a key derived from password and returns the
// base64 encoded secret. Every call uses a fresh salt and nonce.
func Encrypt(data, password string) (string, error) {
	return defaultCodec.Encrypt(data, password)
}

// Decrypt opens a secret produced by Encrypt.
func Decrypt(encoded, password string) (string, error) {
	return defaultCodec.Decrypt(encoded, password)
}

func (c *Codec) Encrypt(data, password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return "", fmt.Errorf("%w: salt: %v", ErrEncryption, err)
	}

	key, err := c.deriveKey(password, salt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", fmt.Errorf("%w: nonce: %v", ErrEncryption, err)
	}

	out := make([]byte, 0, headerLength+len(data)+aead.Overhead())
	out = append(out, secretVersion)
	out = base64.RawStdEncoding.AppendEncode(out, salt)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(data), nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *Codec) Decrypt(encoded, password string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformedSecret
	}
	if len(raw) < headerLength {
		return "", ErrMalformedSecret
	}
	if raw[0] != secretVersion {
		return "", ErrUnsupportedVersion
	}

	saltText := raw[1 : 1+saltTextLength]
	nonce := raw[1+saltTextLength : headerLength]
	ciphertext := raw[headerLength:]

	// A corrupted salt still pays for a full derivation so that it fails on
	// the same path, and in the same time, as a wrong password.
	salt, err := base64.RawStdEncoding.DecodeString(string(saltText))
	badSalt := err != nil || len(salt) != saltLength
	if badSalt {
		salt = make([]byte, saltLength)
	}

	key, err := c.deriveKey(password, salt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil || badSalt {
		return "", ErrDecryption
	}
	defer common.WipeByteArray(plaintext)

	if !utf8.Valid(plaintext) {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}

func (c *Codec) deriveKey(password string, salt []byte) ([]byte, error) {
	if err := c.params.validate(); err != nil {
		return nil, err
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := argon2.IDKey(pw, salt, c.params.time, c.params.memory, c.params.threads, c.params.keyLen)
	if len(key) != keyLength {
		common.WipeByteArray(key)
		return nil, ErrKeyDerivation
	}
	return key, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherInit, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherInit, err)
	}
	return aead, nil
}
