package cryptox

import "errors"

// Errors returned by the secret codec. Decryption of a well-formed secret
// reports every authentication, password or plaintext failure as
// ErrDecryption, so callers cannot tell a wrong password from tampering.
var (
	ErrKeyDerivationParams = errors.New("cryptox: invalid key derivation parameters")
	ErrKeyDerivation       = errors.New("cryptox: key derivation failed")
	ErrCipherInit          = errors.New("cryptox: cipher construction failed")
	ErrEncryption          = errors.New("cryptox: encryption failed")
	ErrDecryption          = errors.New("cryptox: decryption failed")
	ErrUnsupportedVersion  = errors.New("cryptox: unsupported secret version")
	ErrMalformedSecret     = errors.New("cryptox: malformed secret encoding")
)
