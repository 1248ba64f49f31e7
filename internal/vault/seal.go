package vault

import (
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/cryptox"
)

// Sealed is implemented by records with fields encrypted at rest.
// SecretFields returns pointers to those fields; absent optional fields are
// omitted.
type Sealed interface {
	SecretFields() []*string
}

// seal encrypts the secret fields of rec in place under master. The returned
// restore puts the plaintexts back.
func seal(rec any, master string) (restore func(), err error) {
	s, ok := rec.(Sealed)
	if !ok {
		return func() {}, nil
	}

	fields := s.SecretFields()
	plain := make([]string, 0, len(fields))
	restore = func() {
		for i, p := range plain {
			*fields[i] = p
		}
	}

	for _, f := range fields {
		enc, err := cryptox.Encrypt(*f, master)
		if err != nil {
			restore()
			return nil, fmt.Errorf("seal: %w", err)
		}
		plain = append(plain, *f)
		*f = enc
	}
	return restore, nil
}

// unseal decrypts the secret fields of rec in place.
func unseal(rec any, master string) error {
	s, ok := rec.(Sealed)
	if !ok {
		return nil
	}
	for _, f := range s.SecretFields() {
		plain, err := cryptox.Decrypt(*f, master)
		if err != nil {
			return fmt.Errorf("unseal: %w", err)
		}
		*f = plain
	}
	return nil
}
