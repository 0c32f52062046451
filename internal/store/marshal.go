package store

import (
	"fmt"
	"sort"

	"github.com/roach88/sellbot/internal/model"
)

// Sensitive product field names. They double as associated data for the
// vault, binding each ciphertext to its field.
const (
	fieldUsername = "username"
	fieldPassword = "password"
	fieldSecret   = "secret"
)

type fieldError struct {
	productID string
	field     string
	err       error
}

// sensitiveFields returns pointers to the encrypted fields of p in a fixed order.
func sensitiveFields(p *model.Product) []struct {
	name string
	ptr  *string
} {
	return []struct {
		name string
		ptr  *string
	}{
		{fieldUsername, &p.Username},
		{fieldPassword, &p.Password},
		{fieldSecret, &p.Secret},
	}
}

// sealDocument encrypts the sensitive fields of every product in place.
// doc must be a private copy.
func (s *Store) sealDocument(doc *model.Document) error {
	for _, id := range sortedIDs(doc) {
		p := doc.Products[id]
		for _, f := range sensitiveFields(p) {
			token, err := s.vault.Encrypt(f.name, *f.ptr)
			if err != nil {
				return fmt.Errorf("encrypt product %q: %w", id, err)
			}
			*f.ptr = token
		}
	}
	return nil
}

// openDocument decrypts the sensitive fields of every product in place.
// A field that fails to decrypt becomes "" and is reported; the rest of
// the document is unaffected.
func (s *Store) openDocument(doc *model.Document) []fieldError {
	var failures []fieldError
	for _, id := range sortedIDs(doc) {
		p := doc.Products[id]
		for _, f := range sensitiveFields(p) {
			plain, err := s.vault.Decrypt(f.name, *f.ptr)
			if err != nil {
				failures = append(failures, fieldError{productID: id, field: f.name, err: err})
				plain = ""
			}
			*f.ptr = plain
		}
	}
	return failures
}

// sortedIDs keeps log output and error reporting deterministic.
func sortedIDs(doc *model.Document) []string {
	ids := make([]string, 0, len(doc.Products))
	for id := range doc.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
