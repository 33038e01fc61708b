// Package auth provides a high-level API for persisting and retrieving administrative secrets from the system keyring.
package auth

import (
	"errors"

	"github.com/videocatcher/videocatcher/constant"
	"github.com/zalando/go-keyring"
)

// Secret names a value stored under the application's keyring service.
type Secret string

const (
	AdminPassword Secret = "admin-password"
	UploadToken   Secret = "upload-token"
)

// Set persists a secret to the system keyring.
func Set(s Secret, value string) error {
	return keyring.Set(constant.App, string(s), value)
}

// Get retrieves a secret from the system keyring.
// A missing secret yields an empty string and no error.
func Get(s Secret) (string, error) {
	value, err := keyring.Get(constant.App, string(s))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// Delete removes a secret from the system keyring. Deleting a missing secret is not an error.
func Delete(s Secret) error {
	err := keyring.Delete(constant.App, string(s))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Resolve returns the configured value when non-empty, otherwise the keyring entry.
func Resolve(s Secret, configured string) string {
	if configured != "" {
		return configured
	}
	value, _ := Get(s)
	return value
}
