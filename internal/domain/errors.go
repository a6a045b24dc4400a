package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is
var (
	// ErrConfiguration is returned when a required setting is missing
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingCredentials is returned when DB_USER or DB_PASSWORD is absent
	ErrMissingCredentials = errors.New("database credentials are not set")

	// ErrInvalidIdentifier is returned when a table name fails the allow-list check
	ErrInvalidIdentifier = errors.New("invalid table identifier supplied")

	ErrStorage  = errors.New("storage error")
	ErrDatabase = errors.New("database error")
)

// ConfigurationError names the settings that were missing
type ConfigurationError struct {
	Keys    []string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("required configuration not set: %v", e.Keys)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a ConfigurationError for the given keys
func NewConfigurationError(message string, keys ...string) error {
	return &ConfigurationError{Keys: keys, Message: message}
}

// MissingCredentialsError is a ConfigurationError raised for absent database credentials
type MissingCredentialsError struct{}

func (e *MissingCredentialsError) Error() string {
	return ErrMissingCredentials.Error()
}

func (e *MissingCredentialsError) Is(target error) bool {
	return target == ErrMissingCredentials || target == ErrConfiguration
}

// InvalidIdentifierError carries the rejected identifier
type InvalidIdentifierError struct {
	Identifier string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidIdentifier.Error(), e.Identifier)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// StorageError wraps a failure from the object store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err, returning nil when err is nil
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// DatabaseError wraps a failure from the database
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database %s failed: %v", e.Op, e.Err)
}

func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NewDatabaseError wraps err, returning nil when err is nil
func NewDatabaseError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatabaseError{Op: op, Err: err}
}

// IsConfigurationError reports whether err is caused by missing configuration
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsInvalidIdentifier reports whether err is an identifier rejection
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

// IsClientError reports whether err was caused by the caller's input or
// configuration rather than a backing service
func IsClientError(err error) bool {
	return IsConfigurationError(err) || IsInvalidIdentifier(err)
}
