package domain

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// SanitizeIdentifier returns identifier unchanged when it only contains
// letters, digits and underscores. Table names are interpolated into SQL text,
// so everything else is rejected.
func SanitizeIdentifier(identifier string) (string, error) {
	if !identifierPattern.MatchString(identifier) {
		return "", &InvalidIdentifierError{Identifier: identifier}
	}
	return identifier, nil
}
