package id

import "github.com/google/uuid"

// GenerateID returns a random (version 4) UUID string.
func GenerateID() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed UUID.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
