package core

import (
	"fmt"

	"github.com/google/uuid"
)

// NewIdentifier returns a fresh unique name for renderer-side resources.
func NewIdentifier() string {
	return uuid.NewString()
}

// NewNamedIdentifier prefixes a fresh identifier with a readable name.
func NewNamedIdentifier(name string) string {
	if name == "" {
		return NewIdentifier()
	}
	return fmt.Sprintf("%s-%s", name, uuid.NewString())
}

// IsIdentifier reports whether s is a bare identifier produced by NewIdentifier.
func IsIdentifier(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
