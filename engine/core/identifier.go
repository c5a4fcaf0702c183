package core

import "github.com/google/uuid"

// NewPassID returns a fresh identifier for one import pass. Results, log
// lines and events of the same pass share it.
func NewPassID() string {
	return uuid.New().String()
}

// ParsePassID reports whether id looks like an identifier returned by NewPassID.
func ParsePassID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
