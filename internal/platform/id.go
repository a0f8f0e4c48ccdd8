package platform

import "github.com/google/uuid"

// NewID returns a new catalog entry identifier.
func NewID() string {
	return uuid.New().String()
}
