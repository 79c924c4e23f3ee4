package idgen

import "github.com/google/uuid"

// Generator produces unique record identifiers that can be mocked for testing
type Generator interface {
	NewID() string
}

// UUIDGenerator issues UUIDv7 identifiers. UUIDv7 strings sort in creation
// order, which storage backends rely on to break timestamp ties.
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new identifier
func (g *UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the system random source fails
		return uuid.NewString()
	}
	return id.String()
}
