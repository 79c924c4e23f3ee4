package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/slotmachine-go/internal/dependencies/idgen"
)

// MockIDs is a deterministic id generator for testing. IDs are zero-padded so
// they sort in issue order, like the real generator.
type MockIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// Ensure MockIDs implements Generator
var _ idgen.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs issuing "<prefix>000001", "<prefix>000002", ...
func NewMockIDs(prefix string) *MockIDs {
	return &MockIDs{prefix: prefix}
}

// NewID returns the next sequential id
func (g *MockIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s%06d", g.prefix, g.next)
}
