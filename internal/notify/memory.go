package notify

import (
	"context"
	"fmt"
	"sync"
)

// MemoryEvents records published payloads for inspection in tests.
type MemoryEvents struct {
	mu       sync.RWMutex
	payloads []any
}

// NewMemoryEvents returns an empty recorder.
func NewMemoryEvents() *MemoryEvents {
	return &MemoryEvents{}
}

// Publish records the payload and returns a pseudo ID.
func (m *MemoryEvents) Publish(_ context.Context, payload any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return fmt.Sprintf("memory-%d", len(m.payloads)), nil
}

// Payloads returns a copy of the recorded payloads.
func (m *MemoryEvents) Payloads() []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]any, len(m.payloads))
	copy(out, m.payloads)
	return out
}
