package snapshot

import (
	"context"
	"sync"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

// Memory keeps the snapshot in process memory. Used in tests and as the
// fallback backend when no durable store is configured.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, model.ErrNoSnapshot
	}
	return append([]byte(nil), m.data...), nil
}
