package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Provider for tests and single-instance development setups.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

func NewMemory() *Memory {
	return &Memory{items: map[string]memoryItem{}}
}

func (m *Memory) GetJSON(_ context.Context, key string, out interface{}) (bool, error) {
	m.mu.Lock()
	item, ok := m.items[key]
	if ok && !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(item.value, out)
}

func (m *Memory) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	item := memoryItem{value: b}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
