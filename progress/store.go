package progress

import (
	"encoding/json"
	"sync"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/metafates/gache"
)

// Store is a durable key-value port. Get reports whether the key was present.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// GacheStore keeps every key in a single JSON file.
type GacheStore struct {
	mu       sync.Mutex
	internal *gache.Cache[map[string]json.RawMessage]
}

// NewGacheStore returns a store persisted at path.
func NewGacheStore(path string) *GacheStore {
	return &GacheStore{
		internal: gache.New[map[string]json.RawMessage](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (g *GacheStore) Get(key string) ([]byte, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cached, expired, err := g.internal.Get()
	if err != nil {
		return nil, false, err
	}

	if expired || cached == nil {
		return nil, false, nil
	}

	value, ok := cached[key]
	return value, ok, nil
}

func (g *GacheStore) Set(key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cached, expired, err := g.internal.Get()
	if err != nil || expired || cached == nil {
		cached = make(map[string]json.RawMessage)
	}

	cached[key] = value
	return g.internal.Set(cached)
}

// MemoryStore is a Store that lives as long as the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[key]
	return append([]byte(nil), value...), ok, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}
