package driver

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/camrig/camrig/pkg/config"
)

// ErrNotRegistered means no driver is linked for a type tag.
var ErrNotRegistered = errors.New("no driver registered")

// Manager maps type tags to driver factories.
type Manager struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var manager = NewManager()

// GetManager gets manager singleton instance. Driver packages register
// themselves here from init, so a driver is available only when its
// package is imported.
func GetManager() *Manager {
	return manager
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		factories: make(map[string]Factory),
	}
}

// Register binds typ to f. Each tag can be registered once.
func (m *Manager) Register(typ string, f Factory) error {
	if typ == "" {
		return fmt.Errorf("driver type must not be empty")
	}
	if f == nil {
		return fmt.Errorf("driver %q: factory must not be nil", typ)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.factories[typ]; ok {
		return fmt.Errorf("driver %q is already registered", typ)
	}
	m.factories[typ] = f
	return nil
}

func (m *Manager) Lookup(typ string) (Factory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.factories[typ]
	return f, ok
}

// Make builds a camera with the factory registered for the config's type.
func (m *Manager) Make(cfg config.CameraConfig) (Camera, error) {
	f, ok := m.Lookup(cfg.Type())
	if !ok {
		return nil, fmt.Errorf("%w for type %q", ErrNotRegistered, cfg.Type())
	}
	return f(cfg)
}

// Types returns the registered tags, sorted.
func (m *Manager) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.factories))
	for t := range m.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
