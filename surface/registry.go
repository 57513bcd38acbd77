// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/paint"
)

// FactoryFunc creates a TextureFactory. provider is the host's GPU device
// provider and may be nil for hosts without a GPU; CPU backends ignore it.
type FactoryFunc func(provider gpucontext.DeviceProvider) (TextureFactory, error)

// RegistryEntry represents a registered texture backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU backends (wgpu HAL)
	//   - 20: gg image buffers
	//   - 10: plain in-memory images
	Priority int

	// Factory creates texture factories.
	Factory FactoryFunc

	// Available reports if the backend is available on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// Registry manages registered texture backends.
//
// Backends register themselves from init so that hosts pick one by name
// or take the best available one without importing it explicitly:
//
//	func init() {
//	    surface.Register("hal", 100, halFactory, nil)
//	}
//
//	factory, err := surface.NewFactory(provider)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewFactory.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory FactoryFunc, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available backends sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// NewFactory creates a texture factory from the best available backend,
// falling back to lower priorities when a backend fails to initialize.
func NewFactory(provider gpucontext.DeviceProvider) (TextureFactory, error) {
	return globalRegistry.NewFactory(provider)
}

// NewFactoryByName creates a texture factory from a specific backend.
func NewFactoryByName(name string, provider gpucontext.DeviceProvider) (TextureFactory, error) {
	return globalRegistry.NewFactoryByName(name, provider)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory FactoryFunc, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns a copy of the entry for a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// NewFactory creates a texture factory from the best available backend.
func (r *Registry) NewFactory(provider gpucontext.DeviceProvider) (TextureFactory, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		f, err := r.NewFactoryByName(name, provider)
		if err == nil {
			paint.Logger().Info("surface: backend selected", "backend", name)
			return f, nil
		}
		paint.Logger().Debug("surface: backend skipped", "backend", name, "error", err)
		lastErr = err
	}
	return nil, lastErr
}

// NewFactoryByName creates a texture factory from a specific backend.
func (r *Registry) NewFactoryByName(name string, provider gpucontext.DeviceProvider) (TextureFactory, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(provider)
}

// sortedNames returns backend names sorted by priority (highest first),
// ties broken by name. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// init registers the built-in image backend.
func init() {
	Register("image", 10, func(gpucontext.DeviceProvider) (TextureFactory, error) {
		return ImageFactory{}, nil
	}, nil)
}
