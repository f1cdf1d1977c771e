package uvc

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// DeviceKey identifies a device by its bus position.
func DeviceKey(bus, address uint8) string {
	return fmt.Sprintf("%03d:%03d", bus, address)
}

// Registry keeps at most one open Device per key. The caller owns the registry and closes it
// when done.
type Registry struct {
	mu      sync.Mutex
	devices map[string]*Device
}

func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]*Device)}
}

// Acquire returns the device registered under key, calling open to create it if there is
// none.
func (r *Registry) Acquire(key string, open func() (*Device, error)) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.devices[key]; ok {
		return d, nil
	}
	d, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	r.devices[key] = d
	return d, nil
}

func (r *Registry) Get(key string) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[key]
	return d, ok
}

// Keys lists the registered keys in order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.devices))
	for k := range r.devices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Release closes and forgets the device under key. Releasing an unknown key is a no-op.
func (r *Registry) Release(key string) error {
	r.mu.Lock()
	d, ok := r.devices[key]
	delete(r.devices, key)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return d.Close()
}

// Close releases every device.
func (r *Registry) Close() error {
	r.mu.Lock()
	devices := r.devices
	r.devices = make(map[string]*Device)
	r.mu.Unlock()

	var errs []error
	for key, d := range devices {
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
