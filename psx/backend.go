package psx

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// BackendConfig carries everything a transport backend may need to open the
// wire. Line offsets follow the GPIO character-device numbering; backends
// that need no hardware (the simulator) ignore them.
type BackendConfig struct {
	// Device is the chip device path, e.g. /dev/gpiochip0.
	Device string

	ClockLine     int
	CommandLine   int
	AttentionLine int
	DataLine      int
	AckLine       int

	// Frames, when set, receives every raw frame on the wire.
	Frames FrameLogger
}

// BackendFactory opens a transport for one controller. The returned transport
// may additionally implement io.Closer; CloseTransport handles that.
type BackendFactory func(cfg BackendConfig) (Transport, error)

var (
	backendRegistry   = make(map[string]BackendFactory)
	backendRegistryMu sync.RWMutex
)

// RegisterBackend registers a transport backend for lookup by name. This
// should be called from backend package init() functions. Names are
// case-insensitive.
func RegisterBackend(name string, f BackendFactory) {
	backendRegistryMu.Lock()
	defer backendRegistryMu.Unlock()
	backendRegistry[toLower(name)] = f
}

// OpenBackend opens a transport by registered backend name.
func OpenBackend(name string, cfg BackendConfig) (Transport, error) {
	backendRegistryMu.RLock()
	f := backendRegistry[toLower(name)]
	backendRegistryMu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, ListBackends())
	}
	return f(cfg)
}

// ListBackends returns the registered backend names, sorted.
func ListBackends() []string {
	backendRegistryMu.RLock()
	defer backendRegistryMu.RUnlock()
	names := make([]string, 0, len(backendRegistry))
	for name := range backendRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloseTransport closes a transport when its backend holds resources.
func CloseTransport(t Transport) error {
	if c, ok := t.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
