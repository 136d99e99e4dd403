// Package engine holds the process-wide backend selection. The backend is
// chosen once at startup and stays fixed for the lifetime of the process;
// an attempt to switch to a different engine afterwards fails fast.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/backend/cpu"
)

// ErrAlreadyConfigured reports an attempt to switch the process-wide
// backend after it was fixed.
var ErrAlreadyConfigured = errors.New("engine: backend already configured")

var (
	mu     sync.Mutex
	active array.Backend
)

// Use fixes the process-wide backend. Calling Use again with a backend of
// the same name is a no-op; a different backend returns
// ErrAlreadyConfigured.
func Use(b array.Backend) error {
	mu.Lock()
	defer mu.Unlock()
	if active != nil && active.Name() != b.Name() {
		return fmt.Errorf("%w: %q is active, cannot switch to %q",
			ErrAlreadyConfigured, active.Name(), b.Name())
	}
	active = b
	return nil
}

// Active returns the process-wide backend, fixing the pure-Go engine when
// none was chosen yet.
func Active() array.Backend {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		active = cpu.New()
	}
	return active
}

// reset clears the selection. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	active = nil
}
