package board

import (
	"strconv"
	"strings"
	"sync"
)

// ResourceID names a bus or a pin, for example "hspi" or "gpio21".
type ResourceID string

// Buses on the ESP32 based boards.
const (
	BusHSPI     ResourceID = "hspi"      // hardware SPI2, display
	BusVSPI     ResourceID = "vspi"      // hardware SPI3, SD card
	BusTouchSPI ResourceID = "touch-spi" // bit-banged SPI, resistive touch
	BusI2C0     ResourceID = "i2c0"      // hardware I2C, capacitive touch
)

// GPIO returns the resource ID for pin number n.
func GPIO(n int) ResourceID {
	return ResourceID("gpio" + strconv.Itoa(n))
}

// IsBus reports whether this resource is a bus, as opposed to a single pin.
func (id ResourceID) IsBus() bool {
	return !strings.HasPrefix(string(id), "gpio")
}

// Registry tracks which subsystem owns each bus and pin. A resource has at
// most one owner at a time; the bus controllers on this chip are single
// master, so sharing a bus between subsystems is never allowed.
type Registry struct {
	mu     sync.Mutex
	owners map[ResourceID]Subsystem
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[ResourceID]Subsystem)}
}

// Claim gives ownership of the resource to the given subsystem. Claiming a
// resource the subsystem already owns is a no-op.
func (r *Registry) Claim(owner Subsystem, id ResourceID) error {
	if id == "" {
		return wrapErr(ErrUnknownResource, owner, "claim", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.owners[id]; ok && cur != owner {
		code := ErrPinInUse
		if id.IsBus() {
			code = ErrBusInUse
		}
		return wrapErr(code, owner, "claim "+string(id)+" held by "+string(cur), nil)
	}
	r.owners[id] = owner
	return nil
}

// ClaimAll claims all resources, or none of them if any claim fails.
func (r *Registry) ClaimAll(owner Subsystem, ids []ResourceID) error {
	for i, id := range ids {
		if err := r.Claim(owner, id); err != nil {
			for _, claimed := range ids[:i] {
				r.Release(owner, claimed)
			}
			return err
		}
	}
	return nil
}

// Release gives up ownership. Releasing a resource owned by someone else (or
// by no one) does nothing.
func (r *Registry) Release(owner Subsystem, id ResourceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owners[id] == owner {
		delete(r.owners, id)
	}
}

// ReleaseAll releases every resource held by owner.
func (r *Registry) ReleaseAll(owner Subsystem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cur := range r.owners {
		if cur == owner {
			delete(r.owners, id)
		}
	}
}

// Owner returns the current owner of a resource.
func (r *Registry) Owner(id ResourceID) (Subsystem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[id]
	return owner, ok
}

// Len returns the number of claimed resources.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners)
}
