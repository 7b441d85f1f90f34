package device

import "fmt"

// Driver is the hardware access contract. One driver instance serves
// all devices it claims; per-device state lives in Device.DriverData.
//
// Drivers are called only from the daemon's reactor goroutine and need
// no internal locking.
type Driver interface {
	// Name is the human readable driver name.
	Name() string

	// ID is the stable identifier used by the device database.
	ID() string

	// Probe claims the device: verify the hardware, build the profile
	// tree and fill it with current hardware state. Returning
	// ErrNoDevice declines the device without treating it as a
	// failure.
	Probe(*Device) error

	// Commit writes all dirty state to the hardware in one
	// transaction. Drivers walk the dirty flags and write only what
	// changed, in the order rate, resolutions, buttons, LEDs.
	Commit(*Device) error

	// Remove releases driver resources for a detached device.
	Remove(*Device)
}

// ActiveProfileSetter is implemented by drivers whose hardware can
// switch profiles from software.
type ActiveProfileSetter interface {
	SetActiveProfile(d *Device, index uint) error
}

// ResolutionRefresher is implemented by drivers that can ask the
// hardware which resolution is currently active. The poll loop uses it
// to track DPI changes made with the mouse's own buttons. Changed
// reports whether the active resolution moved since the last call.
type ResolutionRefresher interface {
	RefreshActiveResolution(d *Device) (changed bool, err error)
}

// Table is a driver registry. Each daemon instance builds its own so
// tests can load synthetic drivers without touching global state.
type Table struct {
	drivers map[string]Driver
	order   []string
}

// NewTable creates an empty driver table.
func NewTable() *Table {
	return &Table{drivers: make(map[string]Driver)}
}

// Register adds a driver under its ID. Registering the same ID twice
// is an error.
func (t *Table) Register(drv Driver) error {
	id := drv.ID()
	if _, exists := t.drivers[id]; exists {
		return fmt.Errorf("driver %q: %w", id, ErrDeviceExists)
	}
	t.drivers[id] = drv
	t.order = append(t.order, id)
	return nil
}

// Lookup returns the driver registered under id.
func (t *Table) Lookup(id string) (Driver, bool) {
	drv, ok := t.drivers[id]
	return drv, ok
}

// IDs returns the registered driver IDs in registration order.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}
