package device

import (
	"fmt"
	"sort"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds the attached devices keyed by sysname and iterates
// them in sysname order, so bus clients see a stable device list.
//
// The Registry is NOT internally synchronised; like the object graph
// it holds, it is owned by the daemon's reactor goroutine.
type Registry struct {
	devices map[string]*Device
	order   []string // sorted sysnames
	logger  Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Insert adds a probed device. Returns ErrDeviceExists if the sysname
// is already registered.
func (r *Registry) Insert(d *Device) error {
	sysname := d.Sysname()
	if _, exists := r.devices[sysname]; exists {
		return fmt.Errorf("%q: %w", sysname, ErrDeviceExists)
	}
	r.devices[sysname] = d
	r.order = append(r.order, sysname)
	sort.Strings(r.order)

	r.logger.Info("device registered",
		"sysname", sysname,
		"name", d.Name(),
		"model", d.Model(),
		"driver", d.Driver().ID(),
	)
	return nil
}

// Remove detaches a device by sysname and returns it. The device is
// marked removed so in-flight commit tasks holding the pointer fail
// softly instead of writing to vanished hardware.
func (r *Registry) Remove(sysname string) (*Device, error) {
	d, ok := r.devices[sysname]
	if !ok {
		return nil, fmt.Errorf("%q: %w", sysname, ErrDeviceNotFound)
	}
	delete(r.devices, sysname)
	for i, name := range r.order {
		if name == sysname {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	d.MarkRemoved()

	r.logger.Info("device removed", "sysname", sysname, "name", d.Name())
	return d, nil
}

// Get retrieves a device by sysname.
// Returns ErrDeviceNotFound if the device does not exist.
func (r *Registry) Get(sysname string) (*Device, error) {
	d, ok := r.devices[sysname]
	if !ok {
		return nil, fmt.Errorf("%q: %w", sysname, ErrDeviceNotFound)
	}
	return d, nil
}

// Has reports whether a device with the sysname is registered.
func (r *Registry) Has(sysname string) bool {
	_, ok := r.devices[sysname]
	return ok
}

// List returns the attached devices in sysname order.
func (r *Registry) List() []*Device {
	devices := make([]*Device, 0, len(r.devices))
	for _, sysname := range r.order {
		devices = append(devices, r.devices[sysname])
	}
	return devices
}

// Len returns the number of attached devices.
func (r *Registry) Len() int {
	return len(r.devices)
}
