package hotplug

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jochenvg/go-udev"

	"github.com/ferretd/ferret-core/internal/device"
)

// Logger defines the logging interface used by the monitor.
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

// Action is the kind of hotplug event.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Event is one device arriving or departing.
type Event struct {
	Action Action
	Info   device.Info
}

// Monitor streams hotplug events for hidraw nodes.
type Monitor struct {
	udev   udev.Udev
	logger Logger
}

// NewMonitor creates a hotplug monitor.
func NewMonitor() *Monitor {
	return &Monitor{logger: noopLogger{}}
}

// SetLogger sets the logger for the monitor.
func (m *Monitor) SetLogger(logger Logger) {
	m.logger = logger
}

// Start enumerates the present hidraw devices, replays them as attach
// events and then streams netlink events until ctx is cancelled. The
// returned channel closes when the stream ends.
func (m *Monitor) Start(ctx context.Context) (<-chan Event, error) {
	mon := m.udev.NewMonitorFromNetlink("udev")
	if mon == nil {
		return nil, fmt.Errorf("hotplug: creating udev monitor")
	}
	if err := mon.FilterAddMatchSubsystem("hidraw"); err != nil {
		return nil, fmt.Errorf("hotplug: filtering for hidraw: %w", err)
	}
	devices, err := mon.DeviceChan(ctx)
	if err != nil {
		return nil, fmt.Errorf("hotplug: binding udev monitor: %w", err)
	}

	present, err := m.enumerate()
	if err != nil {
		return nil, err
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		for _, info := range present {
			select {
			case events <- Event{Action: ActionAdd, Info: info}:
			case <-ctx.Done():
				return
			}
		}
		for d := range devices {
			m.forward(ctx, d, events)
		}
	}()
	return events, nil
}

// enumerate lists the hidraw devices already present at startup.
func (m *Monitor) enumerate() ([]device.Info, error) {
	e := m.udev.NewEnumerate()
	if err := e.AddMatchSubsystem("hidraw"); err != nil {
		return nil, fmt.Errorf("hotplug: enumerating hidraw: %w", err)
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("hotplug: enumerating hidraw: %w", err)
	}

	var infos []device.Info
	for _, d := range devices {
		info, err := infoFromDevice(d)
		if err != nil {
			m.logger.Debug("skipping hidraw node", "sysname", d.Sysname(), "reason", err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (m *Monitor) forward(ctx context.Context, d *udev.Device, events chan<- Event) {
	action := actionFor(d.Action())

	info, err := infoFromDevice(d)
	if err != nil {
		// Removal events for a half-gone node may lack the HID
		// parent; the sysname is all the registry needs to drop it.
		if action == ActionRemove {
			info = device.Info{Sysname: d.Sysname()}
		} else {
			m.logger.Debug("ignoring hidraw event", "sysname", d.Sysname(), "reason", err)
			return
		}
	}

	m.logger.Debug("hotplug event", "action", string(action), "sysname", info.Sysname)
	select {
	case events <- Event{Action: action, Info: info}:
	case <-ctx.Done():
	}
}

// actionFor maps a udev action onto an event action. Only "remove"
// detaches; everything else ("add", "change", "bind") is a chance to
// claim a node not held yet, and the daemon's registry check makes
// repeats harmless.
func actionFor(udevAction string) Action {
	if udevAction == "remove" {
		return ActionRemove
	}
	return ActionAdd
}

// infoFromDevice builds the hardware identity from a hidraw node and
// its HID parent.
func infoFromDevice(d *udev.Device) (device.Info, error) {
	parent := d.ParentWithSubsystemDevtype("hid", "")
	if parent == nil {
		return device.Info{}, fmt.Errorf("hidraw node %s has no hid parent", d.Sysname())
	}

	bustype, vendor, product, err := ParseHIDID(parent.PropertyValue("HID_ID"))
	if err != nil {
		return device.Info{}, err
	}

	return device.Info{
		Sysname: d.Sysname(),
		Devnode: d.Devnode(),
		Name:    parent.PropertyValue("HID_NAME"),
		Bustype: bustype,
		Vendor:  vendor,
		Product: product,
	}, nil
}

// ParseHIDID splits the kernel's HID_ID property, three colon
// separated hex fields like "0003:0000046D:0000C539", into bustype,
// vendor and product.
func ParseHIDID(id string) (bustype, vendor, product uint32, err error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed HID_ID %q", id)
	}
	fields := [3]uint32{}
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("malformed HID_ID %q: %w", id, err)
		}
		fields[i] = uint32(v)
	}
	return fields[0], fields[1], fields[2], nil
}
