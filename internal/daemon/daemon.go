package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/ferretd/ferret-core/internal/device"
	"github.com/ferretd/ferret-core/internal/drivers/steelfang"
	"github.com/ferretd/ferret-core/internal/drivers/testdev"
	"github.com/ferretd/ferret-core/internal/hotplug"
	"github.com/ferretd/ferret-core/internal/hwdb"
)

// defaultPollInterval is how often the daemon asks each device which
// resolution its hardware buttons selected.
const defaultPollInterval = 2 * time.Second

// Logger defines the logging interface used by the daemon.
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

// Signaller receives change notifications from the reactor. The bus
// layer implements it and turns the calls into D-Bus signals; tests
// substitute a recorder. All methods are invoked on the reactor
// goroutine and must not call back into the daemon.
type Signaller interface {
	// DevicesChanged fires when a device attached or detached.
	DevicesChanged()

	// DeviceResync fires when the model was re-read from the hardware
	// and clients should drop every cached property of the device.
	DeviceResync(sysname string)

	// ProfileDirty fires when a profile's dirty flag changed.
	ProfileDirty(sysname string, profileIndex uint, dirty bool)

	// ActiveResolutionChanged fires when the hardware moved its active
	// resolution slot, typically via the mouse's own DPI button.
	ActiveResolutionChanged(sysname string, profileIndex, resolutionIndex uint)
}

// noopSignaller discards all notifications.
type noopSignaller struct{}

func (noopSignaller) DevicesChanged()                            {}
func (noopSignaller) DeviceResync(string)                        {}
func (noopSignaller) ProfileDirty(string, uint, bool)            {}
func (noopSignaller) ActiveResolutionChanged(string, uint, uint) {}

// Options configures a daemon.
type Options struct {
	// Developer enables the test device loader.
	Developer bool

	// PollInterval overrides the resolution poll period. Zero keeps
	// the default of two seconds.
	PollInterval time.Duration

	// RawOutput makes the wire drivers hex-dump every HID report at
	// debug level.
	RawOutput bool

	Logger    Logger
	Signaller Signaller
}

// Daemon is the reactor owning all device state.
type Daemon struct {
	logger    Logger
	signaller Signaller

	registry *device.Registry
	drivers  *device.Table
	db       *hwdb.DB

	developer    bool
	pollInterval time.Duration

	tasks   chan func()
	stopped chan struct{}
}

// New creates a daemon with the built-in drivers and the embedded
// device database.
func New(opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	signaller := opts.Signaller
	if signaller == nil {
		signaller = noopSignaller{}
	}
	pollInterval := opts.PollInterval
	if pollInterval == 0 {
		pollInterval = defaultPollInterval
	}

	db, err := hwdb.Load()
	if err != nil {
		return nil, fmt.Errorf("loading device database: %w", err)
	}

	drivers := device.NewTable()
	wire := steelfang.New()
	wire.SetLogger(logger)
	wire.SetRawOutput(opts.RawOutput)
	if err := drivers.Register(wire); err != nil {
		return nil, err
	}
	if err := drivers.Register(testdev.New()); err != nil {
		return nil, err
	}

	registry := device.NewRegistry()
	registry.SetLogger(logger)

	return &Daemon{
		logger:       logger,
		signaller:    signaller,
		registry:     registry,
		drivers:      drivers,
		db:           db,
		developer:    opts.Developer,
		pollInterval: pollInterval,
		tasks:        make(chan func(), 16),
		stopped:      make(chan struct{}),
	}, nil
}

// SetSignaller replaces the signaller. Call before Run; the bus layer
// uses it to break the construction cycle between daemon and bus.
func (d *Daemon) SetSignaller(s Signaller) {
	d.signaller = s
}

// Registry exposes the device registry. Reactor-owned: touch it only
// from closures passed to Call.
func (d *Daemon) Registry() *device.Registry {
	return d.registry
}

// Run processes hotplug events and submitted tasks until ctx is
// cancelled. events may be nil when hotplug is disabled.
func (d *Daemon) Run(ctx context.Context, events <-chan hotplug.Event) error {
	defer close(d.stopped)

	d.armPoll(ctx)
	d.logger.Info("reactor running", "drivers", d.drivers.IDs(), "known_models", d.db.Len())

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("reactor stopping")
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			d.handleHotplug(ev)
		case task := <-d.tasks:
			task()
		}
	}
}

// Call runs fn on the reactor goroutine and waits for it to finish.
// Must not be called from the reactor itself.
func (d *Daemon) Call(fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}
	select {
	case d.tasks <- task:
	case <-d.stopped:
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-d.stopped:
		return ErrStopped
	}
}

// submit queues fn without waiting. Drops the task when the reactor is
// gone.
func (d *Daemon) submit(ctx context.Context, fn func()) {
	select {
	case d.tasks <- fn:
	case <-ctx.Done():
	case <-d.stopped:
	}
}

func (d *Daemon) handleHotplug(ev hotplug.Event) {
	switch ev.Action {
	case hotplug.ActionAdd:
		d.attach(ev.Info)
	case hotplug.ActionRemove:
		d.detach(ev.Info.Sysname)
	}
}

// attach claims new hardware: database lookup, driver probe, sanity
// check, registration. Unknown or broken devices are logged and left
// alone.
func (d *Daemon) attach(info device.Info) {
	if d.registry.Has(info.Sysname) {
		return
	}

	entry, ok := d.db.Lookup(info)
	if !ok {
		d.logger.Debug("ignoring unknown device",
			"sysname", info.Sysname, "vendor", fmt.Sprintf("%04x", info.Vendor),
			"product", fmt.Sprintf("%04x", info.Product))
		return
	}
	drv, ok := d.drivers.Lookup(entry.Driver)
	if !ok {
		d.logger.Warn("device database names unknown driver",
			"sysname", info.Sysname, "driver", entry.Driver)
		return
	}

	dev := device.New(info)
	if entry.Name != "" {
		dev.SetName(entry.Name)
	}
	dev.SetDeviceType(entry.Type())
	dev.SetDriver(drv)

	if err := drv.Probe(dev); err != nil {
		d.logger.Warn("probe failed", "sysname", info.Sysname, "driver", drv.ID(), "error", err)
		return
	}
	if err := device.SanityCheck(dev); err != nil {
		d.logger.Error("driver produced incoherent device", "sysname", info.Sysname, "error", err)
		return
	}
	if err := d.registry.Insert(dev); err != nil {
		d.logger.Warn("registering device", "sysname", info.Sysname, "error", err)
		return
	}
	d.signaller.DevicesChanged()
}

func (d *Daemon) detach(sysname string) {
	dev, err := d.registry.Remove(sysname)
	if err != nil {
		return
	}
	dev.Driver().Remove(dev)
	d.signaller.DevicesChanged()
}

// armPoll schedules the next resolution poll. The poll re-arms itself
// from its own callback, so a slow poll delays the next one instead of
// stacking up.
func (d *Daemon) armPoll(ctx context.Context) {
	time.AfterFunc(d.pollInterval, func() {
		d.submit(ctx, func() {
			d.pollDevices()
			d.armPoll(ctx)
		})
	})
}

// pollDevices asks every capable device whether its hardware moved the
// active resolution since the last look.
func (d *Daemon) pollDevices() {
	for _, dev := range d.registry.List() {
		refresher, ok := dev.Driver().(device.ResolutionRefresher)
		if !ok {
			continue
		}
		changed, err := refresher.RefreshActiveResolution(dev)
		if err != nil {
			d.logger.Warn("resolution poll failed", "sysname", dev.Sysname(), "error", err)
			continue
		}
		if !changed {
			continue
		}
		p := dev.ActiveProfile()
		if p == nil {
			continue
		}
		r := p.ActiveResolution()
		if r == nil {
			continue
		}
		d.logger.Debug("hardware moved active resolution",
			"sysname", dev.Sysname(), "profile", p.Index(), "resolution", r.Index())
		d.signaller.ActiveResolutionChanged(dev.Sysname(), p.Index(), r.Index())
	}
}
