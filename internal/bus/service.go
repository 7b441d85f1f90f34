package bus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/ferretd/ferret-core/internal/daemon"
	"github.com/ferretd/ferret-core/internal/device"
)

// apiVersion is the protocol revision reported by the manager.
const apiVersion = 1

// Logger defines the logging interface used by the bus service.
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

// Service is the D-Bus face of the daemon. It owns the connection and
// the exported object tree; all object graph access goes through the
// daemon's reactor.
type Service struct {
	daemon *daemon.Daemon
	conn   *dbus.Conn
	logger Logger

	// connect is swappable so tests can run against a private bus.
	connect func() (*dbus.Conn, error)

	// emitHook observes every PropertiesChanged emission. Tests use it
	// to assert the signal stream without a live bus.
	emitHook func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant)
}

// New creates the bus service for a daemon. The service registers
// itself as the daemon's signaller.
func New(d *daemon.Daemon) *Service {
	s := &Service{
		daemon:  d,
		logger:  noopLogger{},
		connect: dbus.ConnectSystemBus,
	}
	d.SetSignaller(s)
	return s
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// Connect attaches to the bus, claims the well-known name and exports
// the object tree. ErrNameTaken means another daemon instance owns the
// name already.
func (s *Service) Connect() error {
	conn, err := s.connect()
	if err != nil {
		return fmt.Errorf("connecting to system bus: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("requesting name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return ErrNameTaken
	}

	s.conn = conn
	if err := s.export(); err != nil {
		conn.Close()
		return err
	}

	s.logger.Info("bus service up", "name", BusName, "root", string(RootPath))
	return nil
}

// Close releases the bus connection.
func (s *Service) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Service) export() error {
	props := propHandler{s}
	intro := introHandler{s}

	type export struct {
		v       interface{}
		path    dbus.ObjectPath
		iface   string
		subtree bool
	}
	exports := []export{
		{managerHandler{s}, RootPath, ifaceManager, false},
		{props, RootPath, ifaceProperties, false},
		{intro, RootPath, ifaceIntrospectable, false},
		{deviceHandler{s}, RootPath + "/device", ifaceDevice, true},
		{profileHandler{s}, RootPath + "/profile", ifaceProfile, true},
		{resolutionHandler{s}, RootPath + "/resolution", ifaceResolution, true},
	}
	for _, collection := range []string{"device", "profile", "resolution", "button", "led"} {
		base := RootPath + dbus.ObjectPath("/"+collection)
		exports = append(exports,
			export{props, base, ifaceProperties, true},
			export{intro, base, ifaceIntrospectable, true},
		)
	}

	for _, e := range exports {
		var err error
		if e.subtree {
			err = s.conn.ExportSubtree(e.v, e.path, e.iface)
		} else {
			err = s.conn.Export(e.v, e.path, e.iface)
		}
		if err != nil {
			return fmt.Errorf("exporting %s at %s: %w", e.iface, e.path, err)
		}
	}
	return nil
}

// emit sends a PropertiesChanged signal for one object.
func (s *Service) emit(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) {
	if s.emitHook != nil {
		s.emitHook(path, iface, changed)
	}
	if s.conn == nil {
		return
	}
	err := s.conn.Emit(path, ifaceProperties+".PropertiesChanged", iface, changed, []string{})
	if err != nil {
		s.logger.Warn("emitting PropertiesChanged", "path", string(path), "error", err)
	}
}

// Signaller implementation. Called on the reactor goroutine; reads of
// the object graph are safe here and only here.

// DevicesChanged implements daemon.Signaller.
func (s *Service) DevicesChanged() {
	devices := make([]dbus.ObjectPath, 0)
	for _, d := range s.daemon.Registry().List() {
		devices = append(devices, devicePath(d.Sysname()))
	}
	s.emit(RootPath, ifaceManager, map[string]dbus.Variant{
		"Devices": dbus.MakeVariant(devices),
	})
}

// DeviceResync implements daemon.Signaller.
func (s *Service) DeviceResync(sysname string) {
	if s.conn == nil {
		return
	}
	if err := s.conn.Emit(devicePath(sysname), ifaceDevice+".Resync"); err != nil {
		s.logger.Warn("emitting Resync", "sysname", sysname, "error", err)
	}
}

// ProfileDirty implements daemon.Signaller.
func (s *Service) ProfileDirty(sysname string, profileIndex uint, dirty bool) {
	s.emit(profilePath(sysname, profileIndex), ifaceProfile, map[string]dbus.Variant{
		"IsDirty": dbus.MakeVariant(dirty),
	})
}

// ActiveResolutionChanged implements daemon.Signaller.
func (s *Service) ActiveResolutionChanged(sysname string, profileIndex, resolutionIndex uint) {
	dev, err := s.daemon.Registry().Get(sysname)
	if err != nil {
		return
	}
	p := dev.Profile(profileIndex)
	if p == nil {
		return
	}
	for _, r := range p.Resolutions() {
		s.emit(resolutionPath(sysname, profileIndex, r.Index()), ifaceResolution, map[string]dbus.Variant{
			"IsActive": dbus.MakeVariant(r.Index() == resolutionIndex),
		})
	}
}

// Object graph lookups. Reactor-only.

func (s *Service) findDevice(sysname string) (*device.Device, *dbus.Error) {
	dev, err := s.daemon.Registry().Get(sysname)
	if err != nil {
		return nil, errUnknownObject
	}
	return dev, nil
}

func (s *Service) findProfile(sysname string, index uint) (*device.Profile, *dbus.Error) {
	dev, derr := s.findDevice(sysname)
	if derr != nil {
		return nil, derr
	}
	p := dev.Profile(index)
	if p == nil {
		return nil, errUnknownObject
	}
	return p, nil
}

func (s *Service) findResolution(n node) (*device.Resolution, *dbus.Error) {
	p, perr := s.findProfile(n.sysname, n.profile)
	if perr != nil {
		return nil, perr
	}
	r := p.Resolution(n.child)
	if r == nil {
		return nil, errUnknownObject
	}
	return r, nil
}

func (s *Service) findButton(n node) (*device.Button, *dbus.Error) {
	p, perr := s.findProfile(n.sysname, n.profile)
	if perr != nil {
		return nil, perr
	}
	b := p.Button(n.child)
	if b == nil {
		return nil, errUnknownObject
	}
	return b, nil
}

func (s *Service) findLed(n node) (*device.Led, *dbus.Error) {
	p, perr := s.findProfile(n.sysname, n.profile)
	if perr != nil {
		return nil, perr
	}
	l := p.Led(n.child)
	if l == nil {
		return nil, errUnknownObject
	}
	return l, nil
}

// objectProps computes the full property map of a node. Reactor-only.
func (s *Service) objectProps(n node) (map[string]dbus.Variant, *dbus.Error) {
	switch n.kind {
	case kindRoot:
		return managerProps(s.daemon.Registry()), nil
	case kindDevice:
		dev, derr := s.findDevice(n.sysname)
		if derr != nil {
			return nil, derr
		}
		return deviceProps(dev), nil
	case kindProfile:
		p, perr := s.findProfile(n.sysname, n.profile)
		if perr != nil {
			return nil, perr
		}
		return profileProps(p), nil
	case kindResolution:
		r, rerr := s.findResolution(n)
		if rerr != nil {
			return nil, rerr
		}
		return resolutionProps(r), nil
	case kindButton:
		b, berr := s.findButton(n)
		if berr != nil {
			return nil, berr
		}
		return buttonProps(b), nil
	case kindLed:
		l, lerr := s.findLed(n)
		if lerr != nil {
			return nil, lerr
		}
		return ledProps(l), nil
	default:
		return nil, errUnknownObject
	}
}
