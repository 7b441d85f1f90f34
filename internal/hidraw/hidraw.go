package hidraw

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sstallion/go-hid"
)

// Logger defines the logging interface used by the Node.
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

// Init initialises the underlying HID library. Call once at daemon
// startup, paired with Exit on shutdown.
func Init() error {
	if err := hid.Init(); err != nil {
		return fmt.Errorf("initialising hid: %w", err)
	}
	return nil
}

// Exit releases the underlying HID library.
func Exit() error {
	if err := hid.Exit(); err != nil {
		return fmt.Errorf("shutting down hid: %w", err)
	}
	return nil
}

// Node is a handle-less reference to one hidraw device node.
type Node struct {
	path   string
	logger Logger
	raw    bool
}

// NewNode creates a reference to the given device node, e.g.
// "/dev/hidraw0". The node is not opened until the first transaction.
func NewNode(devnode string) *Node {
	return &Node{
		path:   devnode,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the node.
func (n *Node) SetLogger(logger Logger) {
	n.logger = logger
}

// SetRawOutput enables hex dumps of all transferred reports at debug
// level.
func (n *Node) SetRawOutput(enabled bool) {
	n.raw = enabled
}

// Path returns the device node path.
func (n *Node) Path() string {
	return n.path
}

// withDevice opens the node, runs fn and closes it again.
func (n *Node) withDevice(fn func(*hid.Device) error) error {
	dev, err := hid.OpenPath(n.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", n.path, err)
	}
	defer func() {
		if closeErr := dev.Close(); closeErr != nil {
			n.logger.Warn("error closing hidraw node", "path", n.path, "error", closeErr)
		}
	}()
	return fn(dev)
}

// GetFeatureReport reads a feature report. The returned slice starts
// with the report ID and holds at most size bytes.
func (n *Node) GetFeatureReport(reportID byte, size int) ([]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("get feature report from %s: size %d too small", n.path, size)
	}
	buf := make([]byte, size)
	buf[0] = reportID

	var read int
	err := n.withDevice(func(dev *hid.Device) error {
		var err error
		read, err = dev.GetFeatureReport(buf)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get feature report %#02x from %s: %w", reportID, n.path, err)
	}

	report := buf[:read]
	if n.raw {
		n.logger.Debug("hid get feature", "path", n.path, "report", hex.EncodeToString(report))
	}
	return report, nil
}

// SendFeatureReport writes a feature report. data[0] is the report ID.
func (n *Node) SendFeatureReport(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("send feature report to %s: empty report", n.path)
	}
	if n.raw {
		n.logger.Debug("hid send feature", "path", n.path, "report", hex.EncodeToString(data))
	}

	err := n.withDevice(func(dev *hid.Device) error {
		_, err := dev.SendFeatureReport(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("send feature report %#02x to %s: %w", data[0], n.path, err)
	}
	return nil
}

// Write sends an output report. data[0] is the report ID.
func (n *Node) Write(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("write to %s: empty report", n.path)
	}
	if n.raw {
		n.logger.Debug("hid write", "path", n.path, "report", hex.EncodeToString(data))
	}

	err := n.withDevice(func(dev *hid.Device) error {
		_, err := dev.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("write report %#02x to %s: %w", data[0], n.path, err)
	}
	return nil
}

// Read reads an input report, waiting at most timeout.
func (n *Node) Read(size int, timeout time.Duration) ([]byte, error) {
	buf := make([]byte, size)

	var read int
	err := n.withDevice(func(dev *hid.Device) error {
		var err error
		read, err = dev.ReadWithTimeout(buf, timeout)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read from %s: %w", n.path, err)
	}

	report := buf[:read]
	if n.raw {
		n.logger.Debug("hid read", "path", n.path, "report", hex.EncodeToString(report))
	}
	return report, nil
}
