package hwdb

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ferretd/ferret-core/internal/device"
)

//go:embed devices.yaml
var embedded []byte

// Match is one hardware identifier tuple an entry claims.
type Match struct {
	// Bustype is "usb" or "bluetooth".
	Bustype string `yaml:"bustype"`
	Vendor  uint32 `yaml:"vendor"`
	Product uint32 `yaml:"product"`

	// Version pins the match to one HID version. Nil matches any.
	Version *uint32 `yaml:"version,omitempty"`
}

// Entry describes one supported device model.
type Entry struct {
	// Name is the marketing name, used instead of the HID descriptor
	// string when present.
	Name string `yaml:"name"`

	// Driver is the driver ID responsible for this model.
	Driver string `yaml:"driver"`

	// DeviceType is "mouse", "keyboard" or "other".
	DeviceType string `yaml:"device_type"`

	Matches []Match `yaml:"matches"`
}

// DB is the loaded device database.
type DB struct {
	entries []Entry
}

// Load parses the embedded database.
func Load() (*DB, error) {
	return parse(embedded)
}

func parse(data []byte) (*DB, error) {
	var doc struct {
		Devices []Entry `yaml:"devices"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing device database: %w", err)
	}

	for i, e := range doc.Devices {
		if e.Driver == "" {
			return nil, fmt.Errorf("device database entry %d (%q): missing driver", i, e.Name)
		}
		if len(e.Matches) == 0 {
			return nil, fmt.Errorf("device database entry %d (%q): no matches", i, e.Name)
		}
		for _, m := range e.Matches {
			if bustypeCode(m.Bustype) == 0 {
				return nil, fmt.Errorf("device database entry %d (%q): unknown bustype %q", i, e.Name, m.Bustype)
			}
		}
	}

	return &DB{entries: doc.Devices}, nil
}

// Len returns the number of entries.
func (db *DB) Len() int {
	return len(db.entries)
}

// Lookup finds the entry claiming the given hardware identifiers.
func (db *DB) Lookup(info device.Info) (*Entry, bool) {
	for i := range db.entries {
		e := &db.entries[i]
		for _, m := range e.Matches {
			if bustypeCode(m.Bustype) != info.Bustype {
				continue
			}
			if m.Vendor != info.Vendor || m.Product != info.Product {
				continue
			}
			if m.Version != nil && *m.Version != info.Version {
				continue
			}
			return e, true
		}
	}
	return nil, false
}

// Type returns the entry's device type as a model constant.
func (e *Entry) Type() device.DeviceType {
	switch e.DeviceType {
	case "mouse":
		return device.DeviceTypeMouse
	case "keyboard":
		return device.DeviceTypeKeyboard
	case "other":
		return device.DeviceTypeOther
	default:
		return device.DeviceTypeUnspecified
	}
}

func bustypeCode(name string) uint32 {
	switch name {
	case "usb":
		return 0x03
	case "bluetooth":
		return 0x05
	default:
		return 0
	}
}
