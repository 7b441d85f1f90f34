package bus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
)

// Well-known name and object tree layout.
const (
	BusName  = "org.ferretd.Ferret1"
	RootPath = dbus.ObjectPath("/org/ferretd/ferret1")

	ifaceManager    = BusName + ".Manager"
	ifaceDevice     = BusName + ".Device"
	ifaceProfile    = BusName + ".Profile"
	ifaceResolution = BusName + ".Resolution"
	ifaceButton     = BusName + ".Button"
	ifaceLed        = BusName + ".Led"

	ifaceProperties     = "org.freedesktop.DBus.Properties"
	ifaceIntrospectable = "org.freedesktop.DBus.Introspectable"
)

// kind classifies a node in the object tree.
type kind int

const (
	kindRoot kind = iota
	kindCollection // /device, /profile, ... without a sysname
	kindSysname    // /profile/<sysname> style intermediate nodes
	kindDevice
	kindProfile
	kindResolution
	kindButton
	kindLed
)

// node is a decoded object path.
type node struct {
	kind       kind
	collection string // "device", "profile", "resolution", "button", "led"
	sysname    string
	profile    uint
	child      uint

	// withProfile marks the three segment intermediate nodes of the
	// resolution, button and led collections, where profile is valid
	// but child is not.
	withProfile bool
}

func devicePath(sysname string) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s/device/%s", RootPath, sysname))
}

func profilePath(sysname string, profile uint) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s/profile/%s/p%d", RootPath, sysname, profile))
}

func resolutionPath(sysname string, profile, resolution uint) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s/resolution/%s/p%d/r%d", RootPath, sysname, profile, resolution))
}

func buttonPath(sysname string, profile, button uint) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s/button/%s/p%d/b%d", RootPath, sysname, profile, button))
}

func ledPath(sysname string, profile, led uint) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s/led/%s/p%d/l%d", RootPath, sysname, profile, led))
}

// childMarker maps a collection to the letter prefixing its child
// index segment.
var childMarker = map[string]byte{
	"resolution": 'r',
	"button":     'b',
	"led":        'l',
}

// parsePath decodes an object path into a tree node. It accepts
// intermediate nodes so introspection can walk the tree; unknown
// shapes report false.
func parsePath(path dbus.ObjectPath) (node, bool) {
	if path == RootPath {
		return node{kind: kindRoot}, true
	}
	rest, ok := strings.CutPrefix(string(path), string(RootPath)+"/")
	if !ok {
		return node{}, false
	}

	parts := strings.Split(rest, "/")
	collection := parts[0]
	switch collection {
	case "device", "profile", "resolution", "button", "led":
	default:
		return node{}, false
	}

	n := node{collection: collection}
	switch len(parts) {
	case 1:
		n.kind = kindCollection
		return n, true
	case 2:
		n.sysname = parts[1]
		if collection == "device" {
			n.kind = kindDevice
		} else {
			n.kind = kindSysname
		}
		return n, n.sysname != ""
	case 3:
		if collection != "profile" {
			// resolution/button/led need the child segment too; a
			// three segment path is their intermediate profile node.
			n.sysname = parts[1]
			profile, ok := parseIndex(parts[2], 'p')
			if !ok || collection == "device" {
				return node{}, false
			}
			n.kind = kindSysname
			n.profile = profile
			n.withProfile = true
			return n, true
		}
		n.sysname = parts[1]
		profile, ok := parseIndex(parts[2], 'p')
		if !ok {
			return node{}, false
		}
		n.kind = kindProfile
		n.profile = profile
		return n, true
	case 4:
		marker, ok := childMarker[collection]
		if !ok {
			return node{}, false
		}
		n.sysname = parts[1]
		profile, pok := parseIndex(parts[2], 'p')
		child, cok := parseIndex(parts[3], marker)
		if !pok || !cok {
			return node{}, false
		}
		n.profile = profile
		n.child = child
		switch collection {
		case "resolution":
			n.kind = kindResolution
		case "button":
			n.kind = kindButton
		case "led":
			n.kind = kindLed
		}
		return n, true
	}
	return node{}, false
}

// parseIndex decodes an index segment like "p0" or "r12".
func parseIndex(segment string, marker byte) (uint, bool) {
	if len(segment) < 2 || segment[0] != marker {
		return 0, false
	}
	v, err := strconv.ParseUint(segment[1:], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// iface returns the primary interface served at this node, or "" for
// intermediate nodes.
func (n node) iface() string {
	switch n.kind {
	case kindRoot:
		return ifaceManager
	case kindDevice:
		return ifaceDevice
	case kindProfile:
		return ifaceProfile
	case kindResolution:
		return ifaceResolution
	case kindButton:
		return ifaceButton
	case kindLed:
		return ifaceLed
	default:
		return ""
	}
}
