package bus

import (
	"encoding/xml"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

var managerIface = introspect.Interface{
	Name: ifaceManager,
	Methods: []introspect.Method{
		{Name: "LoadTestDevice", Args: []introspect.Arg{
			{Name: "descriptor", Type: "s", Direction: "in"},
			{Name: "status", Type: "i", Direction: "out"},
		}},
	},
	Properties: []introspect.Property{
		{Name: "APIVersion", Type: "i", Access: "read"},
		{Name: "Devices", Type: "ao", Access: "read"},
	},
}

var deviceIface = introspect.Interface{
	Name: ifaceDevice,
	Methods: []introspect.Method{
		{Name: "Commit", Args: []introspect.Arg{
			{Name: "status", Type: "u", Direction: "out"},
		}},
	},
	Signals: []introspect.Signal{
		{Name: "Resync"},
	},
	Properties: []introspect.Property{
		{Name: "Model", Type: "s", Access: "read"},
		{Name: "DeviceType", Type: "u", Access: "read"},
		{Name: "Name", Type: "s", Access: "read"},
		{Name: "FirmwareVersion", Type: "s", Access: "read"},
		{Name: "Profiles", Type: "ao", Access: "read"},
	},
}

var profileIface = introspect.Interface{
	Name: ifaceProfile,
	Methods: []introspect.Method{
		{Name: "SetActive", Args: []introspect.Arg{
			{Name: "status", Type: "u", Direction: "out"},
		}},
	},
	Properties: []introspect.Property{
		{Name: "Index", Type: "u", Access: "read"},
		{Name: "Name", Type: "s", Access: "readwrite"},
		{Name: "Capabilities", Type: "au", Access: "read"},
		{Name: "Resolutions", Type: "ao", Access: "read"},
		{Name: "Buttons", Type: "ao", Access: "read"},
		{Name: "Leds", Type: "ao", Access: "read"},
		{Name: "IsActive", Type: "b", Access: "read"},
		{Name: "IsDirty", Type: "b", Access: "read"},
		{Name: "Disabled", Type: "b", Access: "readwrite"},
		{Name: "ReportRate", Type: "u", Access: "readwrite"},
		{Name: "ReportRates", Type: "au", Access: "read"},
		{Name: "AngleSnapping", Type: "i", Access: "readwrite"},
		{Name: "Debounce", Type: "i", Access: "readwrite"},
		{Name: "Debounces", Type: "au", Access: "read"},
	},
}

var resolutionIface = introspect.Interface{
	Name: ifaceResolution,
	Methods: []introspect.Method{
		{Name: "SetActive", Args: []introspect.Arg{
			{Name: "status", Type: "u", Direction: "out"},
		}},
		{Name: "SetDefault", Args: []introspect.Arg{
			{Name: "status", Type: "u", Direction: "out"},
		}},
		{Name: "SetDpiShiftTarget", Args: []introspect.Arg{
			{Name: "status", Type: "u", Direction: "out"},
		}},
		{Name: "SetDisabled", Args: []introspect.Arg{
			{Name: "disabled", Type: "b", Direction: "in"},
			{Name: "status", Type: "u", Direction: "out"},
		}},
	},
	Properties: []introspect.Property{
		{Name: "Index", Type: "u", Access: "read"},
		{Name: "Capabilities", Type: "au", Access: "read"},
		{Name: "Dpi", Type: "v", Access: "readwrite"},
		{Name: "MinDpi", Type: "u", Access: "read"},
		{Name: "MaxDpi", Type: "u", Access: "read"},
		{Name: "Dpis", Type: "au", Access: "read"},
		{Name: "IsActive", Type: "b", Access: "read"},
		{Name: "IsDefault", Type: "b", Access: "read"},
		{Name: "IsDpiShiftTarget", Type: "b", Access: "read"},
		{Name: "IsDisabled", Type: "b", Access: "read"},
	},
}

var buttonIface = introspect.Interface{
	Name: ifaceButton,
	Properties: []introspect.Property{
		{Name: "Index", Type: "u", Access: "read"},
		{Name: "ActionTypes", Type: "au", Access: "read"},
		{Name: "Mapping", Type: "(uv)", Access: "readwrite"},
	},
}

var ledIface = introspect.Interface{
	Name: ifaceLed,
	Properties: []introspect.Property{
		{Name: "Index", Type: "u", Access: "read"},
		{Name: "Mode", Type: "u", Access: "readwrite"},
		{Name: "Modes", Type: "au", Access: "read"},
		{Name: "Color", Type: "(uuu)", Access: "readwrite"},
		{Name: "ColorDepth", Type: "u", Access: "read"},
		{Name: "EffectDuration", Type: "u", Access: "readwrite"},
		{Name: "Brightness", Type: "u", Access: "readwrite"},
	},
}

// leafIfaces maps node kinds to their primary interface description.
var leafIfaces = map[kind]introspect.Interface{
	kindDevice:     deviceIface,
	kindProfile:    profileIface,
	kindResolution: resolutionIface,
	kindButton:     buttonIface,
	kindLed:        ledIface,
}

// introHandler serves org.freedesktop.DBus.Introspectable for the
// whole tree, building the node XML lazily so children never have to
// be pre-registered.
type introHandler struct{ s *Service }

func (h introHandler) Introspect(msg dbus.Message) (string, *dbus.Error) {
	n, ok := parsePath(msgPath(msg))
	if !ok {
		return "", errUnknownObject
	}

	var out introspect.Node
	var dberr *dbus.Error
	callErr := h.s.daemon.Call(func() {
		out, dberr = h.s.introspectNode(n)
	})
	if callErr != nil {
		return "", dbus.MakeFailedError(callErr)
	}
	if dberr != nil {
		return "", dberr
	}

	data, err := xml.Marshal(&out)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return introspect.IntrospectDeclarationString + string(data), nil
}

// introspectNode builds the XML tree for one path. Reactor-only.
func (s *Service) introspectNode(n node) (introspect.Node, *dbus.Error) {
	standard := []introspect.Interface{introspect.IntrospectData, prop.IntrospectData}

	switch n.kind {
	case kindRoot:
		out := introspect.Node{Interfaces: append(standard, managerIface)}
		for _, collection := range []string{"device", "profile", "resolution", "button", "led"} {
			out.Children = append(out.Children, introspect.Node{Name: collection})
		}
		return out, nil

	case kindCollection:
		out := introspect.Node{}
		for _, d := range s.daemon.Registry().List() {
			out.Children = append(out.Children, introspect.Node{Name: d.Sysname()})
		}
		return out, nil

	case kindSysname:
		dev, derr := s.findDevice(n.sysname)
		if derr != nil {
			return introspect.Node{}, derr
		}
		out := introspect.Node{}
		if !n.withProfile {
			for _, p := range dev.Profiles() {
				out.Children = append(out.Children, introspect.Node{Name: fmt.Sprintf("p%d", p.Index())})
			}
			return out, nil
		}
		p := dev.Profile(n.profile)
		if p == nil {
			return introspect.Node{}, errUnknownObject
		}
		marker := childMarker[n.collection]
		var count int
		switch n.collection {
		case "resolution":
			count = len(p.Resolutions())
		case "button":
			count = len(p.Buttons())
		case "led":
			count = len(p.Leds())
		}
		for i := 0; i < count; i++ {
			out.Children = append(out.Children, introspect.Node{Name: fmt.Sprintf("%c%d", marker, i)})
		}
		return out, nil

	default:
		if _, perr := s.objectProps(n); perr != nil {
			return introspect.Node{}, perr
		}
		return introspect.Node{Interfaces: append(standard, leafIfaces[n.kind])}, nil
	}
}
