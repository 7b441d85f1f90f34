package bus

import (
	"github.com/godbus/dbus/v5"

	"github.com/ferretd/ferret-core/internal/device"
)

// Wire shapes for the structured properties.
type xyDpi struct {
	X uint32
	Y uint32
}

type rgbColor struct {
	Red   uint32
	Green uint32
	Blue  uint32
}

// mapping is the Button Mapping property, (uv): the action type plus a
// type-dependent value.
type mapping struct {
	Type  uint32
	Value dbus.Variant
}

type keyCombo struct {
	Key       uint32
	Modifiers uint32
}

type macroStep struct {
	Type  uint32
	Value uint32
}

func managerProps(registry *device.Registry) map[string]dbus.Variant {
	devices := registry.List()
	paths := make([]dbus.ObjectPath, 0, len(devices))
	for _, d := range devices {
		paths = append(paths, devicePath(d.Sysname()))
	}
	return map[string]dbus.Variant{
		"APIVersion": dbus.MakeVariant(int32(apiVersion)),
		"Devices":    dbus.MakeVariant(paths),
	}
}

func deviceProps(d *device.Device) map[string]dbus.Variant {
	profiles := make([]dbus.ObjectPath, 0, len(d.Profiles()))
	for _, p := range d.Profiles() {
		profiles = append(profiles, profilePath(d.Sysname(), p.Index()))
	}
	return map[string]dbus.Variant{
		"Model":           dbus.MakeVariant(d.Model()),
		"DeviceType":      dbus.MakeVariant(uint32(d.DeviceType())),
		"Name":            dbus.MakeVariant(d.Name()),
		"FirmwareVersion": dbus.MakeVariant(d.FirmwareVersion()),
		"Profiles":        dbus.MakeVariant(profiles),
	}
}

func profileProps(p *device.Profile) map[string]dbus.Variant {
	sysname := p.Device().Sysname()

	caps := make([]uint32, 0)
	for _, c := range p.Capabilities() {
		caps = append(caps, uint32(c))
	}
	resolutions := make([]dbus.ObjectPath, 0, len(p.Resolutions()))
	for _, r := range p.Resolutions() {
		resolutions = append(resolutions, resolutionPath(sysname, p.Index(), r.Index()))
	}
	buttons := make([]dbus.ObjectPath, 0, len(p.Buttons()))
	for _, b := range p.Buttons() {
		buttons = append(buttons, buttonPath(sysname, p.Index(), b.Index()))
	}
	leds := make([]dbus.ObjectPath, 0, len(p.Leds()))
	for _, l := range p.Leds() {
		leds = append(leds, ledPath(sysname, p.Index(), l.Index()))
	}

	return map[string]dbus.Variant{
		"Index":         dbus.MakeVariant(uint32(p.Index())),
		"Name":          dbus.MakeVariant(p.Name()),
		"Capabilities":  dbus.MakeVariant(caps),
		"Resolutions":   dbus.MakeVariant(resolutions),
		"Buttons":       dbus.MakeVariant(buttons),
		"Leds":          dbus.MakeVariant(leds),
		"IsActive":      dbus.MakeVariant(p.IsActive()),
		"IsDirty":       dbus.MakeVariant(p.IsDirty()),
		"Disabled":      dbus.MakeVariant(p.IsDisabled()),
		"ReportRate":    dbus.MakeVariant(p.ReportRate()),
		"ReportRates":   dbus.MakeVariant(ratesOrEmpty(p.ReportRates())),
		"AngleSnapping": dbus.MakeVariant(p.AngleSnapping()),
		"Debounce":      dbus.MakeVariant(p.Debounce()),
		"Debounces":     dbus.MakeVariant(ratesOrEmpty(p.Debounces())),
	}
}

// ratesOrEmpty keeps nil slices off the wire as empty arrays.
func ratesOrEmpty(values []uint32) []uint32 {
	if values == nil {
		return []uint32{}
	}
	return values
}

func resolutionProps(r *device.Resolution) map[string]dbus.Variant {
	caps := make([]uint32, 0)
	for _, c := range r.Capabilities() {
		caps = append(caps, uint32(c))
	}

	x, y := r.Dpi()
	var dpi dbus.Variant
	if r.HasCapability(device.ResolutionCapSeparateXY) {
		dpi = dbus.MakeVariant(xyDpi{X: x, Y: y})
	} else {
		dpi = dbus.MakeVariant(x)
	}

	return map[string]dbus.Variant{
		"Index":            dbus.MakeVariant(uint32(r.Index())),
		"Capabilities":     dbus.MakeVariant(caps),
		"Dpi":              dbus.MakeVariant(dpi),
		"MinDpi":           dbus.MakeVariant(r.MinDpi()),
		"MaxDpi":           dbus.MakeVariant(r.MaxDpi()),
		"Dpis":             dbus.MakeVariant(ratesOrEmpty(r.DpiList())),
		"IsActive":         dbus.MakeVariant(r.IsActive()),
		"IsDefault":        dbus.MakeVariant(r.IsDefault()),
		"IsDpiShiftTarget": dbus.MakeVariant(r.IsDpiShiftTarget()),
		"IsDisabled":       dbus.MakeVariant(r.IsDisabled()),
	}
}

func buttonProps(b *device.Button) map[string]dbus.Variant {
	types := make([]uint32, 0)
	for _, t := range b.ActionTypes() {
		types = append(types, uint32(t))
	}
	return map[string]dbus.Variant{
		"Index":       dbus.MakeVariant(uint32(b.Index())),
		"ActionTypes": dbus.MakeVariant(types),
		"Mapping":     dbus.MakeVariant(mappingFromAction(b.Action())),
	}
}

func ledProps(l *device.Led) map[string]dbus.Variant {
	modes := make([]uint32, 0)
	for _, m := range l.Modes() {
		modes = append(modes, uint32(m))
	}
	c := l.Color()
	return map[string]dbus.Variant{
		"Index":          dbus.MakeVariant(uint32(l.Index())),
		"Mode":           dbus.MakeVariant(uint32(l.Mode())),
		"Modes":          dbus.MakeVariant(modes),
		"Color":          dbus.MakeVariant(rgbColor{uint32(c.Red), uint32(c.Green), uint32(c.Blue)}),
		"ColorDepth":     dbus.MakeVariant(uint32(l.ColorDepth())),
		"EffectDuration": dbus.MakeVariant(l.EffectDuration()),
		"Brightness":     dbus.MakeVariant(uint32(l.Brightness())),
	}
}

// mappingFromAction encodes a button action as the (uv) wire shape.
func mappingFromAction(a device.Action) mapping {
	switch a.Type {
	case device.ActionTypeButton:
		return mapping{uint32(a.Type), dbus.MakeVariant(a.Button)}
	case device.ActionTypeSpecial:
		return mapping{uint32(a.Type), dbus.MakeVariant(uint32(a.Special))}
	case device.ActionTypeKey:
		return mapping{uint32(a.Type), dbus.MakeVariant(keyCombo{a.Key, uint32(a.Mods)})}
	case device.ActionTypeMacro:
		steps := []macroStep{}
		if a.Macro != nil {
			for _, ev := range a.Macro.Events() {
				steps = append(steps, macroStep{uint32(ev.Type), ev.Value})
			}
		}
		return mapping{uint32(a.Type), dbus.MakeVariant(steps)}
	default:
		return mapping{uint32(device.ActionTypeNone), dbus.MakeVariant(uint32(0))}
	}
}

// Variant decoding helpers. godbus hands struct bodies over as
// []interface{}, so the setters unpack by hand.

func asUint32(v interface{}) (uint32, bool) {
	switch n := v.(type) {
	case uint32:
		return n, true
	case dbus.Variant:
		return asUint32(n.Value())
	default:
		return 0, false
	}
}

func asInt32(v interface{}) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case dbus.Variant:
		return asInt32(n.Value())
	default:
		return 0, false
	}
}

func asBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case dbus.Variant:
		return asBool(b.Value())
	default:
		return false, false
	}
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case dbus.Variant:
		return asString(s.Value())
	default:
		return "", false
	}
}

// asUint32Fields unpacks a struct body of exactly n uint32 fields.
func asUint32Fields(v interface{}, n int) ([]uint32, bool) {
	if inner, ok := v.(dbus.Variant); ok {
		return asUint32Fields(inner.Value(), n)
	}
	fields, ok := v.([]interface{})
	if !ok || len(fields) != n {
		return nil, false
	}
	out := make([]uint32, n)
	for i, f := range fields {
		u, ok := asUint32(f)
		if !ok {
			return nil, false
		}
		out[i] = u
	}
	return out, true
}

// actionFromMapping decodes the (uv) wire shape into a model action.
func actionFromMapping(v interface{}) (device.Action, bool) {
	if inner, ok := v.(dbus.Variant); ok {
		return actionFromMapping(inner.Value())
	}
	fields, ok := v.([]interface{})
	if !ok || len(fields) != 2 {
		return device.Action{}, false
	}
	typ, ok := asUint32(fields[0])
	if !ok {
		return device.Action{}, false
	}
	value := fields[1]

	switch device.ActionType(typ) {
	case device.ActionTypeNone:
		return device.Action{Type: device.ActionTypeNone}, true
	case device.ActionTypeButton:
		n, ok := asUint32(value)
		if !ok {
			return device.Action{}, false
		}
		return device.Action{Type: device.ActionTypeButton, Button: n}, true
	case device.ActionTypeSpecial:
		n, ok := asUint32(value)
		if !ok {
			return device.Action{}, false
		}
		return device.Action{Type: device.ActionTypeSpecial, Special: device.SpecialAction(n)}, true
	case device.ActionTypeKey:
		combo, ok := asUint32Fields(value, 2)
		if !ok {
			return device.Action{}, false
		}
		return device.Action{
			Type: device.ActionTypeKey,
			Key:  combo[0],
			Mods: device.Modifiers(combo[1]),
		}, true
	case device.ActionTypeMacro:
		events, ok := macroEventsFromWire(value)
		if !ok {
			return device.Action{}, false
		}
		return device.Action{Type: device.ActionTypeMacro, Macro: device.NewMacro("", events)}, true
	default:
		return device.Action{}, false
	}
}

func macroEventsFromWire(v interface{}) ([]device.MacroEvent, bool) {
	if inner, ok := v.(dbus.Variant); ok {
		return macroEventsFromWire(inner.Value())
	}
	switch steps := v.(type) {
	case [][]interface{}:
		events := make([]device.MacroEvent, 0, len(steps))
		for _, step := range steps {
			fields, ok := asUint32Fields([]interface{}(step), 2)
			if !ok {
				return nil, false
			}
			events = append(events, device.MacroEvent{Type: device.MacroEventType(fields[0]), Value: fields[1]})
		}
		return events, true
	case []interface{}:
		events := make([]device.MacroEvent, 0, len(steps))
		for _, step := range steps {
			fields, ok := asUint32Fields(step, 2)
			if !ok {
				return nil, false
			}
			events = append(events, device.MacroEvent{Type: device.MacroEventType(fields[0]), Value: fields[1]})
		}
		return events, true
	default:
		return nil, false
	}
}

// dpiFromWire decodes the Dpi property value, either a plain u or an
// (uu) pair.
func dpiFromWire(v interface{}) (x, y uint32, separate, ok bool) {
	if inner, isVariant := v.(dbus.Variant); isVariant {
		return dpiFromWire(inner.Value())
	}
	if n, isUint := asUint32(v); isUint {
		return n, n, false, true
	}
	pair, isPair := asUint32Fields(v, 2)
	if !isPair {
		return 0, 0, false, false
	}
	return pair[0], pair[1], true, true
}
