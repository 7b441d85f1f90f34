package bus

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/ferretd/ferret-core/internal/daemon"
	"github.com/ferretd/ferret-core/internal/device"
)

func msgPath(msg dbus.Message) dbus.ObjectPath {
	path, _ := msg.Headers[dbus.FieldPath].Value().(dbus.ObjectPath)
	return path
}

// managerHandler serves org.ferretd.Ferret1.Manager on the root.
type managerHandler struct{ s *Service }

// LoadTestDevice attaches a synthetic device from a JSON descriptor.
// An empty descriptor loads the default device. Returns a status code.
func (h managerHandler) LoadTestDevice(descriptor string) (int32, *dbus.Error) {
	code := device.StatusSuccess
	callErr := h.s.daemon.Call(func() {
		err := h.s.daemon.LoadTestDevice([]byte(descriptor))
		switch {
		case err == nil:
		case errors.Is(err, daemon.ErrDeveloperDisabled):
			code = device.StatusErrCapability
		default:
			code = device.Code(err)
		}
	})
	if callErr != nil {
		return device.StatusErrSystem, nil
	}
	return code, nil
}

// deviceHandler serves org.ferretd.Ferret1.Device on the device
// subtree.
type deviceHandler struct{ s *Service }

// Commit schedules a write-back of all uncommitted changes and replies
// immediately. The outcome arrives as signals: IsDirty flips on
// success, Resync fires on failure.
func (h deviceHandler) Commit(msg dbus.Message) (uint32, *dbus.Error) {
	n, ok := parsePath(msgPath(msg))
	if !ok || n.kind != kindDevice {
		return 0, errUnknownObject
	}

	var dberr *dbus.Error
	callErr := h.s.daemon.Call(func() {
		_, dberr = h.s.findDevice(n.sysname)
	})
	if callErr != nil {
		return uint32(device.StatusErrSystem), nil
	}
	if dberr != nil {
		return 0, dberr
	}

	txn := h.s.daemon.CommitAsync(n.sysname)
	h.s.logger.Debug("commit requested", "sysname", n.sysname, "txn", txn)
	return 0, nil
}

// profileHandler serves org.ferretd.Ferret1.Profile on the profile
// subtree.
type profileHandler struct{ s *Service }

// SetActive makes the profile the device's active one. Takes effect on
// the hardware at the next Commit.
func (h profileHandler) SetActive(msg dbus.Message) (uint32, *dbus.Error) {
	n, ok := parsePath(msgPath(msg))
	if !ok || n.kind != kindProfile {
		return 0, errUnknownObject
	}

	var code int32
	var dberr *dbus.Error
	callErr := h.s.daemon.Call(func() {
		p, perr := h.s.findProfile(n.sysname, n.profile)
		if perr != nil {
			dberr = perr
			return
		}

		siblings := p.Device().Profiles()
		type flags struct{ active, dirty bool }
		before := make([]flags, len(siblings))
		for i, sibling := range siblings {
			before[i] = flags{sibling.IsActive(), sibling.IsDirty()}
		}

		if err := p.SetActive(); err != nil {
			code = device.Code(err)
			return
		}

		// Signal only the profiles the switch actually touched.
		for i, sibling := range siblings {
			changed := make(map[string]dbus.Variant, 2)
			if sibling.IsActive() != before[i].active {
				changed["IsActive"] = dbus.MakeVariant(sibling.IsActive())
			}
			if sibling.IsDirty() != before[i].dirty {
				changed["IsDirty"] = dbus.MakeVariant(sibling.IsDirty())
			}
			if len(changed) > 0 {
				h.s.emit(profilePath(n.sysname, sibling.Index()), ifaceProfile, changed)
			}
		}
	})
	if callErr != nil {
		return uint32(device.StatusErrSystem), nil
	}
	return uint32(code), dberr
}

// resolutionHandler serves org.ferretd.Ferret1.Resolution on the
// resolution subtree.
type resolutionHandler struct{ s *Service }

// mutate runs a resolution setter on the reactor and signals the flags
// it flipped: the affected sibling slots plus, when it transitioned,
// the owning profile's dirty flag.
func (h resolutionHandler) mutate(msg dbus.Message, flags []string, fn func(*device.Resolution) error) (uint32, *dbus.Error) {
	n, ok := parsePath(msgPath(msg))
	if !ok || n.kind != kindResolution {
		return 0, errUnknownObject
	}

	var code int32
	var dberr *dbus.Error
	callErr := h.s.daemon.Call(func() {
		r, rerr := h.s.findResolution(n)
		if rerr != nil {
			dberr = rerr
			return
		}

		siblings := r.Profile().Resolutions()
		before := make([]map[string]dbus.Variant, len(siblings))
		for i, sibling := range siblings {
			before[i] = resolutionProps(sibling)
		}
		profileWasDirty := r.Profile().IsDirty()

		if err := fn(r); err != nil {
			code = device.Code(err)
			return
		}

		for i, sibling := range siblings {
			props := resolutionProps(sibling)
			changed := make(map[string]dbus.Variant, len(flags))
			for _, flag := range flags {
				if props[flag].Value() != before[i][flag].Value() {
					changed[flag] = props[flag]
				}
			}
			if len(changed) > 0 {
				h.s.emit(resolutionPath(n.sysname, n.profile, sibling.Index()), ifaceResolution, changed)
			}
		}
		if r.Profile().IsDirty() != profileWasDirty {
			h.s.emit(profilePath(n.sysname, n.profile), ifaceProfile, map[string]dbus.Variant{
				"IsDirty": dbus.MakeVariant(r.Profile().IsDirty()),
			})
		}
	})
	if callErr != nil {
		return uint32(device.StatusErrSystem), nil
	}
	return uint32(code), dberr
}

// SetActive selects this slot as the profile's current resolution.
func (h resolutionHandler) SetActive(msg dbus.Message) (uint32, *dbus.Error) {
	return h.mutate(msg, []string{"IsActive"}, (*device.Resolution).SetActive)
}

// SetDefault selects this slot as the power-up resolution.
func (h resolutionHandler) SetDefault(msg dbus.Message) (uint32, *dbus.Error) {
	return h.mutate(msg, []string{"IsDefault"}, (*device.Resolution).SetDefault)
}

// SetDpiShiftTarget points the DPI shift button at this slot.
func (h resolutionHandler) SetDpiShiftTarget(msg dbus.Message) (uint32, *dbus.Error) {
	return h.mutate(msg, []string{"IsDpiShiftTarget"}, (*device.Resolution).SetDpiShiftTarget)
}

// SetDisabled disables or re-enables the slot.
func (h resolutionHandler) SetDisabled(msg dbus.Message, disabled bool) (uint32, *dbus.Error) {
	return h.mutate(msg, []string{"IsDisabled"}, func(r *device.Resolution) error {
		return r.SetDisabled(disabled)
	})
}

// propHandler serves org.freedesktop.DBus.Properties for the whole
// tree.
type propHandler struct{ s *Service }

func (h propHandler) Get(msg dbus.Message, iface, prop string) (dbus.Variant, *dbus.Error) {
	n, ok := parsePath(msgPath(msg))
	if !ok {
		return dbus.Variant{}, errUnknownObject
	}
	if iface != "" && iface != n.iface() {
		return dbus.Variant{}, errUnknownInterface
	}

	var value dbus.Variant
	var dberr *dbus.Error
	callErr := h.s.daemon.Call(func() {
		props, perr := h.s.objectProps(n)
		if perr != nil {
			dberr = perr
			return
		}
		v, found := props[prop]
		if !found {
			dberr = errUnknownProperty
			return
		}
		value = v
	})
	if callErr != nil {
		return dbus.Variant{}, dbus.MakeFailedError(callErr)
	}
	return value, dberr
}

func (h propHandler) GetAll(msg dbus.Message, iface string) (map[string]dbus.Variant, *dbus.Error) {
	n, ok := parsePath(msgPath(msg))
	if !ok {
		return nil, errUnknownObject
	}
	if iface != "" && iface != n.iface() {
		return nil, errUnknownInterface
	}

	var props map[string]dbus.Variant
	var dberr *dbus.Error
	callErr := h.s.daemon.Call(func() {
		props, dberr = h.s.objectProps(n)
	})
	if callErr != nil {
		return nil, dbus.MakeFailedError(callErr)
	}
	return props, dberr
}

func (h propHandler) Set(msg dbus.Message, iface, prop string, value dbus.Variant) *dbus.Error {
	n, ok := parsePath(msgPath(msg))
	if !ok {
		return errUnknownObject
	}
	if iface != "" && iface != n.iface() {
		return errUnknownInterface
	}

	var dberr *dbus.Error
	callErr := h.s.daemon.Call(func() {
		dberr = h.setProperty(n, prop, value)
	})
	if callErr != nil {
		return dbus.MakeFailedError(callErr)
	}
	return dberr
}

// setProperty dispatches a property write. Reactor-only. On success it
// emits PropertiesChanged for the written property and the owning
// profile's dirty flag.
func (h propHandler) setProperty(n node, prop string, value dbus.Variant) *dbus.Error {
	switch n.kind {
	case kindProfile:
		p, perr := h.s.findProfile(n.sysname, n.profile)
		if perr != nil {
			return perr
		}
		return h.setProfileProperty(n, p, prop, value)
	case kindResolution:
		r, rerr := h.s.findResolution(n)
		if rerr != nil {
			return rerr
		}
		return h.setResolutionProperty(n, r, prop, value)
	case kindButton:
		b, berr := h.s.findButton(n)
		if berr != nil {
			return berr
		}
		return h.setButtonProperty(n, b, prop, value)
	case kindLed:
		l, lerr := h.s.findLed(n)
		if lerr != nil {
			return lerr
		}
		return h.setLedProperty(n, l, prop, value)
	case kindRoot, kindDevice:
		return errReadOnly
	default:
		return errUnknownObject
	}
}

// finish maps a setter result and, on success, emits the changed
// property plus the owning profile's dirty flag.
func (h propHandler) finish(path dbus.ObjectPath, iface string, p *device.Profile, prop string, props map[string]dbus.Variant, err error) *dbus.Error {
	if err != nil {
		return toDBusError(err)
	}
	h.s.emit(path, iface, map[string]dbus.Variant{prop: props[prop]})
	h.s.emit(profilePath(p.Device().Sysname(), p.Index()), ifaceProfile, map[string]dbus.Variant{
		"IsDirty": dbus.MakeVariant(p.IsDirty()),
	})
	return nil
}

func (h propHandler) setProfileProperty(n node, p *device.Profile, prop string, value dbus.Variant) *dbus.Error {
	var err error
	switch prop {
	case "Name":
		name, ok := asString(value)
		if !ok {
			return errInvalidArgs
		}
		err = p.SetName(name)
	case "Disabled":
		disabled, ok := asBool(value)
		if !ok {
			return errInvalidArgs
		}
		err = p.SetDisabled(disabled)
	case "ReportRate":
		hz, ok := asUint32(value)
		if !ok {
			return errInvalidArgs
		}
		err = p.SetReportRate(hz)
	case "AngleSnapping":
		v, ok := asInt32(value)
		if !ok {
			return errInvalidArgs
		}
		err = p.SetAngleSnapping(v)
	case "Debounce":
		ms, ok := asInt32(value)
		if !ok {
			return errInvalidArgs
		}
		err = p.SetDebounce(ms)
	default:
		return h.readOnlyOrUnknown(profileProps(p), prop)
	}
	return h.finish(profilePath(n.sysname, n.profile), ifaceProfile, p, prop, profileProps(p), err)
}

func (h propHandler) setResolutionProperty(n node, r *device.Resolution, prop string, value dbus.Variant) *dbus.Error {
	if prop != "Dpi" {
		return h.readOnlyOrUnknown(resolutionProps(r), prop)
	}
	x, y, separate, ok := dpiFromWire(value)
	if !ok {
		return errInvalidArgs
	}
	var err error
	if separate {
		err = r.SetDpiXY(x, y)
	} else {
		err = r.SetDpi(x)
	}
	return h.finish(resolutionPath(n.sysname, n.profile, n.child), ifaceResolution, r.Profile(), prop, resolutionProps(r), err)
}

func (h propHandler) setButtonProperty(n node, b *device.Button, prop string, value dbus.Variant) *dbus.Error {
	if prop != "Mapping" {
		return h.readOnlyOrUnknown(buttonProps(b), prop)
	}
	action, ok := actionFromMapping(value)
	if !ok {
		return errInvalidArgs
	}

	var err error
	switch action.Type {
	case device.ActionTypeNone:
		err = b.Disable()
	case device.ActionTypeButton:
		err = b.SetButton(action.Button)
	case device.ActionTypeSpecial:
		err = b.SetSpecial(action.Special)
	case device.ActionTypeKey:
		err = b.SetKey(action.Key, action.Mods)
	case device.ActionTypeMacro:
		err = b.SetMacro("", action.Macro.Events())
	}
	return h.finish(buttonPath(n.sysname, n.profile, n.child), ifaceButton, b.Profile(), prop, buttonProps(b), err)
}

func (h propHandler) setLedProperty(n node, l *device.Led, prop string, value dbus.Variant) *dbus.Error {
	var err error
	switch prop {
	case "Mode":
		mode, ok := asUint32(value)
		if !ok {
			return errInvalidArgs
		}
		err = l.SetMode(device.LedMode(mode))
	case "Color":
		fields, ok := asUint32Fields(value, 3)
		if !ok || fields[0] > 255 || fields[1] > 255 || fields[2] > 255 {
			return errInvalidArgs
		}
		err = l.SetColor(device.Color{Red: uint8(fields[0]), Green: uint8(fields[1]), Blue: uint8(fields[2])})
	case "EffectDuration":
		ms, ok := asUint32(value)
		if !ok {
			return errInvalidArgs
		}
		err = l.SetEffectDuration(ms)
	case "Brightness":
		v, ok := asUint32(value)
		if !ok || v > 255 {
			return errInvalidArgs
		}
		err = l.SetBrightness(uint8(v))
	default:
		return h.readOnlyOrUnknown(ledProps(l), prop)
	}
	return h.finish(ledPath(n.sysname, n.profile, n.child), ifaceLed, l.Profile(), prop, ledProps(l), err)
}

// readOnlyOrUnknown distinguishes writes to existing read-only
// properties from writes to properties that do not exist at all.
func (h propHandler) readOnlyOrUnknown(props map[string]dbus.Variant, prop string) *dbus.Error {
	if _, exists := props[prop]; exists {
		return errReadOnly
	}
	return errUnknownProperty
}
