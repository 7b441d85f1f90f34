package bus

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/ferretd/ferret-core/internal/device"
)

var (
	// ErrNameTaken is returned by Connect when another daemon already
	// owns the well-known bus name.
	ErrNameTaken = errors.New("bus: name already taken")

	errUnknownObject    = dbus.NewError("org.freedesktop.DBus.Error.UnknownObject", nil)
	errUnknownInterface = dbus.NewError("org.freedesktop.DBus.Error.UnknownInterface", nil)
	errUnknownProperty  = dbus.NewError("org.freedesktop.DBus.Error.UnknownProperty", nil)
	errReadOnly         = dbus.NewError("org.freedesktop.DBus.Error.PropertyReadOnly", nil)
	errInvalidArgs      = dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", nil)
)

// toDBusError maps a model error onto a named bus error so clients can
// distinguish a capability miss from a bad value without parsing text.
func toDBusError(err error) *dbus.Error {
	name := BusName + ".Error."
	switch {
	case errors.Is(err, device.ErrCapability):
		name += "Capability"
	case errors.Is(err, device.ErrValue):
		name += "Value"
	case errors.Is(err, device.ErrDevice), errors.Is(err, device.ErrNoDevice):
		name += "Device"
	case errors.Is(err, device.ErrSystem):
		name += "System"
	default:
		name += "Implementation"
	}
	return dbus.NewError(name, []interface{}{err.Error()})
}
