package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrCapability) {
//	    // handle unsupported operation
//	}
var (
	// ErrDevice is returned when the device has been removed or has
	// become inaccessible.
	ErrDevice = errors.New("device: device inaccessible")

	// ErrCapability is returned when an operation is not supported by
	// the device or profile it was attempted on.
	ErrCapability = errors.New("device: capability not supported")

	// ErrValue is returned when a supplied value is outside the range
	// the device accepts.
	ErrValue = errors.New("device: invalid value")

	// ErrSystem is returned for OS level failures, typically hidraw
	// I/O errors surfaced by a driver.
	ErrSystem = errors.New("device: system error")

	// ErrImplementation is returned for internal inconsistencies, such
	// as a driver that marks profiles switchable but implements no
	// switch hook. These are bugs, not user errors.
	ErrImplementation = errors.New("device: implementation error")

	// ErrNoDevice is returned by a driver's Probe when the hardware
	// does not match the driver. The device is skipped, not failed.
	ErrNoDevice = errors.New("device: no such device")

	// ErrDeviceExists is returned when inserting a device whose
	// sysname is already registered.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrDeviceNotFound is returned when a sysname lookup fails.
	ErrDeviceNotFound = errors.New("device: not found")
)

// Status codes used on the bus. Method replies carry these instead of
// D-Bus errors so clients can treat the result as a plain integer.
const (
	StatusSuccess           int32 = 0
	StatusErrDevice         int32 = -1000
	StatusErrCapability     int32 = -1001
	StatusErrValue          int32 = -1002
	StatusErrSystem         int32 = -1003
	StatusErrImplementation int32 = -1004
)

// Code converts an error into its bus status code. A nil error maps to
// StatusSuccess; unrecognised errors map to StatusErrImplementation.
func Code(err error) int32 {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrDevice), errors.Is(err, ErrNoDevice):
		return StatusErrDevice
	case errors.Is(err, ErrCapability):
		return StatusErrCapability
	case errors.Is(err, ErrValue):
		return StatusErrValue
	case errors.Is(err, ErrSystem):
		return StatusErrSystem
	default:
		return StatusErrImplementation
	}
}
