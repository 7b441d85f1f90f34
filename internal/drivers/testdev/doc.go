// Package testdev provides a driver for synthetic devices.
//
// A test device is described by a JSON descriptor instead of hardware:
// profile count, resolution slots, DPI lists, button actions, LEDs.
// The bus API can attach one at runtime (developer mode only), which
// lets clients and the daemon's own test suite exercise the full
// configuration path without a mouse on the desk.
//
// Descriptors can also inject faults: a device whose commits fail, or
// one whose active resolution moves on its own, the way a real mouse's
// DPI button moves it behind the daemon's back.
package testdev
