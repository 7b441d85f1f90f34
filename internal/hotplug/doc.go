// Package hotplug watches the kernel for hidraw devices coming and
// going.
//
// On start it enumerates the already-plugged devices and replays them
// as attach events, then streams udev netlink events until the context
// is cancelled. Each event carries the hardware identity parsed from
// the hidraw node's HID parent, ready for the device database lookup.
//
//	udev netlink ──┐
//	               ├──> Monitor ──> chan Event ──> daemon
//	enumeration ───┘
package hotplug
