// Package daemon owns the device object graph and runs the reactor
// that serialises all access to it.
//
// Every mutation of devices, profiles, resolutions, buttons and LEDs
// happens on the single reactor goroutine: the bus layer submits
// closures with Call, hotplug events and the resolution poll are
// handled in the same loop, and commits run as queued tasks. Because
// of that, nothing in the object graph needs a lock.
//
//	hotplug events ──┐
//	bus Call/Submit ─┼──> reactor goroutine ──> object graph
//	poll timer ──────┘                              │
//	                                                v
//	                                            Signaller
//
// The Signaller interface points the other way: the daemon tells the
// bus layer what changed, the bus layer turns that into D-Bus traffic.
package daemon
