// Package bus exports the daemon's object graph on the D-Bus system
// bus.
//
// The tree is rooted at /org/ferretd/ferret1 (the manager) with one
// lazily resolved branch per object kind:
//
//	/org/ferretd/ferret1                           Manager
//	/org/ferretd/ferret1/device/<sysname>          Device
//	/org/ferretd/ferret1/profile/<sysname>/p0      Profile
//	/org/ferretd/ferret1/resolution/<sysname>/p0/r0
//	/org/ferretd/ferret1/button/<sysname>/p0/b0
//	/org/ferretd/ferret1/led/<sysname>/p0/l0
//
// Nothing is registered per device: subtree handlers decode the
// sysname and indices out of the request path on every call, so
// objects appear and disappear with the hardware for free. Properties
// and introspection are served the same way.
//
// All reads and writes of the object graph round trip through the
// daemon's reactor, which makes bus traffic serialisable with commits
// and hotplug. The service also implements daemon.Signaller, turning
// reactor notifications into PropertiesChanged and Resync signals.
package bus
