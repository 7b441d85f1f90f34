// Package hwdb maps hardware identifiers to drivers.
//
// The database is a YAML file compiled into the binary. Each entry
// names a device, the driver that handles it and one or more
// (bustype, vendor, product) matches. Device construction looks the
// incoming udev identifiers up here before any driver is probed, so an
// unlisted mouse is ignored instead of poked with vendor commands.
//
// Entries may pin a match to a specific HID version; most leave it
// unset and match any version.
package hwdb
