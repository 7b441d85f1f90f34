// Package steelfang drives SteelFang gaming mice.
//
// The device keeps four on-board profiles, each with four resolution
// slots, eight buttons and one RGB light zone. All state lives in
// numbered HID feature reports; a control report selects which
// profile's pages the other reports address. The probe walks every
// profile and mirrors it into the device model; the commit walks the
// dirty flags and rewrites only the pages that changed.
//
// All HID traffic goes through the Transport interface so the protocol
// can be tested against a fake device.
package steelfang
