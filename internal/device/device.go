package device

import "fmt"

// Info identifies a piece of hardware before a driver has claimed it.
// It is assembled from udev properties of the hidraw node.
type Info struct {
	// Sysname is the kernel device name, e.g. "hidraw0". It is the
	// stable identifier for the device on the bus.
	Sysname string

	// Devnode is the device node path, e.g. "/dev/hidraw0". Empty for
	// synthetic test devices.
	Devnode string

	// Name is the human readable device name from the HID descriptor.
	Name string

	Bustype uint32
	Vendor  uint32
	Product uint32
	Version uint32
}

// Device is one configurable peripheral: identity plus a tree of
// profiles populated by its driver.
type Device struct {
	info Info

	deviceType      DeviceType
	firmwareVersion string

	driver Driver

	// DriverData holds driver private state across probe, commit and
	// refresh calls.
	DriverData any

	profiles []*Profile

	// removed flips when the device detaches. In-flight commit tasks
	// still hold the pointer; they check this and bail out cleanly.
	removed bool
}

// New creates an unprobed device for the given hardware.
func New(info Info) *Device {
	return &Device{info: info}
}

// Sysname returns the kernel device name, e.g. "hidraw0".
func (d *Device) Sysname() string { return d.info.Sysname }

// Devnode returns the device node path, or "" for test devices.
func (d *Device) Devnode() string { return d.info.Devnode }

// Name returns the human readable device name.
func (d *Device) Name() string { return d.info.Name }

// SetName overrides the device name. Driver probe API, used when the
// device database carries a nicer name than the HID descriptor.
func (d *Device) SetName(name string) { d.info.Name = name }

// Info returns the hardware identifiers.
func (d *Device) Info() Info { return d.info }

// Model returns the stable model string "<bustype>:<vid>:<pid>:<version>",
// e.g. "usb:046d:c539:0". Clients use it as a database key.
func (d *Device) Model() string {
	bustype := "unknown"
	switch d.info.Bustype {
	case 0x03:
		bustype = "usb"
	case 0x05:
		bustype = "bluetooth"
	}
	return fmt.Sprintf("%s:%04x:%04x:%d", bustype, d.info.Vendor, d.info.Product, d.info.Version)
}

// DeviceType returns the peripheral classification.
func (d *Device) DeviceType() DeviceType { return d.deviceType }

// SetDeviceType sets the classification. Driver probe API.
func (d *Device) SetDeviceType(t DeviceType) { d.deviceType = t }

// FirmwareVersion returns the firmware version string, or "" when the
// driver cannot read it.
func (d *Device) FirmwareVersion() string { return d.firmwareVersion }

// SetFirmwareVersion records the firmware version. Driver probe API.
func (d *Device) SetFirmwareVersion(v string) { d.firmwareVersion = v }

// Driver returns the driver that claimed the device.
func (d *Device) Driver() Driver { return d.driver }

// SetDriver binds a driver to the device. Called before Probe.
func (d *Device) SetDriver(drv Driver) { d.driver = drv }

// Removed reports whether the hardware has detached.
func (d *Device) Removed() bool { return d.removed }

// MarkRemoved flags the device as detached. Idempotent.
func (d *Device) MarkRemoved() { d.removed = true }

// InitProfiles builds the profile tree. Driver probe API; a driver
// calls this once with the device's fixed geometry before filling in
// per-profile state.
func (d *Device) InitProfiles(numProfiles, numResolutions, numButtons, numLeds uint) {
	d.profiles = make([]*Profile, 0, numProfiles)
	for i := uint(0); i < numProfiles; i++ {
		p := newProfile(d, i)
		for j := uint(0); j < numResolutions; j++ {
			p.resolutions = append(p.resolutions, newResolution(p, j))
		}
		for j := uint(0); j < numButtons; j++ {
			p.buttons = append(p.buttons, newButton(p, j))
		}
		for j := uint(0); j < numLeds; j++ {
			p.leds = append(p.leds, newLed(p, j))
		}
		d.profiles = append(d.profiles, p)
	}
}

// Profiles returns the device's profiles.
func (d *Device) Profiles() []*Profile { return d.profiles }

// Profile returns the profile at index, or nil when out of range.
func (d *Device) Profile(index uint) *Profile {
	if index >= uint(len(d.profiles)) {
		return nil
	}
	return d.profiles[index]
}

// ActiveProfile returns the currently active profile, or nil on an
// unprobed device.
func (d *Device) ActiveProfile() *Profile {
	for _, p := range d.profiles {
		if p.active {
			return p
		}
	}
	return nil
}

// IsDirty reports whether any profile has uncommitted changes.
func (d *Device) IsDirty() bool {
	for _, p := range d.profiles {
		if p.dirty {
			return true
		}
	}
	return false
}

// DirtyProfiles returns the profiles with uncommitted changes.
func (d *Device) DirtyProfiles() []*Profile {
	var dirty []*Profile
	for _, p := range d.profiles {
		if p.dirty {
			dirty = append(dirty, p)
		}
	}
	return dirty
}

// ClearDirty resets all dirty state after a successful commit or a
// post-failure re-read.
func (d *Device) ClearDirty() {
	for _, p := range d.profiles {
		p.clearDirty()
	}
}

// Commit flushes all uncommitted changes to the hardware in one driver
// transaction, then applies any pending profile switch. Dirty state is
// cleared only when every step succeeds.
//
// A pending profile switch on a driver without the switch hook is an
/// implementation error: the driver advertised switchable profiles it
// cannot deliver.
func (d *Device) Commit() error {
	if d.removed {
		return ErrDevice
	}
	if !d.IsDirty() {
		return nil
	}

	if err := d.driver.Commit(d); err != nil {
		return err
	}

	if target := d.pendingProfileSwitch(); target != nil {
		setter, ok := d.driver.(ActiveProfileSetter)
		if !ok {
			return fmt.Errorf("%w: driver %q cannot switch profiles", ErrImplementation, d.driver.ID())
		}
		if err := setter.SetActiveProfile(d, target.index); err != nil {
			return err
		}
	}

	d.ClearDirty()
	return nil
}

// pendingProfileSwitch returns the profile that became active since the
// last commit, or nil when the active profile is unchanged.
func (d *Device) pendingProfileSwitch() *Profile {
	for _, p := range d.profiles {
		if p.activeTransition && p.active {
			return p
		}
	}
	return nil
}
