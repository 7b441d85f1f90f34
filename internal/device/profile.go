package device

import "unicode/utf8"

// Profile is one switchable configuration bank on a device. Exactly one
// profile per device is active at any time.
type Profile struct {
	device *Device
	index  uint

	name string
	caps map[ProfileCapability]bool

	active   bool
	disabled bool

	rate  uint32
	rates []uint32

	// angleSnapping is 0 or 1, or -1 when the device does not report
	// the setting.
	angleSnapping int32

	// debounce is the button debounce time in ms, or -1 when the
	// device does not report the setting.
	debounce  int32
	debounces []uint32

	resolutions []*Resolution
	buttons     []*Button
	leds        []*Led

	// dirty covers the whole subtree. The sub-flags record which
	// profile-level fields changed so drivers write only those, and
	// activeTransition records that the active flag flipped since the
	// last commit.
	dirty            bool
	rateDirty        bool
	angleDirty       bool
	debounceDirty    bool
	activeTransition bool
}

func newProfile(d *Device, index uint) *Profile {
	return &Profile{
		device:        d,
		index:         index,
		caps:          make(map[ProfileCapability]bool),
		angleSnapping: -1,
		debounce:      -1,
	}
}

// Index returns the profile's position on the device.
func (p *Profile) Index() uint { return p.index }

// Device returns the owning device.
func (p *Profile) Device() *Device { return p.device }

// Name returns the profile name. Names that are not valid UTF-8 are
// reinterpreted as ISO-8859-1, which older firmware uses, so the bus
// never carries invalid strings.
func (p *Profile) Name() string {
	if utf8.ValidString(p.name) {
		return p.name
	}
	runes := make([]rune, 0, len(p.name))
	for _, b := range []byte(p.name) {
		runes = append(runes, rune(b))
	}
	return string(runes)
}

// SetName renames the profile. New names must be valid UTF-8 and at
// most MaxNameLength bytes; only probed names get the legacy encoding
// leniency.
func (p *Profile) SetName(name string) error {
	if !utf8.ValidString(name) || len(name) > MaxNameLength {
		return ErrValue
	}
	if name == p.name {
		return nil
	}
	p.name = name
	p.dirty = true
	return nil
}

// ForceName sets the name without dirty marking. Driver probe API.
func (p *Profile) ForceName(name string) { p.name = name }

// HasCapability reports whether the profile supports c.
func (p *Profile) HasCapability(c ProfileCapability) bool {
	return p.caps[c]
}

// SetCapability marks a capability as supported. Driver probe API.
func (p *Profile) SetCapability(c ProfileCapability) {
	p.caps[c] = true
}

// Capabilities returns the supported capabilities in ascending order.
func (p *Profile) Capabilities() []ProfileCapability {
	caps := make([]ProfileCapability, 0, len(p.caps))
	for _, c := range []ProfileCapability{ProfileCapSetDefault, ProfileCapDisable, ProfileCapWriteOnly} {
		if p.caps[c] {
			caps = append(caps, c)
		}
	}
	return caps
}

// IsActive reports whether this is the device's current profile.
func (p *Profile) IsActive() bool { return p.active }

// IsDisabled reports whether the profile is disabled.
func (p *Profile) IsDisabled() bool { return p.disabled }

// IsDirty reports whether the profile subtree has uncommitted changes.
func (p *Profile) IsDirty() bool { return p.dirty }

// RateDirty reports whether the report rate changed since last commit.
func (p *Profile) RateDirty() bool { return p.rateDirty }

// AngleSnappingDirty reports whether angle snapping changed since last
// commit.
func (p *Profile) AngleSnappingDirty() bool { return p.angleDirty }

// DebounceDirty reports whether the debounce time changed since last
// commit.
func (p *Profile) DebounceDirty() bool { return p.debounceDirty }

// ActiveTransition reports whether the active flag flipped since last
// commit, in either direction.
func (p *Profile) ActiveTransition() bool { return p.activeTransition }

// SetActive makes this the device's current profile. The previously
// active profile is deactivated; both profiles record the transition
// for the next commit. A disabled profile cannot become active.
func (p *Profile) SetActive() error {
	if p.disabled {
		return ErrValue
	}
	if p.active {
		return nil
	}
	for _, sibling := range p.device.profiles {
		if sibling.active {
			sibling.active = false
			sibling.activeTransition = true
			sibling.dirty = true
		}
	}
	p.active = true
	p.activeTransition = true
	p.dirty = true
	return nil
}

// SetDisabled disables or re-enables the profile. Requires
// ProfileCapDisable. The active profile cannot be disabled.
func (p *Profile) SetDisabled(disabled bool) error {
	if !p.caps[ProfileCapDisable] {
		return ErrCapability
	}
	if disabled && p.active {
		return ErrValue
	}
	if p.disabled == disabled {
		return nil
	}
	p.disabled = disabled
	p.dirty = true
	return nil
}

// ReportRate returns the report rate in Hz.
func (p *Profile) ReportRate() uint32 { return p.rate }

// ReportRates returns the rates the hardware advertises, ascending.
// The list is advisory; SetReportRate clamps rather than checks.
func (p *Profile) ReportRates() []uint32 { return p.rates }

// SetReportRate sets the report rate in Hz, clamped into
// [ReportRateMin, ReportRateMax].
func (p *Profile) SetReportRate(hz uint32) error {
	if hz < ReportRateMin {
		hz = ReportRateMin
	}
	if hz > ReportRateMax {
		hz = ReportRateMax
	}
	if p.rate == hz {
		return nil
	}
	p.rate = hz
	p.rateDirty = true
	p.dirty = true
	return nil
}

// SetReportRateList declares the advertised rates. Driver probe API.
func (p *Profile) SetReportRateList(rates []uint32) {
	p.rates = make([]uint32, len(rates))
	copy(p.rates, rates)
}

// ForceReportRate sets the rate without dirty marking. Driver probe
// API.
func (p *Profile) ForceReportRate(hz uint32) { p.rate = hz }

// AngleSnapping returns 1 when angle snapping is on, 0 when off and -1
// when the device does not report it.
func (p *Profile) AngleSnapping() int32 { return p.angleSnapping }

// SetAngleSnapping switches angle snapping on (1) or off (0).
func (p *Profile) SetAngleSnapping(v int32) error {
	if v != 0 && v != 1 {
		return ErrValue
	}
	if p.angleSnapping == -1 {
		return ErrCapability
	}
	if p.angleSnapping == v {
		return nil
	}
	p.angleSnapping = v
	p.angleDirty = true
	p.dirty = true
	return nil
}

// ForceAngleSnapping sets the value without dirty marking. Driver
// probe API.
func (p *Profile) ForceAngleSnapping(v int32) { p.angleSnapping = v }

// Debounce returns the debounce time in ms, or -1 when the device does
// not report it.
func (p *Profile) Debounce() int32 { return p.debounce }

// Debounces returns the debounce times the hardware accepts, ascending.
func (p *Profile) Debounces() []uint32 { return p.debounces }

// SetDebounce sets the debounce time in ms. The value must appear in
// the accepted list.
func (p *Profile) SetDebounce(ms int32) error {
	if p.debounce == -1 {
		return ErrCapability
	}
	accepted := false
	for _, d := range p.debounces {
		if ms >= 0 && uint32(ms) == d {
			accepted = true
			break
		}
	}
	if !accepted {
		return ErrValue
	}
	if p.debounce == ms {
		return nil
	}
	p.debounce = ms
	p.debounceDirty = true
	p.dirty = true
	return nil
}

// SetDebounceList declares the accepted debounce times. Driver probe
// API.
func (p *Profile) SetDebounceList(debounces []uint32) {
	p.debounces = make([]uint32, len(debounces))
	copy(p.debounces, debounces)
}

// ForceDebounce sets the value without dirty marking. Driver probe
// API.
func (p *Profile) ForceDebounce(ms int32) { p.debounce = ms }

// ForceActive sets the active flag without recording a transition.
// Drivers use it during probe and when re-reading hardware state.
func (p *Profile) ForceActive(active bool) { p.active = active }

// ForceDisabled sets the disabled flag without dirty marking. Driver
// probe API.
func (p *Profile) ForceDisabled(disabled bool) { p.disabled = disabled }

// Resolutions returns the profile's resolution slots.
func (p *Profile) Resolutions() []*Resolution { return p.resolutions }

// Resolution returns the slot at index, or nil when out of range.
func (p *Profile) Resolution(index uint) *Resolution {
	if index >= uint(len(p.resolutions)) {
		return nil
	}
	return p.resolutions[index]
}

// ActiveResolution returns the currently active slot, or nil.
func (p *Profile) ActiveResolution() *Resolution {
	for _, r := range p.resolutions {
		if r.active {
			return r
		}
	}
	return nil
}

// Buttons returns the profile's buttons.
func (p *Profile) Buttons() []*Button { return p.buttons }

// Button returns the button at index, or nil when out of range.
func (p *Profile) Button(index uint) *Button {
	if index >= uint(len(p.buttons)) {
		return nil
	}
	return p.buttons[index]
}

// Leds returns the profile's LEDs.
func (p *Profile) Leds() []*Led { return p.leds }

// Led returns the LED at index, or nil when out of range.
func (p *Profile) Led(index uint) *Led {
	if index >= uint(len(p.leds)) {
		return nil
	}
	return p.leds[index]
}

// clearDirty resets the whole dirty subtree after a successful commit.
func (p *Profile) clearDirty() {
	p.dirty = false
	p.rateDirty = false
	p.angleDirty = false
	p.debounceDirty = false
	p.activeTransition = false
	for _, r := range p.resolutions {
		r.dirty = false
	}
	for _, b := range p.buttons {
		b.dirty = false
	}
	for _, l := range p.leds {
		l.dirty = false
	}
}
