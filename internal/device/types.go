package device

// DeviceType classifies what kind of peripheral a device is.
// The values are part of the bus API and must not be reordered.
type DeviceType uint32

const (
	DeviceTypeUnspecified DeviceType = iota
	DeviceTypeOther
	DeviceTypeMouse
	DeviceTypeKeyboard
)

// ProfileCapability describes an optional profile feature.
//
// Values start at 101 so they can never collide with resolution
// capabilities in a client that mixes the two up.
type ProfileCapability uint32

const (
	// ProfileCapSetDefault marks a profile that can be made the
	// default profile, the one selected after a power cycle.
	ProfileCapSetDefault ProfileCapability = iota + 101

	// ProfileCapDisable marks a profile that can be disabled and
	// re-enabled without being deleted.
	ProfileCapDisable

	// ProfileCapWriteOnly marks a profile whose state cannot be read
	// back from the hardware; reads reflect the last written state.
	ProfileCapWriteOnly
)

// ResolutionCapability describes an optional resolution feature.
type ResolutionCapability uint32

const (
	// ResolutionCapSeparateXY marks a resolution that accepts
	// independent horizontal and vertical DPI values.
	ResolutionCapSeparateXY ResolutionCapability = iota + 1

	// ResolutionCapDisable marks a resolution slot that can be
	// disabled, for devices with a fixed slot count.
	ResolutionCapDisable
)

// ActionType identifies what a button does when pressed.
type ActionType uint32

const (
	ActionTypeNone ActionType = iota
	ActionTypeButton
	ActionTypeSpecial
	ActionTypeKey
	ActionTypeMacro

	ActionTypeUnknown ActionType = 1000
)

// SpecialAction is a device-internal function assignable to a button,
// such as switching resolution or profile. The range starts at 1<<30
// so special values can never be mistaken for button numbers or
// keycodes.
type SpecialAction uint32

const (
	SpecialUnknown SpecialAction = iota + 1<<30
	SpecialDoubleclick

	SpecialWheelLeft
	SpecialWheelRight
	SpecialWheelUp
	SpecialWheelDown
	SpecialRatchetModeSwitch

	SpecialResolutionCycleUp
	SpecialResolutionCycleDown
	SpecialResolutionUp
	SpecialResolutionDown
	SpecialResolutionAlternate
	SpecialResolutionDefault

	SpecialProfileCycleUp
	SpecialProfileCycleDown
	SpecialProfileUp
	SpecialProfileDown

	SpecialSecondMode
	SpecialBatteryLevel
)

// LedMode is an LED animation mode.
type LedMode uint32

const (
	LedModeOff LedMode = iota
	LedModeOn
	LedModeCycle
	LedModeBreathing
)

// ColorDepth describes the color resolution of an LED.
type ColorDepth uint32

const (
	ColorDepthMonochrome ColorDepth = iota
	ColorDepthRGB888
	ColorDepthRGB111
)

// Color is an RGB triplet. For monochrome LEDs only brightness applies;
// for 1-bit-per-channel LEDs any non-zero channel reads as full.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// Report rate bounds enforced by Profile.SetReportRate. Values outside
// this range are clamped, not rejected; the hardware's own list in
// Profile.ReportRates stays advisory.
const (
	ReportRateMin = 125
	ReportRateMax = 8000
)

// Structural limits enforced by the post-probe sanity check.
const (
	MaxProfiles    = 16
	MaxResolutions = 16
)

// MaxNameLength bounds a profile name in bytes. On-board name storage
// is small on every known device; 64 leaves room to spare.
const MaxNameLength = 64
