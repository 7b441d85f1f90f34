package steelfang

import (
	"fmt"

	"github.com/ferretd/ferret-core/internal/device"
)

// Device geometry and feature report layout.
const (
	numProfiles    = 4
	numResolutions = 4
	numButtons     = 8
	numLeds        = 1

	// Resolutions are stored as one byte per axis, scaled by dpiScale.
	dpiScale = 100
	dpiMin   = 200
	dpiMax   = 12000

	reportControl     = 0x02
	reportSettings    = 0x03
	reportButtons     = 0x04
	reportLed         = 0x05
	controlReportSize = 6
	settingsSize      = 4 + numResolutions*3
	buttonsSize       = 2 + numButtons*4
	ledSize           = 8

	// Control report commands.
	cmdSetProfile    = 0x01
	cmdSelectProfile = 0x02
)

// Button assignment types on the wire.
const (
	wireButtonNone    = 0x00
	wireButtonLogical = 0x01
	wireButtonSpecial = 0x02
	wireButtonKey     = 0x03
)

// Transport is the feature report channel to one device node.
// hidraw.Node implements it; tests substitute a fake.
type Transport interface {
	GetFeatureReport(reportID byte, size int) ([]byte, error)
	SendFeatureReport(data []byte) error
}

// specialCodes maps the device's special function bytes to their model
// equivalents. The device has no code for functions it cannot perform.
var specialCodes = map[byte]device.SpecialAction{
	0x01: device.SpecialWheelLeft,
	0x02: device.SpecialWheelRight,
	0x03: device.SpecialWheelUp,
	0x04: device.SpecialWheelDown,
	0x05: device.SpecialResolutionCycleUp,
	0x06: device.SpecialResolutionUp,
	0x07: device.SpecialResolutionDown,
	0x08: device.SpecialProfileCycleUp,
	0x09: device.SpecialProfileUp,
	0x0a: device.SpecialProfileDown,
	0x0b: device.SpecialDoubleclick,
	0x0c: device.SpecialBatteryLevel,
}

func specialFromWire(code byte) device.SpecialAction {
	if s, ok := specialCodes[code]; ok {
		return s
	}
	return device.SpecialUnknown
}

func specialToWire(s device.SpecialAction) (byte, bool) {
	for code, special := range specialCodes {
		if special == s {
			return code, true
		}
	}
	return 0, false
}

// controlState is the decoded control report: the hardware's active
// profile and its firmware revision.
type controlState struct {
	activeProfile uint8
	fwMajor       uint8
	fwMinor       uint8
}

func readControl(t Transport) (controlState, error) {
	buf, err := t.GetFeatureReport(reportControl, controlReportSize)
	if err != nil {
		return controlState{}, err
	}
	if len(buf) < 4 {
		return controlState{}, fmt.Errorf("control report: short read of %d bytes", len(buf))
	}
	return controlState{
		activeProfile: buf[1],
		fwMajor:       buf[2],
		fwMinor:       buf[3],
	}, nil
}

// selectProfile points the per-profile reports at the given profile.
func selectProfile(t Transport, index uint) error {
	return t.SendFeatureReport([]byte{reportControl, cmdSelectProfile, byte(index), 0, 0, 0})
}

// setActiveProfile switches the hardware to the given profile.
func setActiveProfile(t Transport, index uint) error {
	return t.SendFeatureReport([]byte{reportControl, cmdSetProfile, byte(index), 0, 0, 0})
}

// settingsReport is the decoded per-profile settings page: polling
// interval plus the resolution slots.
type settingsReport struct {
	pollingInterval  uint8
	activeResolution uint8
	resolutions      [numResolutions]resolutionSlot
}

type resolutionSlot struct {
	enabled bool
	xRes    uint8
	yRes    uint8
}

func readSettings(t Transport) (settingsReport, error) {
	buf, err := t.GetFeatureReport(reportSettings, settingsSize)
	if err != nil {
		return settingsReport{}, err
	}
	if len(buf) < settingsSize {
		return settingsReport{}, fmt.Errorf("settings report: short read of %d bytes", len(buf))
	}
	r := settingsReport{
		pollingInterval:  buf[1],
		activeResolution: buf[2],
	}
	for i := 0; i < numResolutions; i++ {
		off := 4 + i*3
		r.resolutions[i] = resolutionSlot{
			enabled: buf[off] != 0,
			xRes:    buf[off+1],
			yRes:    buf[off+2],
		}
	}
	return r, nil
}

func (r settingsReport) encode() []byte {
	buf := make([]byte, settingsSize)
	buf[0] = reportSettings
	buf[1] = r.pollingInterval
	buf[2] = r.activeResolution
	for i, slot := range r.resolutions {
		off := 4 + i*3
		if slot.enabled {
			buf[off] = 1
		}
		buf[off+1] = slot.xRes
		buf[off+2] = slot.yRes
	}
	return buf
}

func writeSettings(t Transport, r settingsReport) error {
	return t.SendFeatureReport(r.encode())
}

// buttonsReport is the decoded per-profile button page. Each button is
// four bytes: assignment type plus up to three value bytes.
type buttonsReport struct {
	buttons [numButtons]buttonSlot
}

type buttonSlot struct {
	kind byte
	a    byte
	b    byte
}

func readButtons(t Transport) (buttonsReport, error) {
	buf, err := t.GetFeatureReport(reportButtons, buttonsSize)
	if err != nil {
		return buttonsReport{}, err
	}
	if len(buf) < buttonsSize {
		return buttonsReport{}, fmt.Errorf("buttons report: short read of %d bytes", len(buf))
	}
	var r buttonsReport
	for i := 0; i < numButtons; i++ {
		off := 2 + i*4
		r.buttons[i] = buttonSlot{kind: buf[off], a: buf[off+1], b: buf[off+2]}
	}
	return r, nil
}

func (r buttonsReport) encode() []byte {
	buf := make([]byte, buttonsSize)
	buf[0] = reportButtons
	for i, slot := range r.buttons {
		off := 2 + i*4
		buf[off] = slot.kind
		buf[off+1] = slot.a
		buf[off+2] = slot.b
	}
	return buf
}

func writeButtons(t Transport, r buttonsReport) error {
	return t.SendFeatureReport(r.encode())
}

// actionFromSlot decodes a wire button slot into a model action.
func actionFromSlot(slot buttonSlot) device.Action {
	switch slot.kind {
	case wireButtonLogical:
		return device.Action{Type: device.ActionTypeButton, Button: uint32(slot.a)}
	case wireButtonSpecial:
		return device.Action{Type: device.ActionTypeSpecial, Special: specialFromWire(slot.a)}
	case wireButtonKey:
		return device.Action{Type: device.ActionTypeKey, Key: uint32(slot.a), Mods: device.Modifiers(slot.b)}
	default:
		return device.Action{Type: device.ActionTypeNone}
	}
}

// slotFromAction encodes a model action for the wire. Actions the
// device cannot store report an error so the commit fails loudly
// instead of silently dropping the assignment.
func slotFromAction(a device.Action) (buttonSlot, error) {
	switch a.Type {
	case device.ActionTypeNone:
		return buttonSlot{kind: wireButtonNone}, nil
	case device.ActionTypeButton:
		if a.Button > 0xff {
			return buttonSlot{}, fmt.Errorf("%w: button number %d out of range", device.ErrValue, a.Button)
		}
		return buttonSlot{kind: wireButtonLogical, a: byte(a.Button)}, nil
	case device.ActionTypeSpecial:
		code, ok := specialToWire(a.Special)
		if !ok {
			return buttonSlot{}, fmt.Errorf("%w: special function %#x not supported", device.ErrValue, uint32(a.Special))
		}
		return buttonSlot{kind: wireButtonSpecial, a: code}, nil
	case device.ActionTypeKey:
		if a.Key > 0xff {
			return buttonSlot{}, fmt.Errorf("%w: keycode %d out of range", device.ErrValue, a.Key)
		}
		return buttonSlot{kind: wireButtonKey, a: byte(a.Key), b: byte(a.Mods)}, nil
	default:
		return buttonSlot{}, fmt.Errorf("%w: action type %d not supported", device.ErrValue, a.Type)
	}
}

// ledReport is the decoded per-profile light page. Brightness is two
// bits on the wire (0 to 3); breathing speed 1 to 9 selects the
// breathing mode, anything else means steady.
type ledReport struct {
	red        uint8
	green      uint8
	blue       uint8
	brightness uint8
	breath     uint8
}

func readLed(t Transport) (ledReport, error) {
	buf, err := t.GetFeatureReport(reportLed, ledSize)
	if err != nil {
		return ledReport{}, err
	}
	if len(buf) < 7 {
		return ledReport{}, fmt.Errorf("led report: short read of %d bytes", len(buf))
	}
	return ledReport{
		red:        buf[1],
		green:      buf[2],
		blue:       buf[3],
		brightness: buf[4],
		breath:     buf[5],
	}, nil
}

func (r ledReport) encode() []byte {
	return []byte{reportLed, r.red, r.green, r.blue, r.brightness, r.breath, 0, 0}
}

func writeLed(t Transport, r ledReport) error {
	return t.SendFeatureReport(r.encode())
}

// ledState decodes the wire report into the model's mode, color,
// effect duration and brightness.
func (r ledReport) ledState() (device.LedMode, device.Color, uint32, uint8) {
	color := device.Color{Red: r.red, Green: r.green, Blue: r.blue}
	brightness := r.brightness
	if brightness > 3 {
		brightness = 3
	}
	switch {
	case brightness == 0:
		return device.LedModeOff, color, 0, 0
	case r.breath >= 1 && r.breath <= 9:
		return device.LedModeBreathing, color, uint32(r.breath) * 1000, brightness * 85
	default:
		return device.LedModeOn, color, 0, brightness * 85
	}
}

// ledReportFromState encodes the model's LED state for the wire.
func ledReportFromState(mode device.LedMode, c device.Color, durationMS uint32, brightness uint8) ledReport {
	r := ledReport{red: c.Red, green: c.Green, blue: c.Blue}
	if mode == device.LedModeOff {
		return r
	}

	r.brightness = brightness / 85
	if r.brightness == 0 {
		r.brightness = 1
	}
	if mode == device.LedModeBreathing {
		breath := durationMS / 1000
		if breath < 1 {
			breath = 1
		}
		if breath > 9 {
			breath = 9
		}
		r.breath = uint8(breath)
	}
	return r
}
