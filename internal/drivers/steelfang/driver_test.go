package steelfang

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ferretd/ferret-core/internal/device"
)

// fakeTransport emulates the mouse's feature report pages in memory.
type fakeTransport struct {
	activeProfile uint8
	fwMajor       uint8
	fwMinor       uint8

	selected uint8
	pages    [numProfiles]map[byte][]byte

	sent     [][]byte
	failSend bool
}

func newFakeTransport() *fakeTransport {
	t := &fakeTransport{fwMajor: 2, fwMinor: 3}
	for i := range t.pages {
		t.pages[i] = map[byte][]byte{
			reportSettings: settingsPage(1, 1, [numResolutions]resolutionSlot{
				{enabled: true, xRes: 8, yRes: 8},
				{enabled: true, xRes: 16, yRes: 16},
				{enabled: false, xRes: 4, yRes: 4},
				{enabled: true, xRes: 120, yRes: 120},
			}),
			reportButtons: buttonsPage(),
			reportLed:     {reportLed, 255, 0, 128, 2, 3, 0, 0},
		}
	}
	return t
}

func settingsPage(interval, active uint8, slots [numResolutions]resolutionSlot) []byte {
	r := settingsReport{pollingInterval: interval, activeResolution: active, resolutions: slots}
	return r.encode()
}

func buttonsPage() []byte {
	var r buttonsReport
	r.buttons[0] = buttonSlot{kind: wireButtonLogical, a: 1}
	r.buttons[1] = buttonSlot{kind: wireButtonSpecial, a: 0x05}
	r.buttons[2] = buttonSlot{kind: wireButtonKey, a: 30, b: 0x01}
	return r.encode()
}

func (t *fakeTransport) GetFeatureReport(reportID byte, size int) ([]byte, error) {
	if reportID == reportControl {
		return []byte{reportControl, t.activeProfile, t.fwMajor, t.fwMinor, 0, 0}, nil
	}
	page, ok := t.pages[t.selected][reportID]
	if !ok {
		return nil, fmt.Errorf("no page for report %#02x", reportID)
	}
	out := make([]byte, len(page))
	copy(out, page)
	return out, nil
}

func (t *fakeTransport) SendFeatureReport(data []byte) error {
	if t.failSend {
		return errors.New("device unplugged")
	}
	sent := make([]byte, len(data))
	copy(sent, data)
	t.sent = append(t.sent, sent)

	if data[0] == reportControl {
		switch data[1] {
		case cmdSelectProfile:
			t.selected = data[2]
		case cmdSetProfile:
			t.activeProfile = data[2]
		}
		return nil
	}
	t.pages[t.selected][data[0]] = sent
	return nil
}

// sentReports returns the IDs of the non-control reports written.
func (t *fakeTransport) sentReports() []byte {
	var ids []byte
	for _, data := range t.sent {
		if data[0] != reportControl {
			ids = append(ids, data[0])
		}
	}
	return ids
}

func probedDevice(t *testing.T, transport *fakeTransport) *device.Device {
	t.Helper()

	drv := NewWithTransport(func(string) Transport { return transport })
	dev := device.New(device.Info{Sysname: "hidraw3", Devnode: "/dev/hidraw3", Name: "SteelFang Viper"})
	dev.SetDriver(drv)

	if err := drv.Probe(dev); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	return dev
}

func TestProbe(t *testing.T) {
	transport := newFakeTransport()
	transport.activeProfile = 1
	dev := probedDevice(t, transport)

	if err := device.SanityCheck(dev); err != nil {
		t.Fatalf("sanity check: %v", err)
	}
	if dev.FirmwareVersion() != "2.3" {
		t.Errorf("FirmwareVersion() = %q, want %q", dev.FirmwareVersion(), "2.3")
	}
	if ap := dev.ActiveProfile(); ap == nil || ap.Index() != 1 {
		t.Fatalf("active profile = %v, want index 1", ap)
	}

	p := dev.Profile(0)
	if p.ReportRate() != 1000 {
		t.Errorf("ReportRate() = %d, want 1000", p.ReportRate())
	}
	if x, y := p.Resolution(0).Dpi(); x != 800 || y != 800 {
		t.Errorf("resolution 0 dpi = (%d, %d), want (800, 800)", x, y)
	}
	if x, _ := p.Resolution(1).Dpi(); x != 1600 {
		t.Errorf("resolution 1 dpi x = %d, want 1600", x)
	}
	if !p.Resolution(2).IsDisabled() {
		t.Error("resolution 2 should be disabled")
	}
	if !p.Resolution(1).IsActive() {
		t.Error("resolution 1 should be active")
	}
	if p.Resolution(0).MinDpi() != dpiMin || p.Resolution(0).MaxDpi() != dpiMax {
		t.Errorf("dpi range = [%d, %d], want [%d, %d]",
			p.Resolution(0).MinDpi(), p.Resolution(0).MaxDpi(), dpiMin, dpiMax)
	}

	tests := []struct {
		index uint
		want  device.Action
	}{
		{0, device.Action{Type: device.ActionTypeButton, Button: 1}},
		{1, device.Action{Type: device.ActionTypeSpecial, Special: device.SpecialResolutionCycleUp}},
		{2, device.Action{Type: device.ActionTypeKey, Key: 30, Mods: 0x01}},
		{3, device.Action{Type: device.ActionTypeNone}},
	}
	for _, tt := range tests {
		if got := p.Button(tt.index).Action(); got != tt.want {
			t.Errorf("button %d action = %+v, want %+v", tt.index, got, tt.want)
		}
	}

	l := p.Led(0)
	if l.Mode() != device.LedModeBreathing {
		t.Errorf("led mode = %v, want breathing", l.Mode())
	}
	if l.Color() != (device.Color{Red: 255, Green: 0, Blue: 128}) {
		t.Errorf("led color = %+v", l.Color())
	}
	if l.EffectDuration() != 3000 {
		t.Errorf("led effect duration = %d, want 3000", l.EffectDuration())
	}
	if l.Brightness() != 170 {
		t.Errorf("led brightness = %d, want 170", l.Brightness())
	}
}

func TestCommit_WritesOnlyDirtyPages(t *testing.T) {
	transport := newFakeTransport()
	dev := probedDevice(t, transport)
	transport.sent = nil

	if err := dev.Profile(0).Resolution(0).SetDpi(2400); err != nil {
		t.Fatalf("SetDpi() error = %v", err)
	}
	if err := dev.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	ids := transport.sentReports()
	if len(ids) != 1 || ids[0] != reportSettings {
		t.Fatalf("written reports = %#v, want only the settings page", ids)
	}

	page := transport.pages[0][reportSettings]
	if page[4+1] != 24 || page[4+2] != 24 {
		t.Errorf("slot 0 on the wire = (%d, %d), want (24, 24)", page[4+1], page[4+2])
	}
	if dev.IsDirty() {
		t.Error("device still dirty after commit")
	}
}

func TestCommit_ButtonPage(t *testing.T) {
	transport := newFakeTransport()
	dev := probedDevice(t, transport)
	transport.sent = nil

	if err := dev.Profile(0).Button(3).SetSpecial(device.SpecialWheelUp); err != nil {
		t.Fatalf("SetSpecial() error = %v", err)
	}
	if err := dev.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	ids := transport.sentReports()
	if len(ids) != 1 || ids[0] != reportButtons {
		t.Fatalf("written reports = %#v, want only the buttons page", ids)
	}
	page := transport.pages[0][reportButtons]
	off := 2 + 3*4
	if page[off] != wireButtonSpecial || page[off+1] != 0x03 {
		t.Errorf("button 3 on the wire = (%#02x, %#02x), want special wheel-up", page[off], page[off+1])
	}
}

func TestCommit_ProfileSwitch(t *testing.T) {
	transport := newFakeTransport()
	dev := probedDevice(t, transport)
	transport.sent = nil

	if err := dev.Profile(2).SetActive(); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if err := dev.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if transport.activeProfile != 2 {
		t.Errorf("hardware active profile = %d, want 2", transport.activeProfile)
	}
}

func TestCommit_TransportFailure(t *testing.T) {
	transport := newFakeTransport()
	dev := probedDevice(t, transport)

	if err := dev.Profile(0).Led(0).SetBrightness(255); err != nil {
		t.Fatalf("SetBrightness() error = %v", err)
	}
	transport.failSend = true

	err := dev.Commit()
	if !errors.Is(err, device.ErrSystem) {
		t.Errorf("Commit() error = %v, want ErrSystem", err)
	}
	if !dev.IsDirty() {
		t.Error("failed commit must keep the device dirty")
	}
}

func TestRefreshActiveResolution(t *testing.T) {
	transport := newFakeTransport()
	dev := probedDevice(t, transport)

	changed, err := dev.Driver().(*Driver).RefreshActiveResolution(dev)
	if err != nil || changed {
		t.Fatalf("RefreshActiveResolution() = (%v, %v), want (false, nil)", changed, err)
	}

	// The DPI button moved the hardware to slot 3.
	page := transport.pages[0][reportSettings]
	page[2] = 3

	changed, err = dev.Driver().(*Driver).RefreshActiveResolution(dev)
	if err != nil {
		t.Fatalf("RefreshActiveResolution() error = %v", err)
	}
	if !changed {
		t.Fatal("moved slot should report a change")
	}
	p := dev.ActiveProfile()
	if !p.Resolution(3).IsActive() || p.Resolution(1).IsActive() {
		t.Error("active flag did not move to slot 3")
	}
	if p.IsDirty() {
		t.Error("hardware-driven refresh must not dirty the profile")
	}
}

func TestLedWireEncoding(t *testing.T) {
	tests := []struct {
		name       string
		mode       device.LedMode
		duration   uint32
		brightness uint8
		want       ledReport
	}{
		{"off", device.LedModeOff, 0, 200, ledReport{red: 1, green: 2, blue: 3}},
		{"on full", device.LedModeOn, 0, 255, ledReport{red: 1, green: 2, blue: 3, brightness: 3}},
		{"on dim never zero", device.LedModeOn, 0, 10, ledReport{red: 1, green: 2, blue: 3, brightness: 1}},
		{"breathing", device.LedModeBreathing, 4000, 170, ledReport{red: 1, green: 2, blue: 3, brightness: 2, breath: 4}},
		{"breathing clamped", device.LedModeBreathing, 10000, 255, ledReport{red: 1, green: 2, blue: 3, brightness: 3, breath: 9}},
	}
	color := device.Color{Red: 1, Green: 2, Blue: 3}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledReportFromState(tt.mode, color, tt.duration, tt.brightness)
			if got != tt.want {
				t.Errorf("ledReportFromState() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSlotFromAction_Unsupported(t *testing.T) {
	tests := []struct {
		name   string
		action device.Action
	}{
		{"macro", device.Action{Type: device.ActionTypeMacro, Macro: device.NewMacro("m", nil)}},
		{"unknown special", device.Action{Type: device.ActionTypeSpecial, Special: device.SpecialSecondMode}},
		{"oversized keycode", device.Action{Type: device.ActionTypeKey, Key: 0x1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := slotFromAction(tt.action); !errors.Is(err, device.ErrValue) {
				t.Errorf("slotFromAction() error = %v, want ErrValue", err)
			}
		})
	}
}
