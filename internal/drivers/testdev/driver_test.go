package testdev

import (
	"errors"
	"testing"

	"github.com/ferretd/ferret-core/internal/device"
)

func probedDevice(t *testing.T, desc *Descriptor) *device.Device {
	t.Helper()

	drv := New()
	dev := device.New(device.Info{Sysname: "test0", Name: "unset"})
	dev.DriverData = desc
	dev.SetDriver(drv)

	if err := drv.Probe(dev); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	return dev
}

func TestProbe_DefaultDescriptor(t *testing.T) {
	dev := probedDevice(t, nil)

	if err := device.SanityCheck(dev); err != nil {
		t.Fatalf("default device fails sanity check: %v", err)
	}
	if dev.Name() != "Test device" {
		t.Errorf("Name() = %q, want %q", dev.Name(), "Test device")
	}
	if dev.DeviceType() != device.DeviceTypeMouse {
		t.Errorf("DeviceType() = %v, want mouse", dev.DeviceType())
	}

	p := dev.ActiveProfile()
	if p == nil {
		t.Fatal("no active profile")
	}
	if p.ReportRate() != 1000 {
		t.Errorf("ReportRate() = %d, want 1000", p.ReportRate())
	}
	r := p.ActiveResolution()
	if r == nil {
		t.Fatal("no active resolution")
	}
	if x, y := r.Dpi(); x != 1000 || y != 1000 {
		t.Errorf("Dpi() = (%d, %d), want (1000, 1000)", x, y)
	}
	if len(p.Buttons()) != 1 || len(p.Leds()) != 0 {
		t.Errorf("geometry = %d buttons / %d leds, want 1/0", len(p.Buttons()), len(p.Leds()))
	}
}

func TestProbe_MultiProfileDescriptor(t *testing.T) {
	desc := &Descriptor{
		Name:            "Fancy",
		FirmwareVersion: "2.1.0",
		Profiles: []ProfileDesc{
			{
				Active:        true,
				ReportRate:    500,
				ReportRates:   []uint32{125, 500, 1000},
				AngleSnapping: 0,
				Debounce:      8,
				Debounces:     []uint32{4, 8, 16},
				Resolutions: []ResolutionDesc{
					{DpiX: 800, DpiY: 800, Dpis: []uint32{400, 800}, Active: true, CapSeparateXY: true},
					{DpiX: 400, DpiY: 400, Dpis: []uint32{400, 800}, Default: true, CapDisable: true},
				},
				Buttons: []ButtonDesc{{Type: "special", Special: uint32(device.SpecialResolutionCycleUp)}},
				Leds:    []LedDesc{{Mode: uint32(device.LedModeOn), Red: 255, ColorDepth: uint32(device.ColorDepthRGB888), Brightness: 200}},
			},
			{
				CapDisable:    true,
				ReportRate:    1000,
				ReportRates:   []uint32{125, 500, 1000},
				AngleSnapping: -1,
				Debounce:      -1,
				Resolutions: []ResolutionDesc{
					{DpiX: 1600, DpiY: 1600, Dpis: []uint32{1600}, Active: true},
				},
				Buttons: []ButtonDesc{{Type: "button", Button: 2}},
			},
		},
	}

	dev := probedDevice(t, desc)

	if err := device.SanityCheck(dev); err != nil {
		t.Fatalf("sanity check: %v", err)
	}
	if dev.FirmwareVersion() != "2.1.0" {
		t.Errorf("FirmwareVersion() = %q, want %q", dev.FirmwareVersion(), "2.1.0")
	}

	p0 := dev.Profile(0)
	if p0.AngleSnapping() != 0 || p0.Debounce() != 8 {
		t.Errorf("profile 0 snapping/debounce = %d/%d, want 0/8", p0.AngleSnapping(), p0.Debounce())
	}
	if !p0.Resolution(0).HasCapability(device.ResolutionCapSeparateXY) {
		t.Error("resolution 0 missing separate-xy capability")
	}
	if !p0.Resolution(1).IsDefault() {
		t.Error("resolution 1 should be default")
	}
	if a := p0.Button(0).Action(); a.Type != device.ActionTypeSpecial || a.Special != device.SpecialResolutionCycleUp {
		t.Errorf("button action = %+v, want special resolution-cycle-up", a)
	}
	if l := p0.Led(0); l.Mode() != device.LedModeOn || l.Color().Red != 255 {
		t.Error("led state not applied from descriptor")
	}

	if !dev.Profile(1).HasCapability(device.ProfileCapDisable) {
		t.Error("profile 1 missing disable capability")
	}
}

func TestCommit_FailureInjection(t *testing.T) {
	desc := DefaultDescriptor()
	desc.CommitFails = true
	dev := probedDevice(t, desc)

	err := dev.Driver().Commit(dev)
	if !errors.Is(err, device.ErrSystem) {
		t.Errorf("Commit() error = %v, want ErrSystem", err)
	}
}

func TestRefreshActiveResolution(t *testing.T) {
	desc := DefaultDescriptor()
	desc.Profiles[0].Resolutions = append(desc.Profiles[0].Resolutions, ResolutionDesc{
		DpiX: 1600, DpiY: 1600, Dpis: []uint32{800, 1600},
	})
	dev := probedDevice(t, desc)
	drv := dev.Driver().(*Driver)

	// No override: no change reported.
	changed, err := drv.RefreshActiveResolution(dev)
	if err != nil || changed {
		t.Fatalf("RefreshActiveResolution() = (%v, %v), want (false, nil)", changed, err)
	}

	// Override moves the hardware cursor to slot 1.
	slot := uint(1)
	desc.ActiveResolutionOverride = &slot

	changed, err = drv.RefreshActiveResolution(dev)
	if err != nil {
		t.Fatalf("RefreshActiveResolution() error = %v", err)
	}
	if !changed {
		t.Fatal("override should report a change")
	}
	p := dev.ActiveProfile()
	if p.Resolution(0).IsActive() || !p.Resolution(1).IsActive() {
		t.Error("active flag did not move to slot 1")
	}
	if p.IsDirty() {
		t.Error("hardware-driven refresh must not dirty the profile")
	}

	// Override is consumed.
	changed, _ = drv.RefreshActiveResolution(dev)
	if changed {
		t.Error("override should be consumed after one refresh")
	}
}

func TestParseDescriptor(t *testing.T) {
	data := []byte(`{
		"name": "JSON Mouse",
		"profiles": [{
			"active": true,
			"report_rate": 1000,
			"report_rates": [125, 1000],
			"angle_snapping": -1,
			"debounce": -1,
			"resolutions": [{"dpi_x": 800, "dpi_y": 800, "dpis": [800], "active": true}],
			"buttons": [{"type": "button", "button": 1}],
			"leds": []
		}]
	}`)

	desc, err := ParseDescriptor(data)
	if err != nil {
		t.Fatalf("ParseDescriptor() error = %v", err)
	}
	if desc.Name != "JSON Mouse" {
		t.Errorf("Name = %q, want %q", desc.Name, "JSON Mouse")
	}

	dev := probedDevice(t, desc)
	if err := device.SanityCheck(dev); err != nil {
		t.Errorf("parsed device fails sanity check: %v", err)
	}
}

func TestParseDescriptor_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"no profiles", `{"name": "x", "profiles": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDescriptor([]byte(tt.data)); err == nil {
				t.Error("ParseDescriptor() should reject invalid descriptor")
			}
		})
	}
}

func TestDescriptor_ValidateLimits(t *testing.T) {
	desc := DefaultDescriptor()
	for i := 0; i < MaxProfiles; i++ {
		desc.Profiles = append(desc.Profiles, desc.Profiles[0])
	}
	if err := desc.Validate(); err == nil {
		t.Error("Validate() should reject too many profiles")
	}
}
