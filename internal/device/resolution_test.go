package device

import (
	"errors"
	"testing"
)

// testDevice builds a probed single-profile device for setter tests.
func testDevice(t *testing.T) *Device {
	t.Helper()

	d := New(Info{Sysname: "hidraw0", Name: "Test Mouse", Bustype: 0x03, Vendor: 0x1234, Product: 0x5678})
	d.InitProfiles(2, 3, 4, 1)
	for _, p := range d.Profiles() {
		p.SetReportRateList([]uint32{125, 250, 500, 1000})
		p.ForceReportRate(1000)
		for _, r := range p.Resolutions() {
			r.SetDpiList([]uint32{400, 800, 1600, 3200})
			r.ForceDpi(800, 800)
		}
	}
	d.Profile(0).ForceActive(true)
	d.Profile(0).Resolution(0).ForceActive(true)
	return d
}

func TestResolution_SetActiveExclusive(t *testing.T) {
	d := testDevice(t)
	p := d.Profile(0)

	if err := p.Resolution(2).SetActive(); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	for i, r := range p.Resolutions() {
		want := i == 2
		if r.IsActive() != want {
			t.Errorf("resolution %d IsActive = %v, want %v", i, r.IsActive(), want)
		}
	}
	if !p.IsDirty() {
		t.Error("profile not dirty after active change")
	}
	if !p.Resolution(0).Dirty() || !p.Resolution(2).Dirty() {
		t.Error("both affected resolutions should be dirty")
	}
}

func TestResolution_SetDefaultExclusive(t *testing.T) {
	d := testDevice(t)
	p := d.Profile(0)

	if err := p.Resolution(0).SetDefault(); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if err := p.Resolution(1).SetDefault(); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}

	if p.Resolution(0).IsDefault() {
		t.Error("resolution 0 still default after moving default to 1")
	}
	if !p.Resolution(1).IsDefault() {
		t.Error("resolution 1 not default")
	}
}

func TestResolution_SetDpiRejectsUnlisted(t *testing.T) {
	d := testDevice(t)
	r := d.Profile(0).Resolution(0)

	if err := r.SetDpi(777); !errors.Is(err, ErrValue) {
		t.Errorf("SetDpi(777) error = %v, want ErrValue", err)
	}
	if r.Dirty() {
		t.Error("rejected write must not dirty the resolution")
	}
}

func TestResolution_SetDpiNoOpKeepsClean(t *testing.T) {
	d := testDevice(t)
	r := d.Profile(0).Resolution(0)

	if err := r.SetDpi(800); err != nil {
		t.Fatalf("SetDpi() error = %v", err)
	}
	if r.Dirty() {
		t.Error("writing the current value must not dirty the resolution")
	}
}

func TestResolution_SetDpiXY(t *testing.T) {
	d := testDevice(t)
	r := d.Profile(0).Resolution(0)

	// Without the capability
	if err := r.SetDpiXY(800, 1600); !errors.Is(err, ErrCapability) {
		t.Fatalf("SetDpiXY() without cap error = %v, want ErrCapability", err)
	}

	r.SetCapability(ResolutionCapSeparateXY)

	if err := r.SetDpiXY(800, 1600); err != nil {
		t.Fatalf("SetDpiXY() error = %v", err)
	}
	x, y := r.Dpi()
	if x != 800 || y != 1600 {
		t.Errorf("Dpi() = (%d, %d), want (800, 1600)", x, y)
	}

	// One zero, one non-zero is invalid
	if err := r.SetDpiXY(0, 1600); !errors.Is(err, ErrValue) {
		t.Errorf("SetDpiXY(0, 1600) error = %v, want ErrValue", err)
	}
	// Both zero is accepted
	if err := r.SetDpiXY(0, 0); err != nil {
		t.Errorf("SetDpiXY(0, 0) error = %v", err)
	}
}

func TestResolution_DisabledSlotRejections(t *testing.T) {
	d := testDevice(t)
	p := d.Profile(0)
	r := p.Resolution(1)
	r.SetCapability(ResolutionCapDisable)

	if err := r.SetDisabled(true); err != nil {
		t.Fatalf("SetDisabled() error = %v", err)
	}

	if err := r.SetActive(); !errors.Is(err, ErrValue) {
		t.Errorf("SetActive() on disabled slot error = %v, want ErrValue", err)
	}
	if err := r.SetDefault(); !errors.Is(err, ErrValue) {
		t.Errorf("SetDefault() on disabled slot error = %v, want ErrValue", err)
	}
	if err := r.SetDpiShiftTarget(); !errors.Is(err, ErrValue) {
		t.Errorf("SetDpiShiftTarget() on disabled slot error = %v, want ErrValue", err)
	}
}

func TestResolution_CannotDisableActive(t *testing.T) {
	d := testDevice(t)
	r := d.Profile(0).Resolution(0) // active
	r.SetCapability(ResolutionCapDisable)

	if err := r.SetDisabled(true); !errors.Is(err, ErrValue) {
		t.Errorf("SetDisabled(true) on active slot error = %v, want ErrValue", err)
	}
}

func TestResolution_DisableRequiresCapability(t *testing.T) {
	d := testDevice(t)
	r := d.Profile(0).Resolution(1)

	if err := r.SetDisabled(true); !errors.Is(err, ErrCapability) {
		t.Errorf("SetDisabled() without cap error = %v, want ErrCapability", err)
	}
}

func TestResolution_SetDpiListFromRange(t *testing.T) {
	d := testDevice(t)
	r := d.Profile(0).Resolution(0)

	r.SetDpiListFromRange(100, 500, 100)

	if got := len(r.DpiList()); got != 5 {
		t.Fatalf("DpiList() has %d entries, want 5", got)
	}
	if r.MinDpi() != 100 || r.MaxDpi() != 500 {
		t.Errorf("Min/MaxDpi = %d/%d, want 100/500", r.MinDpi(), r.MaxDpi())
	}
}
