package device

import (
	"errors"
	"testing"
)

// mockDriver records calls and can be told to fail.
type mockDriver struct {
	commitCalls    int
	commitErr      error
	setActiveCalls []uint
	setActiveErr   error
	removed        int
}

func (m *mockDriver) Name() string { return "Mock" }
func (m *mockDriver) ID() string   { return "mock" }

func (m *mockDriver) Probe(*Device) error { return nil }

func (m *mockDriver) Commit(*Device) error {
	m.commitCalls++
	return m.commitErr
}

func (m *mockDriver) Remove(*Device) { m.removed++ }

func (m *mockDriver) SetActiveProfile(_ *Device, index uint) error {
	m.setActiveCalls = append(m.setActiveCalls, index)
	return m.setActiveErr
}

// plainDriver implements only the base Driver interface.
type plainDriver struct {
	commitErr error
}

func (p *plainDriver) Name() string         { return "Plain" }
func (p *plainDriver) ID() string           { return "plain" }
func (p *plainDriver) Probe(*Device) error  { return nil }
func (p *plainDriver) Commit(*Device) error { return p.commitErr }
func (p *plainDriver) Remove(*Device)       {}

func TestDevice_InitProfilesGeometry(t *testing.T) {
	d := New(Info{Sysname: "hidraw3"})
	d.InitProfiles(3, 4, 8, 2)

	if len(d.Profiles()) != 3 {
		t.Fatalf("profiles = %d, want 3", len(d.Profiles()))
	}
	p := d.Profile(2)
	if len(p.Resolutions()) != 4 || len(p.Buttons()) != 8 || len(p.Leds()) != 2 {
		t.Errorf("geometry = %d/%d/%d, want 4/8/2",
			len(p.Resolutions()), len(p.Buttons()), len(p.Leds()))
	}
	if d.Profile(3) != nil {
		t.Error("out of range profile lookup should return nil")
	}
}

func TestDevice_Model(t *testing.T) {
	d := New(Info{Bustype: 0x03, Vendor: 0x046d, Product: 0xc539, Version: 0})
	if got, want := d.Model(), "usb:046d:c539:0"; got != want {
		t.Errorf("Model() = %q, want %q", got, want)
	}

	d = New(Info{Bustype: 0x05, Vendor: 0x1532, Product: 0x0043, Version: 2})
	if got, want := d.Model(), "bluetooth:1532:0043:2"; got != want {
		t.Errorf("Model() = %q, want %q", got, want)
	}
}

func TestDevice_CommitClearsDirty(t *testing.T) {
	d := testDevice(t)
	drv := &mockDriver{}
	d.SetDriver(drv)

	if err := d.Profile(0).SetReportRate(500); err != nil {
		t.Fatal(err)
	}
	if err := d.Profile(0).Resolution(1).SetDpi(1600); err != nil {
		t.Fatal(err)
	}

	if err := d.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if drv.commitCalls != 1 {
		t.Errorf("driver commit calls = %d, want 1", drv.commitCalls)
	}
	if d.IsDirty() {
		t.Error("device still dirty after successful commit")
	}
}

func TestDevice_CommitCleanIsNoOp(t *testing.T) {
	d := testDevice(t)
	drv := &mockDriver{}
	d.SetDriver(drv)

	if err := d.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if drv.commitCalls != 0 {
		t.Errorf("driver commit calls = %d, want 0 on a clean device", drv.commitCalls)
	}
}

func TestDevice_CommitFailureKeepsDirty(t *testing.T) {
	d := testDevice(t)
	drv := &mockDriver{commitErr: ErrSystem}
	d.SetDriver(drv)

	if err := d.Profile(0).SetReportRate(250); err != nil {
		t.Fatal(err)
	}

	if err := d.Commit(); !errors.Is(err, ErrSystem) {
		t.Fatalf("Commit() error = %v, want ErrSystem", err)
	}
	if !d.IsDirty() {
		t.Error("dirty state must survive a failed commit")
	}
}

func TestDevice_CommitAppliesProfileSwitch(t *testing.T) {
	d := testDevice(t)
	drv := &mockDriver{}
	d.SetDriver(drv)

	if err := d.Profile(1).SetActive(); err != nil {
		t.Fatal(err)
	}
	if err := d.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if len(drv.setActiveCalls) != 1 || drv.setActiveCalls[0] != 1 {
		t.Errorf("SetActiveProfile calls = %v, want [1]", drv.setActiveCalls)
	}
	if d.Profile(1).ActiveTransition() {
		t.Error("transition flag should clear after commit")
	}
}

func TestDevice_CommitProfileSwitchWithoutHook(t *testing.T) {
	d := testDevice(t)
	d.SetDriver(&plainDriver{})

	if err := d.Profile(1).SetActive(); err != nil {
		t.Fatal(err)
	}

	if err := d.Commit(); !errors.Is(err, ErrImplementation) {
		t.Errorf("Commit() error = %v, want ErrImplementation", err)
	}
}

func TestDevice_CommitAfterRemoval(t *testing.T) {
	d := testDevice(t)
	d.SetDriver(&mockDriver{})
	if err := d.Profile(0).SetReportRate(250); err != nil {
		t.Fatal(err)
	}

	d.MarkRemoved()

	if err := d.Commit(); !errors.Is(err, ErrDevice) {
		t.Errorf("Commit() on removed device error = %v, want ErrDevice", err)
	}
}

func TestSanityCheck(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Device)
		wantErr bool
	}{
		{"valid device", func(*Device) {}, false},
		{"no active profile", func(d *Device) {
			d.Profile(0).ForceActive(false)
		}, true},
		{"two active profiles", func(d *Device) {
			d.Profile(1).ForceActive(true)
		}, true},
		{"empty dpi list", func(d *Device) {
			d.Profile(1).Resolution(2).SetDpiList(nil)
		}, true},
		{"empty rate list", func(d *Device) {
			d.Profile(0).SetReportRateList(nil)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDevice(t)
			tt.mutate(d)

			err := SanityCheck(d)
			if (err != nil) != tt.wantErr {
				t.Errorf("SanityCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanityCheck_NoProfiles(t *testing.T) {
	d := New(Info{Sysname: "hidraw9"})
	if err := SanityCheck(d); err == nil {
		t.Error("SanityCheck() on unprobed device should fail")
	}
}
