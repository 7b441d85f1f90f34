package testdev

import (
	"github.com/ferretd/ferret-core/internal/device"
)

// Driver attaches synthetic devices from descriptors. The descriptor
// travels in Device.DriverData; a device without one gets the default
// descriptor.
type Driver struct{}

// New creates the test device driver.
func New() *Driver {
	return &Driver{}
}

// Name implements device.Driver.
func (d *Driver) Name() string { return "Test device" }

// ID implements device.Driver.
func (d *Driver) ID() string { return "testdev" }

// Probe builds the profile tree from the descriptor.
func (d *Driver) Probe(dev *device.Device) error {
	desc, ok := dev.DriverData.(*Descriptor)
	if !ok || desc == nil {
		desc = DefaultDescriptor()
		dev.DriverData = desc
	}
	if err := desc.Validate(); err != nil {
		return err
	}

	if desc.Name != "" {
		dev.SetName(desc.Name)
	}
	dev.SetDeviceType(device.DeviceTypeMouse)
	dev.SetFirmwareVersion(desc.FirmwareVersion)

	geometry := treeGeometry(desc)
	dev.InitProfiles(uint(len(desc.Profiles)), geometry.resolutions, geometry.buttons, geometry.leds)

	for i, pd := range desc.Profiles {
		probeProfile(dev.Profile(uint(i)), pd)
	}
	return nil
}

// treeGeometry returns the per-profile child counts. The object model
// uses one fixed geometry per device, so the widest profile wins and
// narrower descriptors simply leave trailing slots at their defaults.
func treeGeometry(desc *Descriptor) struct{ resolutions, buttons, leds uint } {
	var g struct{ resolutions, buttons, leds uint }
	for _, p := range desc.Profiles {
		if n := uint(len(p.Resolutions)); n > g.resolutions {
			g.resolutions = n
		}
		if n := uint(len(p.Buttons)); n > g.buttons {
			g.buttons = n
		}
		if n := uint(len(p.Leds)); n > g.leds {
			g.leds = n
		}
	}
	return g
}

func probeProfile(p *device.Profile, pd ProfileDesc) {
	if pd.Name != "" {
		p.ForceName(pd.Name)
	}
	p.ForceActive(pd.Active)
	p.ForceDisabled(pd.Disabled)
	if pd.CapDisable {
		p.SetCapability(device.ProfileCapDisable)
	}
	if pd.CapSetDefault {
		p.SetCapability(device.ProfileCapSetDefault)
	}

	p.SetReportRateList(pd.ReportRates)
	p.ForceReportRate(pd.ReportRate)
	p.ForceAngleSnapping(pd.AngleSnapping)
	p.SetDebounceList(pd.Debounces)
	p.ForceDebounce(pd.Debounce)

	for i, rd := range pd.Resolutions {
		r := p.Resolution(uint(i))
		r.SetDpiList(rd.Dpis)
		r.ForceDpi(rd.DpiX, rd.DpiY)
		r.ForceActive(rd.Active)
		r.ForceDefault(rd.Default)
		r.ForceDisabled(rd.Disabled)
		if rd.CapSeparateXY {
			r.SetCapability(device.ResolutionCapSeparateXY)
		}
		if rd.CapDisable {
			r.SetCapability(device.ResolutionCapDisable)
		}
		r.ForceDpiShiftTarget(rd.DpiShiftTarget)
	}

	// Narrower profiles still own the full geometry. Trailing slots
	// inherit the last described slot's DPI list and start disabled so
	// the device stays coherent.
	if n := len(pd.Resolutions); n > 0 {
		last := pd.Resolutions[n-1]
		for i := uint(n); ; i++ {
			r := p.Resolution(i)
			if r == nil {
				break
			}
			r.SetDpiList(last.Dpis)
			r.ForceDpi(last.DpiX, last.DpiY)
			r.ForceDisabled(true)
		}
	}

	for i, bd := range pd.Buttons {
		b := p.Button(uint(i))
		b.EnableActionType(device.ActionTypeNone)
		b.EnableActionType(device.ActionTypeButton)
		b.EnableActionType(device.ActionTypeSpecial)
		b.EnableActionType(device.ActionTypeKey)
		b.EnableActionType(device.ActionTypeMacro)
		b.SetAction(buttonAction(bd))
	}

	for i, ld := range pd.Leds {
		l := p.Led(uint(i))
		l.SetModeCapability(device.LedModeOn)
		l.SetModeCapability(device.LedModeCycle)
		l.SetModeCapability(device.LedModeBreathing)
		l.SetColorDepth(device.ColorDepth(ld.ColorDepth))
		l.ForceState(device.LedMode(ld.Mode),
			device.Color{Red: ld.Red, Green: ld.Green, Blue: ld.Blue},
			ld.Duration, ld.Brightness)
	}
}

func buttonAction(bd ButtonDesc) device.Action {
	switch bd.Type {
	case "button":
		return device.Action{Type: device.ActionTypeButton, Button: bd.Button}
	case "special":
		return device.Action{Type: device.ActionTypeSpecial, Special: device.SpecialAction(bd.Special)}
	case "key":
		return device.Action{Type: device.ActionTypeKey, Key: bd.Key}
	case "macro":
		return device.Action{Type: device.ActionTypeMacro, Macro: device.NewMacro("", nil)}
	default:
		return device.Action{Type: device.ActionTypeNone}
	}
}

// Commit implements device.Driver. Synthetic hardware accepts
// everything unless the descriptor injects a failure.
func (d *Driver) Commit(dev *device.Device) error {
	desc, ok := dev.DriverData.(*Descriptor)
	if ok && desc.CommitFails {
		return device.ErrSystem
	}
	return nil
}

// Remove implements device.Driver.
func (d *Driver) Remove(dev *device.Device) {
	dev.DriverData = nil
}

// SetActiveProfile implements device.ActiveProfileSetter.
func (d *Driver) SetActiveProfile(dev *device.Device, index uint) error {
	if dev.Profile(index) == nil {
		return device.ErrValue
	}
	return nil
}

// RefreshActiveResolution implements device.ResolutionRefresher. The
// descriptor's override plays the role of the hardware DPI button: when
// it points at a different slot than the model, the model is updated
// and the change reported. The override is consumed.
func (d *Driver) RefreshActiveResolution(dev *device.Device) (bool, error) {
	desc, ok := dev.DriverData.(*Descriptor)
	if !ok || desc.ActiveResolutionOverride == nil {
		return false, nil
	}
	target := *desc.ActiveResolutionOverride
	desc.ActiveResolutionOverride = nil

	profile := dev.ActiveProfile()
	if profile == nil {
		return false, nil
	}
	slot := profile.Resolution(target)
	if slot == nil || slot.IsActive() {
		return false, nil
	}

	for _, r := range profile.Resolutions() {
		r.ForceActive(r.Index() == target)
	}
	return true, nil
}
