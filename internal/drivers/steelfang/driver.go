package steelfang

import (
	"fmt"

	"github.com/ferretd/ferret-core/internal/device"
	"github.com/ferretd/ferret-core/internal/hidraw"
)

// reportRates is the fixed set of rates the firmware accepts. The wire
// carries the polling interval in milliseconds, so the rate is always
// 1000 divided by a small integer.
var reportRates = []uint32{125, 250, 500, 1000}

// deviceData is the driver state kept in Device.DriverData between
// probe, commit and refresh calls.
type deviceData struct {
	transport Transport
}

// Driver drives SteelFang mice over their feature report protocol.
type Driver struct {
	open   func(devnode string) Transport
	logger hidraw.Logger
	raw    bool
}

// New creates the driver with the hidraw transport.
func New() *Driver {
	d := &Driver{}
	d.open = func(devnode string) Transport {
		node := hidraw.NewNode(devnode)
		if d.logger != nil {
			node.SetLogger(d.logger)
		}
		node.SetRawOutput(d.raw)
		return node
	}
	return d
}

// NewWithTransport creates the driver with a custom transport factory.
func NewWithTransport(open func(devnode string) Transport) *Driver {
	return &Driver{open: open}
}

// SetLogger sets the logger handed to hidraw nodes the driver opens.
func (d *Driver) SetLogger(logger hidraw.Logger) {
	d.logger = logger
}

// SetRawOutput enables wire dumps on hidraw nodes the driver opens.
func (d *Driver) SetRawOutput(enabled bool) {
	d.raw = enabled
}

// Name implements device.Driver.
func (d *Driver) Name() string { return "SteelFang" }

// ID implements device.Driver.
func (d *Driver) ID() string { return "steelfang" }

// Probe reads the full on-board configuration and mirrors it into the
// device model.
func (d *Driver) Probe(dev *device.Device) error {
	t := d.open(dev.Devnode())

	ctl, err := readControl(t)
	if err != nil {
		return fmt.Errorf("%w: %s does not answer the control report: %v",
			device.ErrDevice, dev.Sysname(), err)
	}

	dev.DriverData = &deviceData{transport: t}
	dev.SetDeviceType(device.DeviceTypeMouse)
	dev.SetFirmwareVersion(fmt.Sprintf("%d.%d", ctl.fwMajor, ctl.fwMinor))
	dev.InitProfiles(numProfiles, numResolutions, numButtons, numLeds)

	for _, p := range dev.Profiles() {
		p.ForceActive(p.Index() == uint(ctl.activeProfile))
		if err := d.probeProfile(t, p); err != nil {
			return fmt.Errorf("probing %s profile %d: %w", dev.Sysname(), p.Index(), err)
		}
	}
	return nil
}

func (d *Driver) probeProfile(t Transport, p *device.Profile) error {
	if err := selectProfile(t, p.Index()); err != nil {
		return err
	}

	settings, err := readSettings(t)
	if err != nil {
		return err
	}
	p.SetReportRateList(reportRates)
	interval := settings.pollingInterval
	if interval == 0 {
		interval = 1
	}
	p.ForceReportRate(1000 / uint32(interval))

	for _, r := range p.Resolutions() {
		slot := settings.resolutions[r.Index()]
		r.SetCapability(device.ResolutionCapSeparateXY)
		r.SetCapability(device.ResolutionCapDisable)
		r.SetDpiListFromRange(dpiMin, dpiMax, dpiScale)
		r.ForceDpi(uint32(slot.xRes)*dpiScale, uint32(slot.yRes)*dpiScale)
		r.ForceActive(r.Index() == uint(settings.activeResolution))
		r.ForceDisabled(!slot.enabled)
	}

	buttons, err := readButtons(t)
	if err != nil {
		return err
	}
	for _, b := range p.Buttons() {
		b.EnableActionType(device.ActionTypeNone)
		b.EnableActionType(device.ActionTypeButton)
		b.EnableActionType(device.ActionTypeSpecial)
		b.EnableActionType(device.ActionTypeKey)
		b.SetAction(actionFromSlot(buttons.buttons[b.Index()]))
	}

	led, err := readLed(t)
	if err != nil {
		return err
	}
	for _, l := range p.Leds() {
		l.SetModeCapability(device.LedModeOn)
		l.SetModeCapability(device.LedModeBreathing)
		l.SetColorDepth(device.ColorDepthRGB888)
		l.ForceState(led.ledState())
	}
	return nil
}

// Commit writes all dirty profile pages back to the device.
func (d *Driver) Commit(dev *device.Device) error {
	data, ok := dev.DriverData.(*deviceData)
	if !ok || data == nil {
		return fmt.Errorf("%w: %s has no driver state", device.ErrImplementation, dev.Sysname())
	}

	for _, p := range dev.DirtyProfiles() {
		if err := d.commitProfile(data.transport, p); err != nil {
			return fmt.Errorf("%w: committing %s profile %d: %v",
				device.ErrSystem, dev.Sysname(), p.Index(), err)
		}
	}
	return nil
}

func (d *Driver) commitProfile(t Transport, p *device.Profile) error {
	if err := selectProfile(t, p.Index()); err != nil {
		return err
	}

	if err := d.commitSettings(t, p); err != nil {
		return err
	}
	if err := d.commitButtons(t, p); err != nil {
		return err
	}
	for _, l := range p.Leds() {
		if !l.Dirty() {
			continue
		}
		report := ledReportFromState(l.Mode(), l.Color(), l.EffectDuration(), l.Brightness())
		if err := writeLed(t, report); err != nil {
			return err
		}
	}
	return nil
}

// commitSettings rewrites the settings page when the report rate or any
// resolution slot changed. The page carries both, so they travel
// together.
func (d *Driver) commitSettings(t Transport, p *device.Profile) error {
	dirty := p.RateDirty()
	for _, r := range p.Resolutions() {
		if r.Dirty() {
			dirty = true
			break
		}
	}
	if !dirty {
		return nil
	}

	report := settingsReport{pollingInterval: uint8(1000 / p.ReportRate())}
	for _, r := range p.Resolutions() {
		x, y := r.Dpi()
		report.resolutions[r.Index()] = resolutionSlot{
			enabled: !r.IsDisabled(),
			xRes:    uint8(x / dpiScale),
			yRes:    uint8(y / dpiScale),
		}
		if r.IsActive() {
			report.activeResolution = uint8(r.Index())
		}
	}
	return writeSettings(t, report)
}

func (d *Driver) commitButtons(t Transport, p *device.Profile) error {
	dirty := false
	for _, b := range p.Buttons() {
		if b.Dirty() {
			dirty = true
			break
		}
	}
	if !dirty {
		return nil
	}

	var report buttonsReport
	for _, b := range p.Buttons() {
		slot, err := slotFromAction(b.Action())
		if err != nil {
			return fmt.Errorf("button %d: %w", b.Index(), err)
		}
		report.buttons[b.Index()] = slot
	}
	return writeButtons(t, report)
}

// Remove implements device.Driver.
func (d *Driver) Remove(dev *device.Device) {
	dev.DriverData = nil
}

// SetActiveProfile implements device.ActiveProfileSetter.
func (d *Driver) SetActiveProfile(dev *device.Device, index uint) error {
	data, ok := dev.DriverData.(*deviceData)
	if !ok || data == nil {
		return fmt.Errorf("%w: %s has no driver state", device.ErrImplementation, dev.Sysname())
	}
	if index >= numProfiles {
		return fmt.Errorf("%w: profile index %d out of range", device.ErrValue, index)
	}
	if err := setActiveProfile(data.transport, index); err != nil {
		return fmt.Errorf("%w: switching %s to profile %d: %v",
			device.ErrSystem, dev.Sysname(), index, err)
	}
	return nil
}

// RefreshActiveResolution implements device.ResolutionRefresher. The
// mouse's own DPI button moves the active slot without telling the
// daemon, so the poll re-reads the settings page of the active profile
// and realigns the model.
func (d *Driver) RefreshActiveResolution(dev *device.Device) (bool, error) {
	data, ok := dev.DriverData.(*deviceData)
	if !ok || data == nil {
		return false, fmt.Errorf("%w: %s has no driver state", device.ErrImplementation, dev.Sysname())
	}
	p := dev.ActiveProfile()
	if p == nil {
		return false, nil
	}

	if err := selectProfile(data.transport, p.Index()); err != nil {
		return false, fmt.Errorf("%w: %v", device.ErrSystem, err)
	}
	settings, err := readSettings(data.transport)
	if err != nil {
		return false, fmt.Errorf("%w: %v", device.ErrSystem, err)
	}

	target := uint(settings.activeResolution)
	current := p.ActiveResolution()
	if current != nil && current.Index() == target {
		return false, nil
	}
	if p.Resolution(target) == nil {
		return false, nil
	}
	for _, r := range p.Resolutions() {
		r.ForceActive(r.Index() == target)
	}
	return true, nil
}
