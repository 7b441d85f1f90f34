package daemon

import (
	"fmt"

	"github.com/ferretd/ferret-core/internal/device"
	"github.com/ferretd/ferret-core/internal/drivers/testdev"
)

// testDeviceSysname is the registry key for the synthetic device. Only
// one can be loaded; loading again replaces it.
const testDeviceSysname = "test0"

// LoadTestDevice attaches a synthetic device built from a JSON
// descriptor. Empty data loads the default single-profile device.
// Reactor-owned: call from a closure passed to Call.
//
// Requires developer mode; on a production daemon this is a hard
// error, not a no-op, so a misconfigured client notices.
func (d *Daemon) LoadTestDevice(data []byte) error {
	if !d.developer {
		return ErrDeveloperDisabled
	}

	desc := testdev.DefaultDescriptor()
	if len(data) > 0 {
		parsed, err := testdev.ParseDescriptor(data)
		if err != nil {
			return fmt.Errorf("%w: %v", device.ErrValue, err)
		}
		desc = parsed
	}

	drv, ok := d.drivers.Lookup("testdev")
	if !ok {
		return device.ErrImplementation
	}

	if d.registry.Has(testDeviceSysname) {
		d.detach(testDeviceSysname)
	}

	dev := device.New(device.Info{Sysname: testDeviceSysname, Name: desc.Name})
	dev.DriverData = desc
	dev.SetDriver(drv)

	if err := drv.Probe(dev); err != nil {
		return err
	}
	if err := device.SanityCheck(dev); err != nil {
		return err
	}
	if err := d.registry.Insert(dev); err != nil {
		return err
	}

	d.logger.Info("test device loaded", "profiles", len(dev.Profiles()))
	d.signaller.DevicesChanged()
	return nil
}
