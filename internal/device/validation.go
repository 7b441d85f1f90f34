package device

import "fmt"

// SanityCheck verifies that a driver's probe produced a coherent
// device. A device that fails the check is discarded before it ever
// reaches the bus, so a buggy driver cannot publish a half-built tree.
//
// Checks:
//   - between 1 and MaxProfiles profiles
//   - at most MaxResolutions resolutions per profile
//   - exactly one active profile
//   - every resolution carries a non-empty DPI list
//   - every profile carries a non-empty report rate list
func SanityCheck(d *Device) error {
	numProfiles := len(d.profiles)
	if numProfiles == 0 {
		return fmt.Errorf("%w: device %q has no profiles", ErrImplementation, d.Sysname())
	}
	if numProfiles > MaxProfiles {
		return fmt.Errorf("%w: device %q has %d profiles, limit is %d",
			ErrImplementation, d.Sysname(), numProfiles, MaxProfiles)
	}

	active := 0
	for _, p := range d.profiles {
		if p.active {
			active++
		}
		if len(p.resolutions) > MaxResolutions {
			return fmt.Errorf("%w: profile %d has %d resolutions, limit is %d",
				ErrImplementation, p.index, len(p.resolutions), MaxResolutions)
		}
		if len(p.rates) == 0 {
			return fmt.Errorf("%w: profile %d has no report rate list", ErrImplementation, p.index)
		}
		for _, r := range p.resolutions {
			if len(r.dpis) == 0 {
				return fmt.Errorf("%w: profile %d resolution %d has no DPI list",
					ErrImplementation, p.index, r.index)
			}
		}
	}
	if active != 1 {
		return fmt.Errorf("%w: device %q has %d active profiles, want exactly 1",
			ErrImplementation, d.Sysname(), active)
	}

	return nil
}
