package testdev

import (
	"encoding/json"
	"fmt"
)

// Descriptor limits. Synthetic devices are for testing; anything
// larger than a real flagship mouse is a descriptor bug.
const (
	MaxProfiles    = 12
	MaxResolutions = 8
	MaxButtons     = 25
	MaxLeds        = 8
	MaxMacroLen    = 24
)

// Descriptor describes one synthetic device.
type Descriptor struct {
	Name     string        `json:"name"`
	Profiles []ProfileDesc `json:"profiles"`

	// FirmwareVersion is reported verbatim.
	FirmwareVersion string `json:"firmware_version,omitempty"`

	// CommitFails makes every commit fail with a system error.
	CommitFails bool `json:"commit_fails,omitempty"`

	// ActiveResolutionOverride, when set, makes the next poll report
	// this slot of the active profile as the hardware-selected
	// resolution.
	ActiveResolutionOverride *uint `json:"active_resolution_override,omitempty"`
}

// ProfileDesc describes one profile of a synthetic device.
type ProfileDesc struct {
	Name     string `json:"name,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`

	// CapDisable and CapSetDefault advertise the matching profile
	// capabilities.
	CapDisable    bool `json:"cap_disable,omitempty"`
	CapSetDefault bool `json:"cap_set_default,omitempty"`

	ReportRate  uint32   `json:"report_rate"`
	ReportRates []uint32 `json:"report_rates"`

	// AngleSnapping and Debounce are -1 when the synthetic hardware
	// does not report them.
	AngleSnapping int32    `json:"angle_snapping"`
	Debounce      int32    `json:"debounce"`
	Debounces     []uint32 `json:"debounces,omitempty"`

	Resolutions []ResolutionDesc `json:"resolutions"`
	Buttons     []ButtonDesc     `json:"buttons"`
	Leds        []LedDesc        `json:"leds"`
}

// ResolutionDesc describes one resolution slot.
type ResolutionDesc struct {
	DpiX uint32   `json:"dpi_x"`
	DpiY uint32   `json:"dpi_y"`
	Dpis []uint32 `json:"dpis"`

	Active         bool `json:"active,omitempty"`
	Default        bool `json:"default,omitempty"`
	DpiShiftTarget bool `json:"dpi_shift_target,omitempty"`
	Disabled       bool `json:"disabled,omitempty"`

	CapSeparateXY bool `json:"cap_separate_xy,omitempty"`
	CapDisable    bool `json:"cap_disable,omitempty"`
}

// ButtonDesc describes one button. Type is "none", "button", "special",
// "key" or "macro"; the matching value field applies.
type ButtonDesc struct {
	Type    string `json:"type,omitempty"`
	Button  uint32 `json:"button,omitempty"`
	Special uint32 `json:"special,omitempty"`
	Key     uint32 `json:"key,omitempty"`
}

// LedDesc describes one LED.
type LedDesc struct {
	Mode       uint32 `json:"mode"`
	Red        uint8  `json:"red"`
	Green      uint8  `json:"green"`
	Blue       uint8  `json:"blue"`
	ColorDepth uint32 `json:"colordepth"`
	Duration   uint32 `json:"duration"`
	Brightness uint8  `json:"brightness"`
}

// ParseDescriptor parses and validates a JSON descriptor.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parsing device descriptor: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Validate checks structural limits. Device-level coherence (one
// active profile, non-empty lists) is still enforced by the post-probe
// sanity check, like for any other driver.
func (d *Descriptor) Validate() error {
	if len(d.Profiles) == 0 {
		return fmt.Errorf("device descriptor: no profiles")
	}
	if len(d.Profiles) > MaxProfiles {
		return fmt.Errorf("device descriptor: %d profiles, limit is %d", len(d.Profiles), MaxProfiles)
	}
	for i, p := range d.Profiles {
		if len(p.Resolutions) > MaxResolutions {
			return fmt.Errorf("device descriptor: profile %d has %d resolutions, limit is %d",
				i, len(p.Resolutions), MaxResolutions)
		}
		if len(p.Buttons) > MaxButtons {
			return fmt.Errorf("device descriptor: profile %d has %d buttons, limit is %d",
				i, len(p.Buttons), MaxButtons)
		}
		if len(p.Leds) > MaxLeds {
			return fmt.Errorf("device descriptor: profile %d has %d leds, limit is %d",
				i, len(p.Leds), MaxLeds)
		}
	}
	return nil
}

/// DefaultDescriptor returns the canonical minimal device: one profile,
// one 1000 DPI resolution, one button, no LEDs.
func DefaultDescriptor() *Descriptor {
	return &Descriptor{
		Name: "Test device",
		Profiles: []ProfileDesc{
			{
				Active:        true,
				ReportRate:    1000,
				ReportRates:   []uint32{125, 250, 500, 1000},
				AngleSnapping: -1,
				Debounce:      -1,
				Resolutions: []ResolutionDesc{
					{
						DpiX:   1000,
						DpiY:   1000,
						Dpis:   []uint32{800, 1000, 1600, 3200},
						Active: true,
					},
				},
				Buttons: []ButtonDesc{
					{Type: "button", Button: 1},
				},
			},
		},
	}
}
