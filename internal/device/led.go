package device

// maxEffectDuration is the longest accepted LED effect cycle, in
// milliseconds.
const maxEffectDuration = 10000

// Led is one configurable light zone within a profile.
type Led struct {
	profile *Profile
	index   uint

	modes      map[LedMode]bool
	mode       LedMode
	color      Color
	colorDepth ColorDepth

	// effectDuration is the cycle time in ms for the cycle and
	// breathing modes.
	effectDuration uint32
	brightness     uint8

	dirty bool
}

func newLed(p *Profile, index uint) *Led {
	return &Led{
		profile: p,
		index:   index,
		modes:   map[LedMode]bool{LedModeOff: true},
	}
}

// Index returns the LED's position within its profile.
func (l *Led) Index() uint { return l.index }

// Profile returns the owning profile.
func (l *Led) Profile() *Profile { return l.profile }

// Dirty reports whether the LED has uncommitted changes.
func (l *Led) Dirty() bool { return l.dirty }

// SetModeCapability marks a mode as supported. Driver probe API.
func (l *Led) SetModeCapability(m LedMode) {
	l.modes[m] = true
}

// Modes returns the supported modes in ascending order.
func (l *Led) Modes() []LedMode {
	modes := make([]LedMode, 0, len(l.modes))
	for _, m := range []LedMode{LedModeOff, LedModeOn, LedModeCycle, LedModeBreathing} {
		if l.modes[m] {
			modes = append(modes, m)
		}
	}
	return modes
}

// Mode returns the current mode.
func (l *Led) Mode() LedMode { return l.mode }

// Color returns the current color.
func (l *Led) Color() Color { return l.color }

// ColorDepth returns the LED's color resolution.
func (l *Led) ColorDepth() ColorDepth { return l.colorDepth }

// EffectDuration returns the animation cycle time in milliseconds.
func (l *Led) EffectDuration() uint32 { return l.effectDuration }

// Brightness returns the current brightness.
func (l *Led) Brightness() uint8 { return l.brightness }

// SetMode switches the LED mode. The mode must be advertised in Modes.
func (l *Led) SetMode(m LedMode) error {
	if !l.modes[m] {
		return ErrValue
	}
	if l.mode == m {
		return nil
	}
	l.mode = m
	l.markDirty()
	return nil
}

// SetColor sets the LED color. The value is stored as given; drivers
// quantise to the hardware's color depth on commit.
func (l *Led) SetColor(c Color) error {
	if l.color == c {
		return nil
	}
	l.color = c
	l.markDirty()
	return nil
}

// SetEffectDuration sets the animation cycle time in milliseconds,
// capped at 10 seconds.
func (l *Led) SetEffectDuration(ms uint32) error {
	if ms > maxEffectDuration {
		return ErrValue
	}
	if l.effectDuration == ms {
		return nil
	}
	l.effectDuration = ms
	l.markDirty()
	return nil
}

// SetBrightness sets the LED brightness.
func (l *Led) SetBrightness(b uint8) error {
	if l.brightness == b {
		return nil
	}
	l.brightness = b
	l.markDirty()
	return nil
}

// ForceState sets mode, color, duration and brightness without dirty
// marking. Drivers use it during probe.
func (l *Led) ForceState(m LedMode, c Color, durationMS uint32, brightness uint8) {
	l.mode = m
	l.color = c
	l.effectDuration = durationMS
	l.brightness = brightness
}

// SetColorDepth declares the LED's color resolution. Driver probe API.
func (l *Led) SetColorDepth(d ColorDepth) {
	l.colorDepth = d
}

func (l *Led) markDirty() {
	l.dirty = true
	l.profile.dirty = true
}
