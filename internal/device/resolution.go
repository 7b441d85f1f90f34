package device

// Resolution is one DPI slot within a profile.
//
// At most one resolution per profile is active, at most one is the
// default and at most one is the DPI shift target; the setters maintain
// that exclusivity by clearing the flag on siblings.
type Resolution struct {
	profile *Profile
	index   uint

	caps map[ResolutionCapability]bool

	dpiX uint32
	dpiY uint32
	dpis []uint32

	active         bool
	isDefault      bool
	dpiShiftTarget bool
	disabled       bool

	dirty bool
}

func newResolution(p *Profile, index uint) *Resolution {
	return &Resolution{
		profile: p,
		index:   index,
		caps:    make(map[ResolutionCapability]bool),
	}
}

// Index returns the resolution's position within its profile.
func (r *Resolution) Index() uint { return r.index }

// Profile returns the owning profile.
func (r *Resolution) Profile() *Profile { return r.profile }

// Dirty reports whether the resolution has uncommitted changes.
func (r *Resolution) Dirty() bool { return r.dirty }

// HasCapability reports whether the resolution supports c.
func (r *Resolution) HasCapability(c ResolutionCapability) bool {
	return r.caps[c]
}

// SetCapability marks a capability as supported. Driver probe API.
func (r *Resolution) SetCapability(c ResolutionCapability) {
	r.caps[c] = true
}

// Capabilities returns the supported capabilities in ascending order.
func (r *Resolution) Capabilities() []ResolutionCapability {
	caps := make([]ResolutionCapability, 0, len(r.caps))
	for _, c := range []ResolutionCapability{ResolutionCapSeparateXY, ResolutionCapDisable} {
		if r.caps[c] {
			caps = append(caps, c)
		}
	}
	return caps
}

// Dpi returns the horizontal and vertical DPI. For devices without
// separate XY support the two are always equal.
func (r *Resolution) Dpi() (x, y uint32) { return r.dpiX, r.dpiY }

// DpiList returns the DPI values the hardware accepts, ascending.
// The slice is shared; callers must not modify it.
func (r *Resolution) DpiList() []uint32 { return r.dpis }

// MinDpi returns the lowest accepted DPI, or 0 for an empty list.
func (r *Resolution) MinDpi() uint32 {
	if len(r.dpis) == 0 {
		return 0
	}
	return r.dpis[0]
}

// MaxDpi returns the highest accepted DPI, or 0 for an empty list.
func (r *Resolution) MaxDpi() uint32 {
	if len(r.dpis) == 0 {
		return 0
	}
	return r.dpis[len(r.dpis)-1]
}

// IsActive reports whether this is the hardware's current resolution.
func (r *Resolution) IsActive() bool { return r.active }

// IsDefault reports whether this resolution is selected on power up.
func (r *Resolution) IsDefault() bool { return r.isDefault }

// IsDpiShiftTarget reports whether the DPI shift button jumps here.
func (r *Resolution) IsDpiShiftTarget() bool { return r.dpiShiftTarget }

// IsDisabled reports whether the slot is disabled.
func (r *Resolution) IsDisabled() bool { return r.disabled }

// SetDpiList declares the accepted DPI values. Driver probe API; the
// list must be sorted ascending.
func (r *Resolution) SetDpiList(dpis []uint32) {
	r.dpis = make([]uint32, len(dpis))
	copy(r.dpis, dpis)
}

// SetDpiListFromRange declares an accepted DPI range with the given
// step. Driver probe API.
func (r *Resolution) SetDpiListFromRange(min, max, step uint32) {
	if step == 0 || max < min {
		return
	}
	dpis := make([]uint32, 0, (max-min)/step+1)
	for dpi := min; dpi <= max; dpi += step {
		dpis = append(dpis, dpi)
	}
	r.dpis = dpis
}

func (r *Resolution) dpiAccepted(dpi uint32) bool {
	for _, d := range r.dpis {
		if d == dpi {
			return true
		}
	}
	return false
}

// SetDpi sets a uniform DPI. The value must appear in the accepted
// list.
func (r *Resolution) SetDpi(dpi uint32) error {
	if !r.dpiAccepted(dpi) {
		return ErrValue
	}
	if r.dpiX == dpi && r.dpiY == dpi {
		return nil
	}
	r.dpiX = dpi
	r.dpiY = dpi
	r.markDirty()
	return nil
}

// SetDpiXY sets independent horizontal and vertical DPI. Requires
// ResolutionCapSeparateXY. The pair must be both zero or both non-zero,
// and non-zero values must appear in the accepted list.
func (r *Resolution) SetDpiXY(x, y uint32) error {
	if !r.caps[ResolutionCapSeparateXY] {
		return ErrCapability
	}
	if (x == 0) != (y == 0) {
		return ErrValue
	}
	if x != 0 && (!r.dpiAccepted(x) || !r.dpiAccepted(y)) {
		return ErrValue
	}
	if r.dpiX == x && r.dpiY == y {
		return nil
	}
	r.dpiX = x
	r.dpiY = y
	r.markDirty()
	return nil
}

// SetActive makes this the profile's current resolution, clearing the
// flag on its siblings. A disabled slot cannot become active.
func (r *Resolution) SetActive() error {
	if r.disabled {
		return ErrValue
	}
	if r.active {
		return nil
	}
	for _, sibling := range r.profile.resolutions {
		if sibling.active {
			sibling.active = false
			sibling.markDirty()
		}
	}
	r.active = true
	r.markDirty()
	return nil
}

// SetDefault makes this the profile's power-up resolution, clearing the
// flag on its siblings. A disabled slot cannot be the default.
func (r *Resolution) SetDefault() error {
	if r.disabled {
		return ErrValue
	}
	if r.isDefault {
		return nil
	}
	for _, sibling := range r.profile.resolutions {
		if sibling.isDefault {
			sibling.isDefault = false
			sibling.markDirty()
		}
	}
	r.isDefault = true
	r.markDirty()
	return nil
}

// SetDpiShiftTarget makes this the DPI shift destination, clearing the
// flag on its siblings. A disabled slot cannot be the target.
func (r *Resolution) SetDpiShiftTarget() error {
	if r.disabled {
		return ErrValue
	}
	if r.dpiShiftTarget {
		return nil
	}
	for _, sibling := range r.profile.resolutions {
		if sibling.dpiShiftTarget {
			sibling.dpiShiftTarget = false
			sibling.markDirty()
		}
	}
	r.dpiShiftTarget = true
	r.markDirty()
	return nil
}

// SetDisabled disables or re-enables the slot. Requires
// ResolutionCapDisable. A slot that is active, default or the DPI shift
// target must be re-pointed before it can be disabled.
func (r *Resolution) SetDisabled(disabled bool) error {
	if !r.caps[ResolutionCapDisable] {
		return ErrCapability
	}
	if disabled && (r.active || r.isDefault || r.dpiShiftTarget) {
		return ErrValue
	}
	if r.disabled == disabled {
		return nil
	}
	r.disabled = disabled
	r.markDirty()
	return nil
}

// ForceDpi sets the DPI without validation or dirty marking. Drivers
// use it during probe and when re-reading hardware state.
func (r *Resolution) ForceDpi(x, y uint32) {
	r.dpiX = x
	r.dpiY = y
}

// ForceActive sets the active flag without validation or dirty marking.
// Drivers use it during probe and when re-reading hardware state.
func (r *Resolution) ForceActive(active bool) {
	r.active = active
}

// ForceDefault sets the default flag without validation or dirty
// marking. Driver probe API.
func (r *Resolution) ForceDefault(def bool) {
	r.isDefault = def
}

// ForceDisabled sets the disabled flag without validation or dirty
// marking. Driver probe API.
func (r *Resolution) ForceDisabled(disabled bool) {
	r.disabled = disabled
}

// ForceDpiShiftTarget sets the shift target flag without validation or
// dirty marking. Driver probe API.
func (r *Resolution) ForceDpiShiftTarget(target bool) {
	r.dpiShiftTarget = target
}

func (r *Resolution) markDirty() {
	r.dirty = true
	r.profile.dirty = true
}
